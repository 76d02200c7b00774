/* Copyright 2025 Jobtrail Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package remove

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/pkg/errors"
)

func TestUniqueIDs(t *testing.T) {
	got := uniqueIDs([]string{"a1", "b2,c3", "a1", " ", "c3,d4"})

	assert.DeepEqual(t, got, []string{"a1", "b2", "c3", "d4"}, "ids mismatch")
}

func TestConfirmationQuestion(t *testing.T) {
	assert.Equal(t, confirmationQuestion(1), "remove 1 job application?", "singular mismatch")
	assert.Equal(t, confirmationQuestion(3), "remove 3 job applications?", "plural mismatch")
}

func TestDo(t *testing.T) {
	var gotIDs []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotIDs = payload.IDs

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"deletedCount":%d}`, len(payload.IDs)-1)
	}))
	defer ts.Close()

	ctx := context.InitTestCtx(t, ts.URL)

	n, err := Do(ctx, []string{"a1", "b2", "missing"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	assert.Equal(t, n, 2, "deleted count mismatch")
	assert.DeepEqual(t, gotIDs, []string{"a1", "b2", "missing"}, "payload mismatch")

	_, err = Do(ctx, nil)
	assert.Equal(t, err, ErrNoIDs, "empty ids")
}
