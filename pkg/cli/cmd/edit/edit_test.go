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

package edit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/validate"
	"github.com/pkg/errors"
)

func TestBuildPatch(t *testing.T) {
	t.Run("only changed flags are sent", func(t *testing.T) {
		cmd := NewCmd(context.Ctx{})
		if err := cmd.ParseFlags([]string{"--status", "offer", "--notes", ""}); err != nil {
			t.Fatal(err)
		}

		p, err := buildPatch(cmd.Flags())
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, *p.Status, "OFFER", "status mismatch")
		assert.Equal(t, *p.Notes, "", "notes should be cleared")
		assert.Equal(t, p.Title == nil, true, "title should not be set")
		assert.Equal(t, p.Category == nil, true, "category should not be set")
	})

	t.Run("invalid values", func(t *testing.T) {
		testCases := []struct {
			args     []string
			expected error
		}{
			{[]string{"--title", ""}, validate.ErrFieldEmpty},
			{[]string{"--date", "2024-13-01"}, validate.ErrInvalidDate},
			{[]string{"--category", "gig"}, validate.ErrInvalidCategory},
			{[]string{"--status", "ghosted"}, validate.ErrInvalidStatus},
		}

		for _, tc := range testCases {
			cmd := NewCmd(context.Ctx{})
			if err := cmd.ParseFlags(tc.args); err != nil {
				t.Fatal(err)
			}

			_, err := buildPatch(cmd.Flags())
			assert.Equal(t, errors.Cause(err), tc.expected, fmt.Sprintf("error mismatch for %v", tc.args))
		}
	})
}

func TestDo(t *testing.T) {
	var body map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"jobApplication":{"id":"a1","status":"OFFER"}}`)
	}))
	defer ts.Close()

	ctx := context.InitTestCtx(t, ts.URL)

	status := "OFFER"
	r, err := Do(ctx, "a1", client.PatchJobApplicationPayload{Status: &status})
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	assert.Equal(t, string(r.Status), "OFFER", "status mismatch")
	assert.Equal(t, len(body), 1, "only the status should be sent")

	_, err = Do(ctx, "a1", client.PatchJobApplicationPayload{})
	assert.Equal(t, err, ErrNothingToEdit, "empty patch")
}
