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

package stats

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/pkg/errors"
)

func TestDo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/jobApplications/stats":
			fmt.Fprint(w, `{"total":3,"inProgress":2,"byStatus":{"APPLIED":1,"OFFER":1,"REJECTED":1}}`)
		case "/jobApplications/all":
			fmt.Fprint(w, `{"jobApplications":[{"id":"a1","status":"APPLIED"},{"id":"b2","status":"APPLIED"}],"count":2}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	ctx := context.InitTestCtx(t, ts.URL)

	t.Run("server", func(t *testing.T) {
		s, err := Do(ctx, false)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, s.Total, 3, "total mismatch")
		assert.Equal(t, s.InProgress, 2, "in progress mismatch")
		assert.Equal(t, s.ByStatus[jobapp.StatusOffer], 1, "offer count mismatch")
	})

	t.Run("local", func(t *testing.T) {
		s, err := Do(ctx, true)
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, s.Total, 2, "total mismatch")
		assert.Equal(t, s.ByStatus[jobapp.StatusApplied], 2, "applied count mismatch")
		assert.Equal(t, s.ByStatus[jobapp.StatusOffer], 0, "offer count mismatch")
	})
}
