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

package fav

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

func TestDo(t *testing.T) {
	for _, favorite := range []bool{true, false} {
		t.Run(fmt.Sprintf("favorite %t", favorite), func(t *testing.T) {
			var body map[string]interface{}
			var path string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}

				w.Header().Set("Content-Type", "application/json")
				fmt.Fprintf(w, `{"jobApplication":{"id":"a1","favorite":%t}}`, body["favorite"])
			}))
			defer ts.Close()

			ctx := context.InitTestCtx(t, ts.URL)

			r, err := Do(ctx, "a1", favorite)
			if err != nil {
				t.Fatal(errors.Wrap(err, "executing"))
			}

			assert.Equal(t, path, "/jobApplications/a1", "path mismatch")
			assert.Equal(t, body["favorite"], favorite, "payload mismatch")
			assert.Equal(t, len(body), 1, "only favorite should be sent")
			assert.Equal(t, r.Favorite, favorite, "result mismatch")
		})
	}
}
