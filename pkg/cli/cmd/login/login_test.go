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

package login

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/config"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/pkg/errors"
)

func TestGetServerDisplayURL(t *testing.T) {
	testCases := []struct {
		apiEndpoint string
		expected    string
	}{
		{
			apiEndpoint: "https://jobtrail.mydomain.com/api/v1",
			expected:    "https://jobtrail.mydomain.com",
		},
		{
			apiEndpoint: "https://mysubdomain.mydomain.com/jobtrail/api/v1",
			expected:    "https://mysubdomain.mydomain.com",
		},
		{
			apiEndpoint: "http://localhost:3001/api/v1",
			expected:    "http://localhost:3001",
		},
		{
			apiEndpoint: "some-string",
			expected:    "",
		},
		{
			apiEndpoint: "",
			expected:    "",
		},
		{
			apiEndpoint: "https://",
			expected:    "",
		},
		{
			apiEndpoint: "https://abc",
			expected:    "https://abc",
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("for input %s", tc.apiEndpoint), func(t *testing.T) {
			got := getServerDisplayURL(context.Ctx{APIEndpoint: tc.apiEndpoint})
			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func TestDo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload client.SigninPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if payload.Password != "pass1234" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"Wrong email and password combination"}`)
			return
		}

		fmt.Fprint(w, `{"key":"new-key","expiresAt":"2024-03-18T09:30:00Z"}`)
	}))
	defer ts.Close()

	ctx := context.InitTestCtx(t, ts.URL)
	if err := config.Write(ctx, config.Config{APIEndpoint: ts.URL}); err != nil {
		t.Fatal(errors.Wrap(err, "preparing config"))
	}

	t.Run("wrong password", func(t *testing.T) {
		err := Do(ctx, "alice@example.com", "nope")
		assert.Equal(t, errors.Cause(err), client.ErrInvalidLogin, "error mismatch")

		cf, err := config.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, cf.SessionKey, "", "session should not be saved")
	})

	t.Run("success", func(t *testing.T) {
		if err := Do(ctx, "alice@example.com", "pass1234"); err != nil {
			t.Fatal(errors.Wrap(err, "logging in"))
		}

		cf, err := config.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, cf.SessionKey, "new-key", "session key mismatch")
		assert.Equal(t, cf.SessionKeyExpiry, int64(1710754200), "session expiry mismatch")
		assert.Equal(t, cf.APIEndpoint, ts.URL, "endpoint should be kept")
	})
}
