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

package context

import (
	"net/http"
	"testing"
	"time"

	"github.com/jobtrail/jobtrail/pkg/clock"
	"github.com/pkg/errors"
)

// InitTestCtx initializes a test context pointing at the given server with
// a temporary directory for all paths
func InitTestCtx(t *testing.T, apiEndpoint string) Ctx {
	tmpDir := t.TempDir()
	paths := Paths{
		Home:   tmpDir,
		Cache:  tmpDir,
		Config: tmpDir,
		Data:   tmpDir,
	}

	if err := InitDirs(paths); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	c := clock.NewMock()

	return Ctx{
		Paths:            paths,
		APIEndpoint:      apiEndpoint,
		Version:          "test",
		SessionKey:       "test-session-key",
		SessionKeyExpiry: c.Now().Add(24 * time.Hour).Unix(),
		PageSize:         10,
		Clock:            c,
		HTTPClient:       &http.Client{},
	}
}
