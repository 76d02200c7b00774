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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/cli/consts"
	"github.com/jobtrail/jobtrail/pkg/clock"
)

func assertDirsExist(t *testing.T, paths Paths) {
	configDir := filepath.Join(paths.Config, consts.DirName)
	info, err := os.Stat(configDir)
	assert.Equal(t, err, nil, "config dir should exist")
	assert.Equal(t, info.IsDir(), true, "config should be a directory")

	cacheDir := filepath.Join(paths.Cache, consts.DirName)
	info, err = os.Stat(cacheDir)
	assert.Equal(t, err, nil, "cache dir should exist")
	assert.Equal(t, info.IsDir(), true, "cache should be a directory")
}

func TestInitDirs(t *testing.T) {
	tmpDir := t.TempDir()

	paths := Paths{
		Config: filepath.Join(tmpDir, "config"),
		Cache:  filepath.Join(tmpDir, "cache"),
	}

	err := InitDirs(paths)
	assert.Equal(t, err, nil, "InitDirs should succeed")
	assertDirsExist(t, paths)

	// idempotent
	err = InitDirs(paths)
	assert.Equal(t, err, nil, "InitDirs should succeed when dirs already exist")
	assertDirsExist(t, paths)
}

func TestLoggedIn(t *testing.T) {
	c := clock.NewMock()
	now := c.Now()

	testCases := []struct {
		name     string
		key      string
		expiry   time.Time
		expected bool
	}{
		{"valid", "key", now.Add(time.Hour), true},
		{"expired", "key", now.Add(-time.Hour), false},
		{"no key", "", now.Add(time.Hour), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := Ctx{SessionKey: tc.key, SessionKeyExpiry: tc.expiry.Unix(), Clock: c}
			assert.Equal(t, ctx.LoggedIn(), tc.expected, "result mismatch")
		})
	}
}

func TestRedact(t *testing.T) {
	assert.Equal(t, Redact(Ctx{SessionKey: "secret"}).SessionKey, "1", "present key")
	assert.Equal(t, Redact(Ctx{}).SessionKey, "0", "missing key")
}
