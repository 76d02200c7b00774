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

package log

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/jobtrail/jobtrail/pkg/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	noColor := color.NoColor
	color.NoColor = true

	buf := &bytes.Buffer{}
	restore := SetOutput(buf)
	t.Cleanup(func() {
		restore()
		color.NoColor = noColor
	})

	return buf
}

func TestMessages(t *testing.T) {
	testCases := []struct {
		name     string
		print    func()
		expected string
	}{
		{"info", func() { Infof("%d found\n", 3) }, "  • 3 found\n"},
		{"success", func() { Successf("added\n") }, "  ✔ added\n"},
		{"error", func() { Errorf("failed: %s\n", "boom") }, "  ⨯ failed: boom\n"},
		{"plain", func() { Plainf("%s\n", "text") }, "  text\n"},
		{"ask", func() { Askf("email", false) }, "  [?] email: "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := capture(t)
			tc.print()
			assert.Equal(t, buf.String(), tc.expected, "output mismatch")
		})
	}
}

func TestDebug(t *testing.T) {
	buf := capture(t)

	t.Setenv(debugEnvName, "")
	Debug("hidden\n")
	assert.Equal(t, buf.String(), "", "debug should be off")

	t.Setenv(debugEnvName, debugEnvValue)
	Debug("shown\n")
	assert.Equal(t, buf.String(), "DEBUG: shown\n", "debug should be on")
}
