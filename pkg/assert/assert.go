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

// Package assert provides the small set of test assertions used across
// the repository.
package assert

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func formatMessage(message string, a, b interface{}) string {
	var prefix string
	if message != "" {
		prefix = message + ". "
	}

	return fmt.Sprintf("%sgot: %+v (%T), want: %+v (%T)", prefix, a, a, b, b)
}

// Equal errors a test if the actual does not match the expected
func Equal(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if a != b {
		t.Error(formatMessage(message, a, b))
	}
}

// Equalf fails a test if the actual does not match the expected
func Equalf(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if a != b {
		t.Fatal(formatMessage(message, a, b))
	}
}

// NotEqual errors a test if the actual matches the expected
func NotEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if a == b {
		t.Errorf("%s. both were %+v", message, a)
	}
}

// DeepEqual errors a test if the actual is not deeply equal to the expected.
// The failure message carries a diff.
func DeepEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if diff := cmp.Diff(b, a); diff != "" {
		t.Errorf("%s (-want +got):\n%s", message, diff)
	}
}

// EqualJSON asserts that two JSON strings are semantically equal
func EqualJSON(t *testing.T, a, b, message string) {
	t.Helper()

	var o1, o2 interface{}
	if err := json.Unmarshal([]byte(a), &o1); err != nil {
		t.Fatalf("%s: unmarshalling actual: %v", message, err)
	}
	if err := json.Unmarshal([]byte(b), &o2); err != nil {
		t.Fatalf("%s: unmarshalling expected: %v", message, err)
	}

	DeepEqual(t, o1, o2, message)
}

// StatusCodeEquals asserts the status code of the response. On mismatch the
// response body is printed to aid debugging.
func StatusCodeEquals(t *testing.T, res *http.Response, expected int, message string) {
	t.Helper()

	if res.StatusCode == expected {
		return
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("reading body of a response with unexpected status: %v", err)
	}

	t.Errorf("%s. status code got: %d, want: %d. body: %s", message, res.StatusCode, expected, string(body))
}
