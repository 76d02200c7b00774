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

// Package prompt implements yes or no questions on the terminal
package prompt

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// FormatQuestion appends the choices to the question. The capitalized
// choice is the one an empty answer selects.
func FormatQuestion(question string, optimistic bool) string {
	if optimistic {
		return question + " (Y/n)"
	}

	return question + " (y/N)"
}

// Answer interprets a reply to a question formatted by FormatQuestion
func Answer(reply string, optimistic bool) bool {
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "y", "yes":
		return true
	case "":
		return optimistic
	default:
		return false
	}
}

// ReadYesNo reads a line from r and interprets it with Answer. A final line
// without a newline is accepted.
func ReadYesNo(r io.Reader, optimistic bool) (bool, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return false, errors.Wrap(err, "reading answer")
	}

	return Answer(line, optimistic), nil
}
