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

// Package validate checks user input before it is sent to the server
package validate

import (
	"strings"

	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/pkg/errors"
)

// ErrFieldEmpty is an error for a required field left empty
var ErrFieldEmpty = errors.New("is required")

// ErrFieldMultiline is an error for a single line field that has linebreaks
var ErrFieldMultiline = errors.New("cannot contain multiple lines")

// ErrInvalidCategory is an error for an unknown category
var ErrInvalidCategory = errors.New("is not a known category")

// ErrInvalidStatus is an error for an unknown status
var ErrInvalidStatus = errors.New("is not a known status")

// ErrInvalidDate is an error for a date not in YYYY-MM-DD form
var ErrInvalidDate = errors.New("must be in YYYY-MM-DD form")

// enumKey turns "full-time" or "Full time" into "FULL_TIME"
func enumKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)

	return strings.ToUpper(s)
}

// Category parses a category given by its value or its label
func Category(s string) (jobapp.Category, error) {
	key := enumKey(s)
	for _, c := range jobapp.Categories {
		if string(c) == key || enumKey(c.Label()) == key {
			return c, nil
		}
	}

	return "", ErrInvalidCategory
}

// Status parses a status given by its value or its label
func Status(s string) (jobapp.Status, error) {
	key := enumKey(s)
	for _, st := range jobapp.Statuses {
		if string(st) == key || enumKey(st.Label()) == key {
			return st, nil
		}
	}

	return "", ErrInvalidStatus
}

// Date validates a calendar date
func Date(s string) error {
	if _, err := jobapp.ParseDate(s); err != nil {
		return ErrInvalidDate
	}

	return nil
}

// Line validates a required single line field
func Line(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrFieldEmpty
	}
	if strings.ContainsAny(s, "\r\n") {
		return ErrFieldMultiline
	}

	return nil
}
