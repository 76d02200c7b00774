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

package table

import (
	"testing"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Zürich", "zurich"},
		{"CAFÉ Crème", "cafe creme"},
		{"São Paulo", "sao paulo"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, Normalize(tc.input), tc.expected, "normalized mismatch")
		})
	}
}

func TestGlobalFilter(t *testing.T) {
	r := jobapp.Record{
		Title:    "Développeur Backend",
		Company:  "Acme",
		Location: "Zürich",
		Date:     "2024-03-01",
		Category: jobapp.CategoryFullTime,
		Status:   jobapp.StatusAccepted,
	}
	fn := GlobalFilter(EnglishLabeler{})

	testCases := []struct {
		column   string
		filter   string
		expected bool
	}{
		{ColumnStatus, "accep", true},
		{ColumnStatus, "Interview", false},
		{ColumnStatus, "ACCEPTED", true},
		{ColumnCategory, "full-t", true},
		{ColumnCategory, "FULL_TIME", false},
		{ColumnDate, "mar 1", true},
		{ColumnDate, "2024-03", false},
		{ColumnLocation, "zurich", true},
		{ColumnTitle, "developpeur", true},
		{ColumnTitle, "DÉVELOPPEUR", true},
		{ColumnCompany, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.column+" "+tc.filter, func(t *testing.T) {
			assert.Equal(t, fn(r, tc.column, tc.filter), tc.expected, "match mismatch")
		})
	}
}
