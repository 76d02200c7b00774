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
	"strings"
	"unicode"

	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize strips diacritics and folds case so that "Éte" and "ete" compare
// equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	ret, _, err := transform.String(t, s)
	if err != nil {
		ret = s
	}

	return cases.Fold().String(ret)
}

// FilterFunc decides whether the value of a record column matches the filter
type FilterFunc func(r jobapp.Record, columnID, filterValue string) bool

// GlobalFilter returns a FilterFunc matching the displayed value of a column
// against the filter, ignoring case and diacritics.
func GlobalFilter(l Labeler) FilterFunc {
	return func(r jobapp.Record, columnID, filterValue string) bool {
		return strings.Contains(Normalize(DisplayValue(r, columnID, l)), Normalize(filterValue))
	}
}

// matchAny reports whether any filterable column of the record matches
func matchAny(r jobapp.Record, filterValue string, fn FilterFunc) bool {
	for _, c := range Columns {
		if c.Filterable && fn(r, c.ID, filterValue) {
			return true
		}
	}

	return false
}
