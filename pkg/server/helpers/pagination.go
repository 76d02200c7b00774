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

package helpers

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

const (
	// DefaultPageSize is the page size used when a request does not specify one
	DefaultPageSize = 10
	// MaxPageSize is the largest page a single request may ask for
	MaxPageSize = 100
)

var (
	// ErrInvalidPage is returned when the page parameter is not a positive integer
	ErrInvalidPage = errors.New("page must be a positive integer")
	// ErrInvalidPageSize is returned when the size parameter is out of range
	ErrInvalidPageSize = errors.New("size must be between 1 and 100")
)

// Pagination is a 1-based page request
type Pagination struct {
	Page int
	Size int
}

// Offset returns the number of records preceding the page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}

// ParsePagination reads the page and size parameters from the query. Missing
// values fall back to the first page of DefaultPageSize records.
func ParsePagination(q url.Values) (Pagination, error) {
	ret := Pagination{Page: 1, Size: DefaultPageSize}

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Pagination{}, ErrInvalidPage
		}
		ret.Page = n
	}

	if s := q.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxPageSize {
			return Pagination{}, ErrInvalidPageSize
		}
		ret.Size = n
	}

	return ret, nil
}

// GetPath returns a path with the encoded query string, if any
func GetPath(path string, q *url.Values) string {
	if q == nil {
		return path
	}

	qs := q.Encode()
	if qs == "" {
		return path
	}

	return path + "?" + qs
}
