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
	"time"

	"github.com/jobtrail/jobtrail/pkg/jobapp"
)

// Column ids
const (
	ColumnTitle     = "title"
	ColumnCompany   = "company"
	ColumnLocation  = "location"
	ColumnDate      = "date"
	ColumnCategory  = "category"
	ColumnStatus    = "status"
	ColumnLink      = "link"
	ColumnNotes     = "notes"
	ColumnFavorite  = "favorite"
	ColumnCreatedAt = "createdAt"
)

// Column describes a column of the job application table
type Column struct {
	ID         string
	Header     string
	Sortable   bool
	Filterable bool
	Hideable   bool
}

// Columns lists every column in display order
var Columns = []Column{
	{ID: ColumnFavorite, Header: "Fav", Sortable: true},
	{ID: ColumnTitle, Header: "Title", Sortable: true, Filterable: true},
	{ID: ColumnCompany, Header: "Company", Sortable: true, Filterable: true, Hideable: true},
	{ID: ColumnLocation, Header: "Location", Sortable: true, Filterable: true, Hideable: true},
	{ID: ColumnDate, Header: "Date", Sortable: true, Filterable: true, Hideable: true},
	{ID: ColumnCategory, Header: "Category", Sortable: true, Filterable: true, Hideable: true},
	{ID: ColumnStatus, Header: "Status", Sortable: true, Filterable: true, Hideable: true},
	{ID: ColumnLink, Header: "Link", Hideable: true},
	{ID: ColumnNotes, Header: "Notes", Filterable: true, Hideable: true},
	{ID: ColumnCreatedAt, Header: "Created", Sortable: true, Hideable: true},
}

// LookupColumn returns the column with the given id
func LookupColumn(id string) (Column, bool) {
	for _, c := range Columns {
		if c.ID == id {
			return c, true
		}
	}

	return Column{}, false
}

// Labeler renders the stored values that are displayed differently
type Labeler interface {
	StatusLabel(s jobapp.Status) string
	CategoryLabel(c jobapp.Category) string
	DateLabel(date string) string
}

// EnglishLabeler displays enums with their English labels and dates as "Jan 2, 2006"
type EnglishLabeler struct{}

// StatusLabel implements Labeler
func (EnglishLabeler) StatusLabel(s jobapp.Status) string {
	return s.Label()
}

// CategoryLabel implements Labeler
func (EnglishLabeler) CategoryLabel(c jobapp.Category) string {
	return c.Label()
}

// DateLabel implements Labeler. Malformed dates are returned verbatim.
func (EnglishLabeler) DateLabel(date string) string {
	t, err := jobapp.ParseDate(date)
	if err != nil {
		return date
	}

	return t.Format("Jan 2, 2006")
}

// DisplayValue returns the value of the column as it is shown to the user
func DisplayValue(r jobapp.Record, columnID string, l Labeler) string {
	switch columnID {
	case ColumnTitle:
		return r.Title
	case ColumnCompany:
		return r.Company
	case ColumnLocation:
		return r.Location
	case ColumnDate:
		return l.DateLabel(r.Date)
	case ColumnCategory:
		return l.CategoryLabel(r.Category)
	case ColumnStatus:
		return l.StatusLabel(r.Status)
	case ColumnLink:
		return r.Link
	case ColumnNotes:
		return r.Notes
	case ColumnFavorite:
		if r.Favorite {
			return "*"
		}
		return ""
	case ColumnCreatedAt:
		return r.CreatedAt.Format(time.RFC3339)
	default:
		return ""
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// compareColumn orders two records by a column in ascending order
func compareColumn(a, b jobapp.Record, columnID string, l Labeler) int {
	switch columnID {
	case ColumnFavorite:
		return compareBool(a.Favorite, b.Favorite)
	case ColumnCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case ColumnDate:
		// ISO dates order lexically
		return strings.Compare(a.Date, b.Date)
	default:
		return strings.Compare(Normalize(DisplayValue(a, columnID, l)), Normalize(DisplayValue(b, columnID, l)))
	}
}

// DefaultLess reports whether a is shown before b when no sort is active:
// favorites first, then the most recently created, then the latest date.
func DefaultLess(a, b jobapp.Record) bool {
	if a.Favorite != b.Favorite {
		return a.Favorite
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}

	return a.Date > b.Date
}

// DefaultOrder returns a copy of the page in the default display order. The
// input is left untouched.
func DefaultOrder(records []jobapp.Record) []jobapp.Record {
	ret := make([]jobapp.Record, len(records))
	copy(ret, records)

	sortStable(ret, DefaultLess)

	return ret
}
