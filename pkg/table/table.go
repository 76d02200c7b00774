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

// Package table composes a server-paged list of job applications with
// client-side sorting, filtering, column visibility and row selection.
package table

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/pkg/errors"
)

// DefaultPageSize is the page size of a new engine
const DefaultPageSize = 10

var (
	// ErrSuperseded is returned by a fetch whose result was discarded because
	// a newer pagination change was made while it was in flight
	ErrSuperseded = errors.New("fetch superseded by a newer page change")
	// ErrClosed is returned once the engine is closed
	ErrClosed = errors.New("table engine is closed")
	// ErrInvalidPage is returned for a negative page index
	ErrInvalidPage = errors.New("page index must not be negative")
	// ErrInvalidPageSize is returned for a page size below one
	ErrInvalidPageSize = errors.New("page size must be positive")
	// ErrUnknownColumn is returned for a column id that is not in Columns
	ErrUnknownColumn = errors.New("unknown column")
)

// Page is a slice of the collection chosen by the server
type Page struct {
	Records []jobapp.Record
	Count   int
}

// Fetcher loads one page of the collection. pageIndex is zero-based.
type Fetcher interface {
	FetchPage(ctx context.Context, pageIndex, pageSize int) (Page, error)
}

// FetcherFunc adapts a function to a Fetcher
type FetcherFunc func(ctx context.Context, pageIndex, pageSize int) (Page, error)

// FetchPage implements Fetcher
func (f FetcherFunc) FetchPage(ctx context.Context, pageIndex, pageSize int) (Page, error) {
	return f(ctx, pageIndex, pageSize)
}

// Sort is the active sort. An empty Column means unsorted.
type Sort struct {
	Column string
	Desc   bool
}

// State is a snapshot of the view state
type State struct {
	PageIndex    int
	PageSize     int
	Sort         Sort
	GlobalFilter string
	Visibility   map[string]bool
	Selection    map[string]bool
}

// Config configures an Engine. Zero values select the defaults.
type Config struct {
	// PageIndex is the zero-based page shown first
	PageIndex int
	PageSize  int
	Labeler   Labeler
	Filter    FilterFunc
}

type pagination struct {
	index int
	size  int
}

// Engine holds the view state of the table. It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	fetcher Fetcher
	labeler Labeler
	filter  FilterFunc

	state State
	page  Page
	// shown is the pagination the loaded page was fetched with
	shown pagination

	gen    uint64
	cancel context.CancelFunc
	closed bool
}

// New returns an engine on the first page. Nothing is fetched until Reload
// or a pagination change.
func New(f Fetcher, c Config) *Engine {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageIndex < 0 {
		c.PageIndex = 0
	}
	if c.Labeler == nil {
		c.Labeler = EnglishLabeler{}
	}
	if c.Filter == nil {
		c.Filter = GlobalFilter(c.Labeler)
	}

	return &Engine{
		fetcher: f,
		labeler: c.Labeler,
		filter:  c.Filter,
		state: State{
			PageIndex:  c.PageIndex,
			PageSize:   c.PageSize,
			Visibility: map[string]bool{},
			Selection:  map[string]bool{},
		},
		shown: pagination{index: c.PageIndex, size: c.PageSize},
	}
}

// State returns a copy of the current view state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	ret := e.state
	ret.Visibility = make(map[string]bool, len(e.state.Visibility))
	for k, v := range e.state.Visibility {
		ret.Visibility[k] = v
	}
	ret.Selection = make(map[string]bool, len(e.state.Selection))
	for k, v := range e.state.Selection {
		ret.Selection[k] = v
	}

	return ret
}

// Reload fetches the current page again
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	fctx, gen := e.beginFetch(ctx)
	p := pagination{index: e.state.PageIndex, size: e.state.PageSize}
	e.mu.Unlock()

	return e.runFetch(fctx, gen, p)
}

// SetPagination moves to the given page and size, fetching exactly once if
// either changed. When the fetch fails, the previous page stays loaded and
// the pagination reverts to it.
func (e *Engine) SetPagination(ctx context.Context, pageIndex, pageSize int) error {
	if pageIndex < 0 {
		return ErrInvalidPage
	}
	if pageSize <= 0 {
		return ErrInvalidPageSize
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if pageIndex == e.state.PageIndex && pageSize == e.state.PageSize {
		e.mu.Unlock()
		return nil
	}
	e.state.PageIndex = pageIndex
	e.state.PageSize = pageSize
	fctx, gen := e.beginFetch(ctx)
	e.mu.Unlock()

	return e.runFetch(fctx, gen, pagination{index: pageIndex, size: pageSize})
}

// SetPage moves to the page with the given zero-based index
func (e *Engine) SetPage(ctx context.Context, pageIndex int) error {
	return e.SetPagination(ctx, pageIndex, e.State().PageSize)
}

// SetPageSize changes the page size and returns to the first page
func (e *Engine) SetPageSize(ctx context.Context, pageSize int) error {
	return e.SetPagination(ctx, 0, pageSize)
}

// ResetPagination returns to the first page
func (e *Engine) ResetPagination(ctx context.Context) error {
	return e.SetPage(ctx, 0)
}

// beginFetch cancels the fetch in flight and starts a new generation. e.mu
// must be held.
func (e *Engine) beginFetch(ctx context.Context) (context.Context, uint64) {
	if e.cancel != nil {
		e.cancel()
	}

	fctx, cancel := context.WithCancel(ctx)
	e.gen++
	e.cancel = cancel

	return fctx, e.gen
}

func (e *Engine) runFetch(ctx context.Context, gen uint64, p pagination) error {
	page, err := e.fetcher.FetchPage(ctx, p.index, p.size)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if gen != e.gen {
		return ErrSuperseded
	}

	e.cancel()
	e.cancel = nil

	if err != nil {
		e.state.PageIndex = e.shown.index
		e.state.PageSize = e.shown.size
		return errors.Wrapf(err, "fetching page %d", p.index)
	}

	e.page = Page{
		Records: append([]jobapp.Record(nil), page.Records...),
		Count:   page.Count,
	}
	e.shown = p

	return nil
}

// Close cancels the fetch in flight. Results arriving afterwards are dropped.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.closed = true
}

// Count returns the size of the whole collection as last reported by the server
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.page.Count
}

// PageCount returns the number of pages of the collection
func (e *Engine) PageCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return (e.page.Count + e.shown.size - 1) / e.shown.size
}

// ToggleSort cycles the sort of a column through ascending, descending and
// unsorted. Sorting a column clears the sort of any other column.
func (e *Engine) ToggleSort(columnID string) error {
	c, ok := LookupColumn(columnID)
	if !ok || !c.Sortable {
		return errors.Wrapf(ErrUnknownColumn, "'%s'", columnID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.state.Sort
	switch {
	case cur.Column != columnID:
		e.state.Sort = Sort{Column: columnID}
	case !cur.Desc:
		e.state.Sort = Sort{Column: columnID, Desc: true}
	default:
		e.state.Sort = Sort{}
	}

	return nil
}

// SetSort replaces the sort. A zero Sort clears it.
func (e *Engine) SetSort(s Sort) error {
	if s.Column != "" {
		c, ok := LookupColumn(s.Column)
		if !ok || !c.Sortable {
			return errors.Wrapf(ErrUnknownColumn, "'%s'", s.Column)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Sort = s

	return nil
}

// SetGlobalFilter narrows the rows of the loaded page to those matching value
func (e *Engine) SetGlobalFilter(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.GlobalFilter = value
}

// SetColumnVisibility shows or hides a column
func (e *Engine) SetColumnVisibility(columnID string, visible bool) error {
	c, ok := LookupColumn(columnID)
	if !ok || !c.Hideable {
		return errors.Wrapf(ErrUnknownColumn, "'%s'", columnID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if visible {
		delete(e.state.Visibility, columnID)
	} else {
		e.state.Visibility[columnID] = false
	}

	return nil
}

// VisibleColumns returns the columns that are not hidden, in display order
func (e *Engine) VisibleColumns() []Column {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ret []Column
	for _, c := range Columns {
		if v, ok := e.state.Visibility[c.ID]; ok && !v {
			continue
		}
		ret = append(ret, c)
	}

	return ret
}

// Rows returns the loaded page sorted and filtered for display
func (e *Engine) Rows() []jobapp.Record {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.rows()
}

func (e *Engine) rows() []jobapp.Record {
	var ret []jobapp.Record

	if e.state.Sort.Column == "" {
		ret = DefaultOrder(e.page.Records)
	} else {
		ret = make([]jobapp.Record, len(e.page.Records))
		copy(ret, e.page.Records)

		s := e.state.Sort
		sortStable(ret, func(a, b jobapp.Record) bool {
			c := compareColumn(a, b, s.Column, e.labeler)
			if s.Desc {
				return c > 0
			}
			return c < 0
		})
	}

	filter := strings.TrimSpace(e.state.GlobalFilter)
	if filter == "" {
		return ret
	}

	filtered := ret[:0]
	for _, r := range ret {
		if matchAny(r, filter, e.filter) {
			filtered = append(filtered, r)
		}
	}

	return filtered
}

// ToggleRow selects or deselects the record with the id
func (e *Engine) ToggleRow(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Selection[id] {
		delete(e.state.Selection, id)
	} else {
		e.state.Selection[id] = true
	}
}

// SelectAllOnPage selects every row currently displayed
func (e *Engine) SelectAllOnPage() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range e.rows() {
		e.state.Selection[r.ID] = true
	}
}

// Selected returns the ids of the selected records in ascending order
func (e *Engine) Selected() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ret := make([]string, 0, len(e.state.Selection))
	for id := range e.state.Selection {
		ret = append(ret, id)
	}
	sort.Strings(ret)

	return ret
}

// CanDeleteSelected reports whether a batch delete of the selection is allowed
func (e *Engine) CanDeleteSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.state.Selection) > 0
}

// ResetSelection clears the selection
func (e *Engine) ResetSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Selection = map[string]bool{}
}

func sortStable(records []jobapp.Record, less func(a, b jobapp.Record) bool) {
	sort.SliceStable(records, func(i, j int) bool {
		return less(records[i], records[j])
	})
}
