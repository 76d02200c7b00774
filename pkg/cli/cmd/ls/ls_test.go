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

package ls

import (
	"bytes"
	stdcontext "context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/jobtrail/jobtrail/pkg/table"
	"github.com/pkg/errors"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeServer serves the job application endpoints from memory
type fakeServer struct {
	mu      sync.Mutex
	records []jobapp.Record
	queries []string
	deleted []string
}

func newFakeServer(t *testing.T, n int) (*fakeServer, *httptest.Server) {
	f := &fakeServer{}
	for i := 0; i < n; i++ {
		company := "Acme"
		if i%2 == 1 {
			company = "Globex"
		}

		f.records = append(f.records, jobapp.Record{
			ID:        fmt.Sprintf("id-%02d", i),
			Title:     fmt.Sprintf("Role %02d", i),
			Company:   company,
			Location:  "Berlin",
			Date:      "2024-03-01",
			Category:  jobapp.CategoryFullTime,
			Status:    jobapp.StatusApplied,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		})
	}

	ts := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(ts.Close)

	return f, ts
}

func (f *fakeServer) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == "GET" && r.URL.Path == "/jobApplications":
		f.queries = append(f.queries, r.URL.RawQuery)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		start := (page - 1) * size
		if start > len(f.records) {
			start = len(f.records)
		}
		end := start + size
		if end > len(f.records) {
			end = len(f.records)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"jobApplications": f.records[start:end],
			"count":           len(f.records),
		})
	case r.Method == "GET" && r.URL.Path == "/jobApplications/all":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jobApplications": f.records,
			"count":           len(f.records),
		})
	case r.Method == "DELETE" && r.URL.Path == "/jobApplications/batch":
		var payload struct {
			IDs []string `json:"ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ids := map[string]bool{}
		for _, id := range payload.IDs {
			ids[id] = true
		}

		var kept []jobapp.Record
		for _, rec := range f.records {
			if ids[rec.ID] {
				f.deleted = append(f.deleted, rec.ID)
				continue
			}
			kept = append(kept, rec)
		}
		deleted := len(f.records) - len(kept)
		f.records = kept

		json.NewEncoder(w).Encode(map[string]int{"deletedCount": deleted})
	case r.Method == "POST" && r.URL.Path == "/jobApplications":
		var p client.JobApplicationPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rec := jobapp.Record{
			ID:        fmt.Sprintf("new-%02d", len(f.records)),
			Title:     p.Title,
			Company:   p.Company,
			Location:  p.Location,
			Date:      p.Date,
			Category:  jobapp.Category(p.Category),
			Status:    jobapp.Status(p.Status),
			CreatedAt: baseTime.Add(time.Hour),
		}
		f.records = append([]jobapp.Record{rec}, f.records...)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"jobApplication": rec})
	case strings.HasPrefix(r.URL.Path, "/jobApplications/"):
		f.serveRecord(w, r, strings.TrimPrefix(r.URL.Path, "/jobApplications/"))
	default:
		http.NotFound(w, r)
	}
}

// serveRecord handles the endpoints of a single record. f.mu must be held.
func (f *fakeServer) serveRecord(w http.ResponseWriter, r *http.Request, path string) {
	id := strings.TrimSuffix(path, "/duplicate")

	idx := -1
	for i, rec := range f.records {
		if rec.ID == id {
			idx = i
		}
	}
	if idx == -1 {
		http.NotFound(w, r)
		return
	}

	switch {
	case r.Method == "POST" && strings.HasSuffix(path, "/duplicate"):
		cp := f.records[idx]
		cp.ID = "copy-" + id
		cp.CreatedAt = baseTime.Add(time.Hour)
		f.records = append([]jobapp.Record{cp}, f.records...)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"jobApplication": cp})
	case r.Method == "PATCH":
		var p client.PatchJobApplicationPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rec := &f.records[idx]
		if p.Favorite != nil {
			rec.Favorite = *p.Favorite
		}
		if p.Status != nil {
			rec.Status = jobapp.Status(*p.Status)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"jobApplication": *rec})
	case r.Method == "DELETE":
		f.deleted = append(f.deleted, id)
		f.records = append(f.records[:idx:idx], f.records[idx+1:]...)

		json.NewEncoder(w).Encode(map[string]string{"translationKey": "jobApplications.delete.success"})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeServer) getQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.queries...)
}

func (f *fakeServer) getRecords() []jobapp.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]jobapp.Record(nil), f.records...)
}

func (f *fakeServer) getDeleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.deleted...)
}

func TestParseSort(t *testing.T) {
	testCases := []struct {
		input    string
		expected table.Sort
		err      bool
	}{
		{"", table.Sort{}, false},
		{"company", table.Sort{Column: "company"}, false},
		{"company:asc", table.Sort{Column: "company"}, false},
		{"date:DESC", table.Sort{Column: "date", Desc: true}, false},
		{"date:sideways", table.Sort{}, true},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("input %q", tc.input), func(t *testing.T) {
			got, err := parseSort(tc.input)

			assert.Equal(t, err != nil, tc.err, "error mismatch")
			assert.Equal(t, got, tc.expected, "sort mismatch")
		})
	}
}

func TestDo(t *testing.T) {
	f, ts := newFakeServer(t, 25)
	ctx := context.InitTestCtx(t, ts.URL)

	var buf bytes.Buffer
	err := Do(stdcontext.Background(), ctx, &buf, Options{
		Page:     2,
		PageSize: 10,
		Sort:     "title:desc",
		Columns:  "title,company",
	})
	if err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	assert.DeepEqual(t, f.getQueries(), []string{"page=2&size=10"}, "a single fetch of the page is expected")
	assert.Equal(t, len(lines), 12, "line count mismatch")
	assert.DeepEqual(t, strings.Fields(lines[0]), []string{"ID", "Fav", "Title", "Company"}, "header mismatch")
	assert.Equal(t, strings.HasPrefix(lines[1], "id-19"), true, "first row should be the greatest title")
	assert.Equal(t, strings.HasPrefix(lines[10], "id-10"), true, "last row should be the least title")
	assert.Equal(t, lines[11], "page 2 of 3 (25 total)", "page info mismatch")
}

func TestDo_Filter(t *testing.T) {
	_, ts := newFakeServer(t, 10)
	ctx := context.InitTestCtx(t, ts.URL)

	var buf bytes.Buffer
	if err := Do(stdcontext.Background(), ctx, &buf, Options{Page: 1, Filter: "globex"}); err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	out := buf.String()
	assert.Equal(t, strings.Count(out, "Globex"), 5, "only the matching rows should be printed")
	assert.Equal(t, strings.Contains(out, "Acme"), false, "rows not matching should be hidden")
}

func TestDo_InvalidOptions(t *testing.T) {
	_, ts := newFakeServer(t, 1)
	ctx := context.InitTestCtx(t, ts.URL)

	testCases := []struct {
		options  Options
		expected error
	}{
		{Options{Page: 0}, ErrInvalidPage},
		{Options{Page: 1, Sort: "notes"}, table.ErrUnknownColumn},
		{Options{Page: 1, Columns: "title,salary"}, table.ErrUnknownColumn},
	}

	for _, tc := range testCases {
		var buf bytes.Buffer
		err := Do(stdcontext.Background(), ctx, &buf, tc.options)

		assert.Equal(t, errors.Cause(err), tc.expected, fmt.Sprintf("error mismatch for %+v", tc.options))
		assert.Equal(t, buf.Len(), 0, "nothing should be printed")
	}
}

func TestConfigure(t *testing.T) {
	f, ts := newFakeServer(t, 1)
	ctx := context.InitTestCtx(t, ts.URL)

	e := table.New(client.PageFetcher{Ctx: ctx}, table.Config{PageSize: 10})
	defer e.Close()

	err := configure(e, Options{Sort: "company:desc", Columns: "company", Filter: "acme"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "configuring"))
	}

	st := e.State()
	assert.Equal(t, st.Sort, table.Sort{Column: table.ColumnCompany, Desc: true}, "sort mismatch")
	assert.Equal(t, st.GlobalFilter, "acme", "filter mismatch")
	assert.Equal(t, len(f.getQueries()), 0, "configuring should not fetch")

	err = configure(e, Options{Columns: "salary"})
	assert.Equal(t, errors.Cause(err), table.ErrUnknownColumn, "error mismatch")
}

func TestNewEngine_InvalidOptions(t *testing.T) {
	_, ts := newFakeServer(t, 1)
	ctx := context.InitTestCtx(t, ts.URL)

	e, err := newEngine(ctx, Options{Page: 1, Sort: "date:sideways"})
	assert.NotEqual(t, err, nil, "invalid sort should fail")
	assert.Equal(t, e == nil, true, "no engine should be returned")
}
