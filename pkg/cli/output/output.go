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

// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/jobtrail/jobtrail/pkg/stats"
	"github.com/jobtrail/jobtrail/pkg/table"
	"github.com/mattn/go-runewidth"
)

const (
	// maxCellWidth is the widest a table cell is printed before truncation
	maxCellWidth = 32
	columnGap    = "  "
	headerID     = "ID"
)

func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")

	return runewidth.Truncate(s, maxCellWidth, "…")
}

// Table prints rows as aligned columns. The id column always comes first.
// If selected is not nil, a leading column marks the selected rows.
func Table(w io.Writer, cols []table.Column, rows []jobapp.Record, l table.Labeler, selected map[string]bool) {
	marks := selected != nil

	var headers []string
	if marks {
		headers = append(headers, "")
	}
	headers = append(headers, headerID)
	for _, c := range cols {
		headers = append(headers, c.Header)
	}

	grid := make([][]string, 0, len(rows)+1)
	grid = append(grid, headers)
	for _, r := range rows {
		var line []string
		if marks {
			mark := " "
			if selected[r.ID] {
				mark = ">"
			}
			line = append(line, mark)
		}
		line = append(line, r.ID)
		for _, c := range cols {
			line = append(line, cell(table.DisplayValue(r, c.ID, l)))
		}
		grid = append(grid, line)
	}

	widths := make([]int, len(headers))
	for _, line := range grid {
		for i, v := range line {
			if n := runewidth.StringWidth(v); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for _, line := range grid {
		var b strings.Builder
		for i, v := range line {
			if i > 0 {
				b.WriteString(columnGap)
			}
			if i == len(line)-1 {
				b.WriteString(v)
				continue
			}
			b.WriteString(runewidth.FillRight(v, widths[i]))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

// PageInfo prints the position of the page within the collection. pageIndex
// is zero-based.
func PageInfo(w io.Writer, pageIndex, pageCount, count int) {
	if count == 0 {
		fmt.Fprintln(w, "no job applications")
		return
	}

	fmt.Fprintf(w, "page %d of %d (%d total)\n", pageIndex+1, pageCount, count)
}

// JobApplication prints every field of a job application
func JobApplication(w io.Writer, r jobapp.Record, l table.Labeler) {
	fmt.Fprintf(w, "id: %s\n", r.ID)
	for _, c := range table.Columns {
		v := table.DisplayValue(r, c.ID, l)
		if v == "" {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", strings.ToLower(c.Header), v)
	}
}

// Stats prints the aggregate counts, one line per status
func Stats(w io.Writer, s stats.Stats, l table.Labeler) {
	fmt.Fprintf(w, "total: %d\n", s.Total)
	fmt.Fprintf(w, "in progress: %d\n", s.InProgress)
	for _, st := range jobapp.Statuses {
		fmt.Fprintf(w, "%s: %d\n", strings.ToLower(l.StatusLabel(st)), s.ByStatus[st])
	}
}
