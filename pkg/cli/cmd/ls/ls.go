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
	stdcontext "context"
	"io"
	"strings"

	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/cli/output"
	"github.com/jobtrail/jobtrail/pkg/cli/ui"
	"github.com/jobtrail/jobtrail/pkg/cli/utils"
	"github.com/jobtrail/jobtrail/pkg/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * List the first page of job applications
 jobtrail ls

 * List the second page, 25 at a time
 jobtrail ls --page 2 --size 25

 * Sort the page by company, descending, and keep the rows mentioning berlin
 jobtrail ls --sort company:desc --filter berlin

 * Only show some of the columns
 jobtrail ls --columns title,company,status

 * Browse interactively
 jobtrail ls -i
 `

// pageFlag is one-based
var pageFlag = 1

var (
	sizeFlag        int
	sortFlag        string
	filterFlag      string
	columnsFlag     string
	interactiveFlag bool
)

// ErrInvalidPage is an error for a page number below one
var ErrInvalidPage = errors.New("page must be 1 or greater")

// NewCmd returns a new ls command
func NewCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l", "list"},
		Short:   "List job applications",
		Example: example,
		RunE:    infra.RequireLogin(ctx, NewRun(ctx)),
	}

	f := cmd.Flags()
	f.IntVarP(&pageFlag, "page", "p", 1, "the page to show, starting at 1")
	f.IntVarP(&sizeFlag, "size", "s", 0, "the number of job applications per page (defaults to value in config)")
	f.StringVar(&sortFlag, "sort", "", "sort the page by a column, optionally followed by :asc or :desc")
	f.StringVarP(&filterFlag, "filter", "f", "", "only show rows containing the text in any column")
	f.StringVarP(&columnsFlag, "columns", "c", "", "comma separated columns to show")
	f.BoolVarP(&interactiveFlag, "interactive", "i", false, "browse the pages interactively")

	return cmd
}

// Options describes the view of the table
type Options struct {
	// Page is one-based
	Page     int
	PageSize int
	Sort     string
	Filter   string
	Columns  string
}

// parseSort parses "column", "column:asc" or "column:desc"
func parseSort(s string) (table.Sort, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return table.Sort{}, nil
	}

	column, dir, _ := strings.Cut(s, ":")

	var desc bool
	switch strings.ToLower(dir) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return table.Sort{}, errors.Errorf("unknown sort direction '%s'", dir)
	}

	return table.Sort{Column: column, Desc: desc}, nil
}

// applyColumns hides every hideable column not listed. An empty list keeps
// every column.
func applyColumns(e *table.Engine, list string) error {
	ids := utils.SplitList(list)
	if len(ids) == 0 {
		return nil
	}

	shown := map[string]bool{}
	for _, id := range ids {
		if _, ok := table.LookupColumn(id); !ok {
			return errors.Wrapf(table.ErrUnknownColumn, "'%s'", id)
		}
		shown[id] = true
	}

	for _, c := range table.Columns {
		if !c.Hideable {
			continue
		}
		if err := e.SetColumnVisibility(c.ID, shown[c.ID]); err != nil {
			return err
		}
	}

	return nil
}

// newEngine returns an engine on the page the options select. Nothing is
// fetched yet.
func newEngine(ctx context.Ctx, o Options) (*table.Engine, error) {
	if o.Page < 1 {
		return nil, ErrInvalidPage
	}
	if o.PageSize <= 0 {
		o.PageSize = ctx.PageSize
	}
	if o.PageSize <= 0 {
		return nil, table.ErrInvalidPageSize
	}

	e := table.New(client.PageFetcher{Ctx: ctx}, table.Config{
		PageIndex: o.Page - 1,
		PageSize:  o.PageSize,
	})

	if err := configure(e, o); err != nil {
		e.Close()
		return nil, err
	}

	return e, nil
}

// configure applies the sort, the visible columns and the filter
func configure(e *table.Engine, o Options) error {
	s, err := parseSort(o.Sort)
	if err != nil {
		return errors.Wrap(err, "invalid sort")
	}
	if err := e.SetSort(s); err != nil {
		return errors.Wrap(err, "invalid sort")
	}
	if err := applyColumns(e, o.Columns); err != nil {
		return errors.Wrap(err, "invalid columns")
	}
	e.SetGlobalFilter(o.Filter)

	return nil
}

// render prints the rows of the loaded page and where the page is
func render(w io.Writer, e *table.Engine, selected map[string]bool) {
	st := e.State()

	output.Table(w, e.VisibleColumns(), e.Rows(), table.EnglishLabeler{}, selected)
	output.PageInfo(w, st.PageIndex, e.PageCount(), e.Count())
}

// Do prints one page of job applications
func Do(c stdcontext.Context, ctx context.Ctx, w io.Writer, o Options) error {
	e, err := newEngine(ctx, o)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.Reload(c); err != nil {
		return errors.Wrap(err, "loading job applications")
	}

	render(w, e, nil)

	return nil
}

// NewRun returns a new run function for ls
func NewRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		o := Options{
			Page:     pageFlag,
			PageSize: sizeFlag,
			Sort:     sortFlag,
			Filter:   filterFlag,
			Columns:  columnsFlag,
		}

		if !interactiveFlag {
			return Do(cmd.Context(), ctx, log.Output(), o)
		}

		e, err := newEngine(ctx, o)
		if err != nil {
			return err
		}
		defer e.Close()

		s := newSession(ctx, e, ui.Stdin, log.Output())
		return s.run(cmd.Context())
	}
}
