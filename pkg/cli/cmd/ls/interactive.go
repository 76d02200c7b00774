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
	"bufio"
	"bytes"
	stdcontext "context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/add"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/cli/output"
	"github.com/jobtrail/jobtrail/pkg/cli/validate"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/jobtrail/jobtrail/pkg/prompt"
	"github.com/jobtrail/jobtrail/pkg/stats"
	"github.com/jobtrail/jobtrail/pkg/table"
	"github.com/pkg/errors"
)

const helpText = `  n            next page
  p            previous page
  g <page>     go to a page
  size <n>     change the number of rows per page
  sort <col>   sort by a column, again for descending, a third time to clear
  hide <col>   hide a column
  show <col>   show a column
  /<text>      only show rows containing the text, "/" alone clears it
  x <id>...    select or deselect rows by id or id prefix
  a            select every row on the page
  c            clear the selection
  d            remove the selected rows
  new          add a job application
  f <id>       mark or unmark a row as favorite
  st <id> <s>  change the status of a row
  dup <id>     duplicate a row
  rm <id>      remove a row
  s            print counts per status
  r            reload the page
  h            print this help
  q            quit
`

var (
	errUnknownCommand  = errors.New("unknown command. Type h for help")
	errNothingSelected = errors.New("nothing is selected")
	errNoSuchRow       = errors.New("no row on this page has the id")
	errAmbiguousRow    = errors.New("more than one row on this page starts with the id")
)

// syncWriter serializes writes coming from the prompt loop and from the
// debounced filter
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.w.Write(p)
}

// session browses the table with line commands read from in
type session struct {
	ctx    context.Ctx
	engine *table.Engine
	all    *stats.Collection
	in     *bufio.Scanner
	out    *syncWriter
	delay  time.Duration
	filter *table.Debouncer
}

func newSession(ctx context.Ctx, e *table.Engine, in io.Reader, out io.Writer) *session {
	return &session{
		ctx:    ctx,
		engine: e,
		all:    stats.NewCollection(),
		in:     bufio.NewScanner(in),
		out:    &syncWriter{w: out},
		delay:  table.DefaultDebounceDelay,
	}
}

func (s *session) render() {
	var buf bytes.Buffer
	render(&buf, s.engine, s.engine.State().Selection)

	s.out.Write(buf.Bytes())
}

// start loads the page and the complete listing the counts are computed from
func (s *session) start(c stdcontext.Context) error {
	if err := s.engine.Reload(c); err != nil {
		return errors.Wrap(err, "loading job applications")
	}

	records, err := client.GetAllJobApplications(s.ctx)
	if err != nil {
		return errors.Wrap(err, "loading stats")
	}
	s.all.Load(records)

	s.filter = table.NewDebouncer(s.delay, func(value string) {
		s.engine.SetGlobalFilter(value)
		s.render()
	})
	s.render()

	return nil
}

func (s *session) run(c stdcontext.Context) error {
	defer log.SetOutput(s.out)()

	if err := s.start(c); err != nil {
		return err
	}
	defer s.filter.Stop()

	for {
		if !s.in.Scan() {
			return s.in.Err()
		}

		quit, err := s.handle(c, s.in.Text())
		if err != nil {
			log.Errorf("%s\n", err.Error())
			continue
		}
		if quit {
			return nil
		}
	}
}

// handle runs one command line and reports whether the session should end
func (s *session) handle(c stdcontext.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	if strings.HasPrefix(line, "/") {
		s.filter.Push(strings.TrimSpace(line[1:]))
		return false, nil
	}

	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "q", "quit":
		return true, nil
	case "h", "help", "?":
		s.out.Write([]byte(helpText))
		return false, nil
	case "n":
		return false, s.movePage(c, s.engine.State().PageIndex+1)
	case "p":
		return false, s.movePage(c, s.engine.State().PageIndex-1)
	case "g":
		n, err := intArg(args)
		if err != nil {
			return false, err
		}
		return false, s.movePage(c, n-1)
	case "size":
		n, err := intArg(args)
		if err != nil {
			return false, err
		}
		if err := s.engine.SetPageSize(c, n); err != nil {
			return false, err
		}
	case "sort":
		if len(args) != 1 {
			return false, errors.New("usage: sort <column>")
		}
		if err := s.engine.ToggleSort(args[0]); err != nil {
			return false, err
		}
	case "hide", "show":
		if len(args) != 1 {
			return false, errors.Errorf("usage: %s <column>", name)
		}
		if err := s.engine.SetColumnVisibility(args[0], name == "show"); err != nil {
			return false, err
		}
	case "x":
		if err := s.toggle(args); err != nil {
			return false, err
		}
	case "a":
		s.engine.SelectAllOnPage()
	case "c":
		s.engine.ResetSelection()
	case "d":
		return false, s.deleteSelected(c)
	case "new":
		return false, s.create(c)
	case "f":
		return false, s.toggleFavorite(c, args)
	case "st":
		return false, s.setStatus(c, args)
	case "dup":
		return false, s.duplicate(c, args)
	case "rm":
		return false, s.remove(c, args)
	case "s":
		var buf bytes.Buffer
		output.Stats(&buf, s.all.Stats(), table.EnglishLabeler{})
		s.out.Write(buf.Bytes())
		return false, nil
	case "r":
		if err := s.engine.Reload(c); err != nil {
			return false, err
		}
	default:
		return false, errUnknownCommand
	}

	s.render()

	return false, nil
}

func intArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected a number")
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.Errorf("'%s' is not a number", args[0])
	}

	return n, nil
}

func (s *session) movePage(c stdcontext.Context, pageIndex int) error {
	if pageIndex < 0 || (pageIndex > 0 && pageIndex >= s.engine.PageCount()) {
		return errors.Errorf("there is no page %d", pageIndex+1)
	}

	if err := s.engine.SetPage(c, pageIndex); err != nil {
		return err
	}
	s.render()

	return nil
}

// resolveID finds the row on the page whose id equals or starts with prefix
func resolveID(rows []string, prefix string) (string, error) {
	var match string
	for _, id := range rows {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", errors.Wrapf(errAmbiguousRow, "'%s'", prefix)
			}
			match = id
		}
	}

	if match == "" {
		return "", errors.Wrapf(errNoSuchRow, "'%s'", prefix)
	}

	return match, nil
}

func (s *session) toggle(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: x <id>...")
	}

	var ids []string
	for _, r := range s.engine.Rows() {
		ids = append(ids, r.ID)
	}

	for _, arg := range args {
		id, err := resolveID(ids, arg)
		if err != nil {
			return err
		}
		s.engine.ToggleRow(id)
	}

	return nil
}

// row finds the record on the page whose id equals or starts with the only
// argument
func (s *session) row(args []string) (jobapp.Record, error) {
	if len(args) != 1 {
		return jobapp.Record{}, errors.New("expected an id")
	}

	rows := s.engine.Rows()
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	id, err := resolveID(ids, args[0])
	if err != nil {
		return jobapp.Record{}, err
	}
	for _, r := range rows {
		if r.ID == id {
			return r, nil
		}
	}

	return jobapp.Record{}, errors.Wrapf(errNoSuchRow, "'%s'", args[0])
}

// ask reads one answer from the session input
func (s *session) ask(question string) (string, error) {
	log.Askf(question, false)

	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(s.in.Text()), nil
}

// confirm asks a yes or no question on the session input
func (s *session) confirm(question string) (bool, error) {
	log.Askf(prompt.FormatQuestion(question, false), false)

	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return false, err
		}
		return false, io.EOF
	}

	return prompt.Answer(s.in.Text(), false), nil
}

// apply records a mutation in the stats cache and reloads the page
func (s *session) apply(c stdcontext.Context, a stats.Action) error {
	s.all.Apply(a)

	if err := s.engine.Reload(c); err != nil {
		return errors.Wrap(err, "reloading")
	}
	s.render()

	return nil
}

func (s *session) create(c stdcontext.Context) error {
	p := add.Params{
		Category: string(jobapp.CategoryFullTime),
		Status:   string(jobapp.StatusApplied),
	}

	fields := []struct {
		question string
		dest     *string
	}{
		{"title", &p.Title},
		{"company", &p.Company},
		{"location", &p.Location},
	}
	for _, f := range fields {
		v, err := s.ask(f.question)
		if err != nil {
			return errors.Wrapf(err, "getting %s", f.question)
		}
		*f.dest = v
	}

	r, err := add.Do(s.ctx, p)
	if err != nil {
		return err
	}
	log.Successf("added %s\n", r.ID)

	return s.apply(c, stats.Create{Record: r})
}

func (s *session) patch(c stdcontext.Context, id string, p client.PatchJobApplicationPayload) error {
	r, err := client.PatchJobApplication(s.ctx, id, p)
	if err != nil {
		return err
	}

	return s.apply(c, stats.Edit{Record: r})
}

func (s *session) toggleFavorite(c stdcontext.Context, args []string) error {
	r, err := s.row(args)
	if err != nil {
		return err
	}

	fav := !r.Favorite
	return s.patch(c, r.ID, client.PatchJobApplicationPayload{Favorite: &fav})
}

func (s *session) setStatus(c stdcontext.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: st <id> <status>")
	}

	r, err := s.row(args[:1])
	if err != nil {
		return err
	}
	status, err := validate.Status(args[1])
	if err != nil {
		return err
	}

	v := string(status)
	return s.patch(c, r.ID, client.PatchJobApplicationPayload{Status: &v})
}

func (s *session) duplicate(c stdcontext.Context, args []string) error {
	r, err := s.row(args)
	if err != nil {
		return err
	}

	cp, err := client.DuplicateJobApplication(s.ctx, r.ID)
	if err != nil {
		return err
	}
	log.Successf("duplicated as %s\n", cp.ID)

	return s.apply(c, stats.Duplicate{Record: cp})
}

func (s *session) remove(c stdcontext.Context, args []string) error {
	r, err := s.row(args)
	if err != nil {
		return err
	}

	ok, err := s.confirm(fmt.Sprintf("remove '%s' at %s?", r.Title, r.Company))
	if err != nil {
		return errors.Wrap(err, "getting confirmation")
	}
	if !ok {
		log.Warnf("aborted by user\n")
		return nil
	}

	if err := client.DeleteJobApplication(s.ctx, r.ID); err != nil {
		return err
	}
	s.all.Apply(stats.Delete{ID: r.ID})
	log.Successf("removed %s\n", r.ID)

	return s.afterDelete(c)
}

func (s *session) deleteSelected(c stdcontext.Context) error {
	if !s.engine.CanDeleteSelected() {
		return errNothingSelected
	}
	ids := s.engine.Selected()

	ok, err := s.confirm(fmt.Sprintf("remove %d job applications?", len(ids)))
	if err != nil {
		return errors.Wrap(err, "getting confirmation")
	}
	if !ok {
		log.Warnf("aborted by user\n")
		return nil
	}

	n, err := client.DeleteJobApplications(s.ctx, ids)
	if err != nil {
		return errors.Wrap(err, "removing job applications")
	}
	s.all.Apply(stats.DeleteMany{IDs: ids})
	log.Successf("removed %d\n", n)

	return s.afterDelete(c)
}

// afterDelete clears the selection and goes back to the first page
func (s *session) afterDelete(c stdcontext.Context) error {
	s.engine.ResetSelection()

	var err error
	if s.engine.State().PageIndex == 0 {
		err = s.engine.Reload(c)
	} else {
		err = s.engine.ResetPagination(c)
	}
	if err != nil {
		return errors.Wrap(err, "reloading")
	}
	s.render()

	return nil
}
