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

package edit

import (
	"os"

	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/cli/output"
	"github.com/jobtrail/jobtrail/pkg/cli/ui"
	"github.com/jobtrail/jobtrail/pkg/cli/validate"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/jobtrail/jobtrail/pkg/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	titleFlag    string
	companyFlag  string
	locationFlag string
	dateFlag     string
	categoryFlag string
	statusFlag   string
	linkFlag     string
	notesFlag    string
	editorFlag   bool
)

var example = `
  * Move a job application to the interview stage
  jobtrail edit 5f0c6a7e-8d8e-4c0c-9a3c-0b6f1c1d2e3f --status interview

  * Edit the notes in an editor
  jobtrail edit 5f0c6a7e-8d8e-4c0c-9a3c-0b6f1c1d2e3f -e
`

// ErrNothingToEdit is an error for an edit without any change
var ErrNothingToEdit = errors.New("nothing to edit. Pass a flag for the field to change")

// NewCmd returns a new edit command
func NewCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Edit a job application",
		Aliases: []string{"e"},
		Example: example,
		PreRunE: preRun,
		RunE:    infra.RequireLogin(ctx, newRun(ctx)),
	}

	f := cmd.Flags()
	f.StringVarP(&titleFlag, "title", "t", "", "a new job title")
	f.StringVarP(&companyFlag, "company", "c", "", "a new company")
	f.StringVarP(&locationFlag, "location", "l", "", "a new location")
	f.StringVarP(&dateFlag, "date", "d", "", "a new date in YYYY-MM-DD form")
	f.StringVar(&categoryFlag, "category", "", "a new category")
	f.StringVarP(&statusFlag, "status", "s", "", "a new status")
	f.StringVar(&linkFlag, "link", "", "a new link to the job posting")
	f.StringVarP(&notesFlag, "notes", "n", "", "new notes")
	f.BoolVarP(&editorFlag, "editor", "e", false, "edit the notes in an editor")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// buildPatch returns the changes for the flags that were set
func buildPatch(f *pflag.FlagSet) (client.PatchJobApplicationPayload, error) {
	var p client.PatchJobApplicationPayload

	lines := []struct {
		flag  string
		value string
		dest  **string
	}{
		{"title", titleFlag, &p.Title},
		{"company", companyFlag, &p.Company},
		{"location", locationFlag, &p.Location},
	}
	for _, l := range lines {
		if !f.Changed(l.flag) {
			continue
		}
		if err := validate.Line(l.value); err != nil {
			return p, errors.Wrap(err, l.flag)
		}
		v := l.value
		*l.dest = &v
	}

	if f.Changed("date") {
		if err := validate.Date(dateFlag); err != nil {
			return p, errors.Wrap(err, "date")
		}
		p.Date = &dateFlag
	}
	if f.Changed("category") {
		c, err := validate.Category(categoryFlag)
		if err != nil {
			return p, errors.Wrap(err, "category")
		}
		v := string(c)
		p.Category = &v
	}
	if f.Changed("status") {
		s, err := validate.Status(statusFlag)
		if err != nil {
			return p, errors.Wrap(err, "status")
		}
		v := string(s)
		p.Status = &v
	}
	if f.Changed("link") {
		p.Link = &linkFlag
	}
	if f.Changed("notes") {
		p.Notes = &notesFlag
	}

	return p, nil
}

// editNotes opens the current notes in an editor and returns the result
func editNotes(ctx context.Ctx, r jobapp.Record) (string, error) {
	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}

	if err := os.WriteFile(fpath, []byte(r.Notes), 0644); err != nil {
		return "", errors.Wrap(err, "preparing tmp content file")
	}

	c, err := ui.GetEditorInput(ctx, fpath)
	if err != nil {
		return "", errors.Wrap(err, "getting editor input")
	}

	return c, nil
}

// Do applies the patch to the job application
func Do(ctx context.Ctx, id string, p client.PatchJobApplicationPayload) (jobapp.Record, error) {
	if p == (client.PatchJobApplicationPayload{}) {
		return jobapp.Record{}, ErrNothingToEdit
	}

	return client.PatchJobApplication(ctx, id, p)
}

func newRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		id := args[0]

		p, err := buildPatch(cmd.Flags())
		if err != nil {
			return errors.Wrap(err, "invalid flag")
		}

		if editorFlag {
			r, err := client.GetJobApplication(ctx, id)
			if err != nil {
				return errors.Wrap(err, "finding job application")
			}

			notes, err := editNotes(ctx, r)
			if err != nil {
				return err
			}
			if notes != r.Notes {
				p.Notes = &notes
			}
		}

		r, err := Do(ctx, id, p)
		if err != nil {
			return errors.Wrap(err, "editing job application")
		}

		log.Successf("edited %s\n", r.ID)
		output.JobApplication(log.Output(), r, table.EnglishLabeler{})

		return nil
	}
}
