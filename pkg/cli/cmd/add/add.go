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

package add

import (
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
	favoriteFlag bool
	editorFlag   bool
)

var example = `
 * Add a job application, prompting for the missing fields
 jobtrail add

 * Provide every field directly
 jobtrail add -t "Backend Engineer" -c Acme -l Berlin --category full-time --status applied

 * Write the notes in an editor
 jobtrail add -t "Backend Engineer" -c Acme -l Berlin -e`

// NewCmd returns a new add command
func NewCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a new job application",
		Aliases: []string{"a", "new"},
		Example: example,
		RunE:    infra.RequireLogin(ctx, newRun(ctx)),
	}

	f := cmd.Flags()
	f.StringVarP(&titleFlag, "title", "t", "", "the job title")
	f.StringVarP(&companyFlag, "company", "c", "", "the company")
	f.StringVarP(&locationFlag, "location", "l", "", "the location")
	f.StringVarP(&dateFlag, "date", "d", "", "the date applied in YYYY-MM-DD form (defaults to today)")
	f.StringVar(&categoryFlag, "category", string(jobapp.CategoryFullTime), "the category")
	f.StringVar(&statusFlag, "status", string(jobapp.StatusApplied), "the status")
	f.StringVar(&linkFlag, "link", "", "a link to the job posting")
	f.StringVarP(&notesFlag, "notes", "n", "", "free form notes")
	f.BoolVarP(&favoriteFlag, "favorite", "f", false, "mark as favorite")
	f.BoolVarP(&editorFlag, "editor", "e", false, "write the notes in an editor")

	return cmd
}

// Params holds the user input for a new job application
type Params struct {
	Title    string
	Company  string
	Location string
	Date     string
	Category string
	Status   string
	Link     string
	Notes    string
	Favorite bool
}

// payload validates the params and converts them for the server. An empty
// date becomes today.
func (p Params) payload(ctx context.Ctx) (client.JobApplicationPayload, error) {
	lines := []struct {
		name  string
		value string
	}{
		{"title", p.Title},
		{"company", p.Company},
		{"location", p.Location},
	}
	for _, l := range lines {
		if err := validate.Line(l.value); err != nil {
			return client.JobApplicationPayload{}, errors.Wrap(err, l.name)
		}
	}

	date := p.Date
	if date == "" {
		date = ctx.Clock.Now().Format(jobapp.DateLayout)
	}
	if err := validate.Date(date); err != nil {
		return client.JobApplicationPayload{}, errors.Wrap(err, "date")
	}

	category, err := validate.Category(p.Category)
	if err != nil {
		return client.JobApplicationPayload{}, errors.Wrap(err, "category")
	}
	status, err := validate.Status(p.Status)
	if err != nil {
		return client.JobApplicationPayload{}, errors.Wrap(err, "status")
	}

	return client.JobApplicationPayload{
		Title:    p.Title,
		Company:  p.Company,
		Location: p.Location,
		Date:     date,
		Category: string(category),
		Status:   string(status),
		Link:     p.Link,
		Notes:    p.Notes,
		Favorite: p.Favorite,
	}, nil
}

// Do creates the job application
func Do(ctx context.Ctx, p Params) (jobapp.Record, error) {
	payload, err := p.payload(ctx)
	if err != nil {
		return jobapp.Record{}, errors.Wrap(err, "invalid job application")
	}

	return client.CreateJobApplication(ctx, payload)
}

// promptMissing asks for the required fields that were not given as flags
func promptMissing(p *Params) error {
	prompts := []struct {
		message string
		dest    *string
	}{
		{"title", &p.Title},
		{"company", &p.Company},
		{"location", &p.Location},
	}

	for _, pr := range prompts {
		if *pr.dest != "" {
			continue
		}
		if err := ui.PromptInput(pr.message, pr.dest); err != nil {
			return errors.Wrapf(err, "getting %s", pr.message)
		}
	}

	return nil
}

func getNotes(ctx context.Ctx) (string, error) {
	if !editorFlag {
		return notesFlag, nil
	}

	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}

	c, err := ui.GetEditorInput(ctx, fpath)
	if err != nil {
		return "", errors.Wrap(err, "Failed to get editor input")
	}

	return c, nil
}

func newRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		p := Params{
			Title:    titleFlag,
			Company:  companyFlag,
			Location: locationFlag,
			Date:     dateFlag,
			Category: categoryFlag,
			Status:   statusFlag,
			Link:     linkFlag,
			Favorite: favoriteFlag,
		}
		if err := promptMissing(&p); err != nil {
			return err
		}

		notes, err := getNotes(ctx)
		if err != nil {
			return errors.Wrap(err, "getting notes")
		}
		p.Notes = notes

		r, err := Do(ctx, p)
		if err != nil {
			return errors.Wrap(err, "adding job application")
		}

		log.Successf("added %s at %s\n", r.Title, r.Company)
		output.JobApplication(log.Output(), r, table.EnglishLabeler{})

		return nil
	}
}
