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

package view

import (
	"fmt"

	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/cli/output"
	"github.com/jobtrail/jobtrail/pkg/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jobtrail/jobtrail/pkg/cli/cmd/ls"
)

var example = `
 * List job applications
 jobtrail view

 * View a particular job application
 jobtrail view 5f0c6a7e-8d8e-4c0c-9a3c-0b6f1c1d2e3f
 `

var notesOnly bool

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new view command
func NewCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view <id?>",
		Aliases: []string{"v", "cat"},
		Short:   "List job applications or view one",
		Example: example,
		RunE:    infra.RequireLogin(ctx, newRun(ctx)),
		PreRunE: preRun,
	}

	f := cmd.Flags()
	f.BoolVarP(&notesOnly, "notes-only", "", false, "print the notes only")

	return cmd
}

func newRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			if notesOnly {
				return errors.New("--notes-only flag is only valid when viewing a job application")
			}

			return ls.NewRun(ctx)(cmd, args)
		}

		r, err := client.GetJobApplication(ctx, args[0])
		if httpErr, ok := client.AsHTTPError(err); ok && httpErr.IsNotFound() {
			return errors.Errorf("job application %s not found", args[0])
		} else if err != nil {
			return errors.Wrap(err, "getting job application")
		}

		if notesOnly {
			fmt.Fprintln(log.Output(), r.Notes)
			return nil
		}

		output.JobApplication(log.Output(), r, table.EnglishLabeler{})

		return nil
	}
}
