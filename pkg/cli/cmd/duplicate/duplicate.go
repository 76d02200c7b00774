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

package duplicate

import (
	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/cli/output"
	"github.com/jobtrail/jobtrail/pkg/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  jobtrail duplicate 5f0c6a7e-8d8e-4c0c-9a3c-0b6f1c1d2e3f`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new duplicate command
func NewCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "duplicate <id>",
		Short:   "Copy a job application under a new id",
		Aliases: []string{"dup"},
		Example: example,
		PreRunE: preRun,
		RunE:    infra.RequireLogin(ctx, newRun(ctx)),
	}

	return cmd
}

func newRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		r, err := client.DuplicateJobApplication(ctx, args[0])
		if err != nil {
			return errors.Wrap(err, "duplicating job application")
		}

		log.Successf("duplicated into %s\n", r.ID)
		output.JobApplication(log.Output(), r, table.EnglishLabeler{})

		return nil
	}
}
