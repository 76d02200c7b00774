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

package fav

import (
	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/jobapp"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var offFlag bool

var example = `
  * Mark a job application as favorite
  jobtrail fav 5f0c6a7e-8d8e-4c0c-9a3c-0b6f1c1d2e3f

  * Unmark it
  jobtrail fav --off 5f0c6a7e-8d8e-4c0c-9a3c-0b6f1c1d2e3f`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("Missing argument")
	}

	return nil
}

// NewCmd returns a new fav command
func NewCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav <id>...",
		Short:   "Mark job applications as favorite",
		Example: example,
		PreRunE: preRun,
		RunE:    infra.RequireLogin(ctx, newRun(ctx)),
	}

	f := cmd.Flags()
	f.BoolVar(&offFlag, "off", false, "remove the favorite mark instead")

	return cmd
}

// Do sets the favorite mark of the job application
func Do(ctx context.Ctx, id string, favorite bool) (jobapp.Record, error) {
	return client.PatchJobApplication(ctx, id, client.PatchJobApplicationPayload{Favorite: &favorite})
}

func newRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		for _, id := range args {
			r, err := Do(ctx, id, !offFlag)
			if err != nil {
				return errors.Wrapf(err, "updating %s", id)
			}

			if r.Favorite {
				log.Successf("marked %s at %s as favorite\n", r.Title, r.Company)
			} else {
				log.Successf("unmarked %s at %s\n", r.Title, r.Company)
			}
		}

		return nil
	}
}
