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

package remove

import (
	"fmt"

	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/cli/ui"
	"github.com/jobtrail/jobtrail/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var yesFlag bool

var example = `
  * Remove a job application
  jobtrail remove 5f0c6a7e-8d8e-4c0c-9a3c-0b6f1c1d2e3f

  * Remove several at once without a confirmation
  jobtrail rm -y 5f0c6a7e-... 0a1b2c3d-...`

// ErrNoIDs is an error for a batch delete without any id
var ErrNoIDs = errors.New("no job application to remove")

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("Missing argument")
	}

	return nil
}

// NewCmd returns a new remove command
func NewCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <id>...",
		Short:   "Remove job applications",
		Aliases: []string{"rm", "d"},
		Example: example,
		PreRunE: preRun,
		RunE:    infra.RequireLogin(ctx, newRun(ctx)),
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "remove without confirmation")

	return cmd
}

// uniqueIDs returns the ids in order without blanks and repeats. An argument
// may hold several comma separated ids.
func uniqueIDs(args []string) []string {
	seen := map[string]bool{}

	var ret []string
	for _, arg := range args {
		for _, id := range utils.SplitList(arg) {
			if seen[id] {
				continue
			}
			seen[id] = true
			ret = append(ret, id)
		}
	}

	return ret
}

// Do deletes the job applications with the ids and returns how many the
// server deleted
func Do(ctx context.Ctx, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	n, err := client.DeleteJobApplications(ctx, ids)
	if err != nil {
		return 0, err
	}

	return n, nil
}

func confirmationQuestion(n int) string {
	if n == 1 {
		return "remove 1 job application?"
	}

	return fmt.Sprintf("remove %d job applications?", n)
}

func newRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		ids := uniqueIDs(args)

		if !yesFlag {
			ok, err := ui.Confirm(confirmationQuestion(len(ids)), false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		n, err := Do(ctx, ids)
		if err != nil {
			return errors.Wrap(err, "removing job applications")
		}

		if n < len(ids) {
			log.Warnf("%d of %d job applications were not found\n", len(ids)-n, len(ids))
		}
		log.Successf("removed %d\n", n)

		return nil
	}
}
