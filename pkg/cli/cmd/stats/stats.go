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

package stats

import (
	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/cli/output"
	"github.com/jobtrail/jobtrail/pkg/stats"
	"github.com/jobtrail/jobtrail/pkg/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var localFlag bool

var example = `
  * Print counts per status
  jobtrail stats

  * Compute the counts from the full listing instead
  jobtrail stats --local`

// NewCmd returns a new stats command
func NewCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Short:   "Print counts of job applications per status",
		Example: example,
		RunE:    infra.RequireLogin(ctx, newRun(ctx)),
	}

	f := cmd.Flags()
	f.BoolVar(&localFlag, "local", false, "compute the counts from every job application instead of asking the server")

	return cmd
}

// Do returns the aggregate counts. local computes them from the complete
// listing rather than the server's aggregate.
func Do(ctx context.Ctx, local bool) (stats.Stats, error) {
	if !local {
		return client.GetStats(ctx)
	}

	records, err := client.GetAllJobApplications(ctx)
	if err != nil {
		return stats.Stats{}, err
	}

	c := stats.NewCollection()
	c.Load(records)

	return c.Stats(), nil
}

func newRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		s, err := Do(ctx, localFlag)
		if err != nil {
			return errors.Wrap(err, "getting stats")
		}

		output.Stats(log.Output(), s, table.EnglishLabeler{})

		return nil
	}
}
