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

package logout

import (
	"net/http"

	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/config"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is an error for logging out when not logged in
var ErrNotLoggedIn = errors.New("not logged in")

var example = `
  jobtrail logout`

// NewCmd returns a new logout command
func NewCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logout",
		Short:   "Logout from the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Do ends the session on the server and removes it from the config file.
// An expired session is only removed locally.
func Do(ctx context.Ctx) error {
	if ctx.SessionKey == "" {
		return ErrNotLoggedIn
	}

	if ctx.LoggedIn() {
		err := client.Signout(ctx)
		if httpErr, ok := client.AsHTTPError(err); ok && httpErr.StatusCode == http.StatusUnauthorized {
			log.Debug("session was already invalid\n")
		} else if err != nil {
			return errors.Wrap(err, "requesting logout")
		}
	}

	if err := config.SetSession(ctx, "", 0); err != nil {
		return errors.Wrap(err, "clearing session")
	}

	return nil
}

func newRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		err := Do(ctx)
		if err == ErrNotLoggedIn {
			log.Errorf("not logged in\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging out")
		}

		log.Successf("logged out\n")

		return nil
	}
}
