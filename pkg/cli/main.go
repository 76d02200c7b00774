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

package main

import (
	"os"
	"strings"

	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/pkg/errors"

	// commands
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/add"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/duplicate"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/edit"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/fav"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/login"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/logout"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/ls"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/password"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/remove"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/root"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/stats"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/version"
	"github.com/jobtrail/jobtrail/pkg/cli/cmd/view"
)

// apiEndpoint and versionTag are populated during link time
var apiEndpoint string
var versionTag = "master"

// parseAPIEndpoint extracts the --apiEndpoint flag value from command line
// arguments regardless of where it appears. Returns an empty string if not
// found.
func parseAPIEndpoint(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if strings.HasPrefix(arg, "--apiEndpoint=") {
			return strings.TrimPrefix(arg, "--apiEndpoint=")
		}
		if arg == "--apiEndpoint" && i+1 < len(args) {
			return args[i+1]
		}
	}

	return ""
}

func main() {
	// The endpoint is needed before the commands are built, and root.ParseFlags
	// does not see flags placed after the subcommand.
	endpoint := parseAPIEndpoint(os.Args[1:])
	if endpoint == "" {
		endpoint = apiEndpoint
	}

	ctx, err := infra.Init(versionTag, endpoint)
	if err != nil {
		log.Errorf("%s\n", errors.Wrap(err, "initializing context").Error())
		os.Exit(1)
	}

	root.Register(add.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(view.NewCmd(*ctx))
	root.Register(edit.NewCmd(*ctx))
	root.Register(fav.NewCmd(*ctx))
	root.Register(duplicate.NewCmd(*ctx))
	root.Register(remove.NewCmd(*ctx))
	root.Register(stats.NewCmd(*ctx))
	root.Register(login.NewCmd(*ctx))
	root.Register(logout.NewCmd(*ctx))
	root.Register(password.NewForgotCmd(*ctx))
	root.Register(password.NewResetCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
