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

// Package infra provides operations and definitions for the
// local infrastructure of the jobtrail CLI
package infra

import (
	"os"

	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/config"
	"github.com/jobtrail/jobtrail/pkg/cli/consts"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/cli/utils"
	"github.com/jobtrail/jobtrail/pkg/clock"
	"github.com/jobtrail/jobtrail/pkg/dirs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	// DefaultAPIEndpoint is the default API endpoint used when none is configured
	DefaultAPIEndpoint = "http://localhost:3001/api/v1"
)

// ErrNotLoggedIn is returned by commands that need a session when there is none
var ErrNotLoggedIn = errors.New("not logged in. Please run 'jobtrail login' first")

// RunEFunc is a function type of jobtrail commands
type RunEFunc func(*cobra.Command, []string) error

func newPaths() context.Paths {
	return context.Paths{
		Home:   dirs.Home,
		Config: dirs.ConfigHome,
		Data:   dirs.DataHome,
		Cache:  dirs.CacheHome,
	}
}

// Init initializes the jobtrail environment and returns a new context.
// apiEndpoint is written to a newly created config file and, if not empty,
// overrides the configured endpoint for this run.
func Init(versionTag, apiEndpoint string) (*context.Ctx, error) {
	ctx := context.Ctx{
		Paths:   newPaths(),
		Version: versionTag,
	}

	if err := initFiles(ctx, apiEndpoint); err != nil {
		return nil, errors.Wrap(err, "initializing files")
	}

	ctx, err := setupCtx(ctx, apiEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

// setupCtx enriches the base context with values from the config file
func setupCtx(ctx context.Ctx, apiEndpoint string) (context.Ctx, error) {
	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}

	pageSize := cf.PageSize
	if pageSize <= 0 {
		pageSize = consts.DefaultPageSize
	}

	endpoint := cf.APIEndpoint
	if apiEndpoint != "" {
		endpoint = apiEndpoint
	}

	ret := context.Ctx{
		Paths:            ctx.Paths,
		Version:          ctx.Version,
		APIEndpoint:      endpoint,
		SessionKey:       cf.SessionKey,
		SessionKeyExpiry: cf.SessionKeyExpiry,
		PageSize:         pageSize,
		Editor:           cf.Editor,
		Clock:            clock.New(),
		HTTPClient:       client.NewRateLimitedHTTPClient(),
	}

	return ret, nil
}

// RequireLogin wraps a command so that it fails early without a live session
func RequireLogin(ctx context.Ctx, fn RunEFunc) RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if !ctx.LoggedIn() {
			return ErrNotLoggedIn
		}

		return fn(cmd, args)
	}
}

// getEditorCommand returns the system's editor command with appropriate flags,
// if necessary, to make the command wait until editor is close to exit.
func getEditorCommand() string {
	editor := os.Getenv("EDITOR")

	var ret string

	switch editor {
	case "atom":
		ret = "atom -w"
	case "subl":
		ret = "subl -n -w"
	case "code":
		ret = "code -n -w"
	case "mate":
		ret = "mate -w"
	case "vim":
		ret = "vim"
	case "nano":
		ret = "nano"
	case "emacs":
		ret = "emacs"
	case "nvim":
		ret = "nvim"
	default:
		ret = "vi"
	}

	return ret
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.Ctx, apiEndpoint string) error {
	path := config.GetPath(ctx)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	endpoint := apiEndpoint
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}

	cf := config.Config{
		Editor:      getEditorCommand(),
		APIEndpoint: endpoint,
		PageSize:    consts.DefaultPageSize,
	}

	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initFiles creates, if necessary, the jobtrail directories and files inside
func initFiles(ctx context.Ctx, apiEndpoint string) error {
	if err := context.InitDirs(ctx.Paths); err != nil {
		return errors.Wrap(err, "creating the jobtrail dir")
	}
	if err := initConfigFile(ctx, apiEndpoint); err != nil {
		return errors.Wrap(err, "generating the config file")
	}

	return nil
}
