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

// Package password implements the commands recovering a forgotten password
// with an emailed one-time code
package password

import (
	"net/http"

	"github.com/jobtrail/jobtrail/pkg/cli/client"
	"github.com/jobtrail/jobtrail/pkg/cli/config"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/jobtrail/jobtrail/pkg/cli/infra"
	"github.com/jobtrail/jobtrail/pkg/cli/log"
	"github.com/jobtrail/jobtrail/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	// ErrEmptyEmail is returned when no email was given
	ErrEmptyEmail = errors.New("email is empty")
	// ErrEmptyCode is returned when no reset code was given
	ErrEmptyCode = errors.New("reset code is empty")
	// ErrEmptyPassword is returned when no new password was given
	ErrEmptyPassword = errors.New("password is empty")
)

var forgotExample = `
  jobtrail forgot-password alice@example.com`

var resetExample = `
  # prompt for everything
  jobtrail reset-password

  # with the code from the email
  jobtrail reset-password --email alice@example.com --code 123456`

var emailFlag, codeFlag string

// NewForgotCmd returns a command requesting a reset code
func NewForgotCmd(ctx context.Ctx) *cobra.Command {
	return &cobra.Command{
		Use:     "forgot-password <email>",
		Short:   "Email a code for resetting the password",
		Example: forgotExample,
		Args:    cobra.MaximumNArgs(1),
		RunE:    newForgotRun(ctx),
	}
}

// NewResetCmd returns a command setting a new password with a reset code
func NewResetCmd(ctx context.Ctx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reset-password",
		Short:   "Set a new password using an emailed reset code",
		Example: resetExample,
		Args:    cobra.NoArgs,
		RunE:    newResetRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&emailFlag, "email", "u", "", "email address of the account")
	f.StringVar(&codeFlag, "code", "", "reset code from the email")

	return cmd
}

// Forgot requests a reset code for the account with the email
func Forgot(ctx context.Ctx, email string) error {
	if email == "" {
		return ErrEmptyEmail
	}

	return client.ForgotPassword(ctx, email)
}

// Params is the input of a password reset
type Params struct {
	Email        string
	Code         string
	Password     string
	Confirmation string
}

// Reset verifies the code and sets the new password. Every session of the
// account ends on the server, so the local one is cleared too.
func Reset(ctx context.Ctx, p Params) error {
	if p.Email == "" {
		return ErrEmptyEmail
	}
	if p.Code == "" {
		return ErrEmptyCode
	}
	if p.Password == "" {
		return ErrEmptyPassword
	}

	token, err := client.VerifyResetCode(ctx, p.Email, p.Code)
	if err != nil {
		return describe(err)
	}

	if err := client.ResetPassword(ctx, token, p.Password, p.Confirmation); err != nil {
		return describe(err)
	}

	if err := config.SetSession(ctx, "", 0); err != nil {
		return errors.Wrap(err, "clearing session")
	}

	return nil
}

// describe replaces the server errors of the reset flow with instructions
func describe(err error) error {
	he, ok := client.AsHTTPError(err)
	if !ok {
		return err
	}

	switch he.StatusCode {
	case http.StatusTooManyRequests:
		return errors.New("too many wrong codes. Request a new one with 'jobtrail forgot-password'")
	case http.StatusGone:
		return errors.New("the code has expired. Request a new one with 'jobtrail forgot-password'")
	case http.StatusConflict:
		return errors.New("the code was already used. Request a new one with 'jobtrail forgot-password'")
	default:
		return err
	}
}

func prompt(message, current string, dest *string, emptyErr error) error {
	if current != "" {
		*dest = current
		return nil
	}

	if err := ui.PromptInput(message, dest); err != nil {
		return errors.Wrapf(err, "getting %s input", message)
	}
	if *dest == "" {
		return emptyErr
	}

	return nil
}

func newForgotRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		var email string
		if len(args) == 1 {
			email = args[0]
		}
		if err := prompt("email", email, &email, ErrEmptyEmail); err != nil {
			return err
		}

		if err := Forgot(ctx, email); err != nil {
			return errors.Wrap(err, "requesting reset code")
		}

		log.Successf("a reset code was sent to %s if the account exists\n", email)
		log.Plainf("run 'jobtrail reset-password' once you have it\n")

		return nil
	}
}

func newResetRun(ctx context.Ctx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		var p Params
		if err := prompt("email", emailFlag, &p.Email, ErrEmptyEmail); err != nil {
			return err
		}
		if err := prompt("reset code", codeFlag, &p.Code, ErrEmptyCode); err != nil {
			return err
		}

		if err := ui.PromptPassword("new password", &p.Password); err != nil {
			return errors.Wrap(err, "getting password input")
		}
		if p.Password == "" {
			return ErrEmptyPassword
		}
		if err := ui.PromptPassword("confirm new password", &p.Confirmation); err != nil {
			return errors.Wrap(err, "getting password confirmation")
		}

		if err := Reset(ctx, p); err != nil {
			return errors.Wrap(err, "resetting password")
		}

		log.Successf("password was reset. Run 'jobtrail login' to sign in\n")

		return nil
	}
}
