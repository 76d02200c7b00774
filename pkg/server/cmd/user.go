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

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jobtrail/jobtrail/pkg/prompt"
	"github.com/jobtrail/jobtrail/pkg/server/app"
	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/pkg/errors"
)

// confirm prompts for user input to confirm a choice
func confirm(r io.Reader, question string, optimistic bool) (bool, error) {
	message := prompt.FormatQuestion(question, optimistic)
	fmt.Print(message + " ")

	confirmed, err := prompt.ReadYesNo(r, optimistic)
	if err != nil {
		return false, errors.Wrap(err, "reading stdin")
	}

	return confirmed, nil
}

// mustFindUser exits when no user has the given email
func mustFindUser(a *app.App, email string) database.User {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			fmt.Printf("Error: user with email %s not found\n", email)
		} else {
			log.ErrorWrap(err, "finding user")
		}
		os.Exit(1)
	}

	return user
}

func userCreateCmd(args []string) {
	fs := setupFlagSet("create", "jobtrail-server user create")

	email := fs.String("email", "", "User email address (required)")
	password := fs.String("password", "", "User password (required)")
	driver, dbPath := dbFlags(fs)

	fs.Parse(args)

	requireString(fs, *email, "email")
	requireString(fs, *password, "password")

	a, cleanup := setupAppWithDB(fs, *driver, *dbPath)
	defer cleanup()

	user, err := a.CreateUser(*email, *password, *password)
	if err != nil {
		if errors.Is(err, app.ErrDuplicateEmail) {
			fmt.Printf("Error: %s\n", err)
		} else {
			log.ErrorWrap(err, "creating user")
		}
		os.Exit(1)
	}

	fmt.Printf("User created successfully\n")
	fmt.Printf("Email: %s\n", user.Email.String)
}

func userRemoveCmd(args []string, stdin io.Reader) {
	fs := setupFlagSet("remove", "jobtrail-server user remove")

	email := fs.String("email", "", "User email address (required)")
	driver, dbPath := dbFlags(fs)

	fs.Parse(args)

	requireString(fs, *email, "email")

	a, cleanup := setupAppWithDB(fs, *driver, *dbPath)
	defer cleanup()

	user := mustFindUser(a, *email)

	var count int64
	if err := a.DB.Model(&database.JobApplication{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		log.ErrorWrap(err, "counting job applications")
		os.Exit(1)
	}

	ok, err := confirm(stdin, fmt.Sprintf("Remove user %s and %d job applications?", *email, count), false)
	if err != nil {
		log.ErrorWrap(err, "getting confirmation")
		os.Exit(1)
	}
	if !ok {
		fmt.Println("Aborted by user")
		return
	}

	if err := a.RemoveUser(*email); err != nil {
		log.ErrorWrap(err, "removing user")
		os.Exit(1)
	}

	fmt.Printf("User removed successfully\n")
	fmt.Printf("Email: %s\n", *email)
}

func userResetPasswordCmd(args []string) {
	fs := setupFlagSet("reset-password", "jobtrail-server user reset-password")

	email := fs.String("email", "", "User email address (required)")
	password := fs.String("password", "", "New password (required)")
	driver, dbPath := dbFlags(fs)

	fs.Parse(args)

	requireString(fs, *email, "email")
	requireString(fs, *password, "password")

	a, cleanup := setupAppWithDB(fs, *driver, *dbPath)
	defer cleanup()

	user := mustFindUser(a, *email)

	if err := a.ResetUserPassword(user, *password); err != nil {
		if errors.Is(err, app.ErrPasswordTooShort) {
			fmt.Printf("Error: %s\n", err)
		} else {
			log.ErrorWrap(err, "updating password")
		}
		os.Exit(1)
	}

	fmt.Printf("Password reset successfully\n")
	fmt.Printf("Email: %s\n", *email)
}

const userUsage = `Available commands:
  create: Create a new user
  remove: Remove a user along with their job applications
  reset-password: Reset a user's password`

func userCmd(args []string) {
	if len(args) < 1 {
		fmt.Printf("Usage:\n  jobtrail-server user [command]\n\n%s\n", userUsage)
		os.Exit(1)
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "create":
		userCreateCmd(subArgs)
	case "remove":
		userRemoveCmd(subArgs, os.Stdin)
	case "reset-password":
		userResetPasswordCmd(subArgs)
	default:
		fmt.Printf("Unknown subcommand: %s\n\n%s\n", subcommand, userUsage)
		os.Exit(1)
	}
}
