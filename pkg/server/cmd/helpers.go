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
	"flag"
	"fmt"
	"os"

	"github.com/jobtrail/jobtrail/pkg/clock"
	"github.com/jobtrail/jobtrail/pkg/server/app"
	"github.com/jobtrail/jobtrail/pkg/server/config"
	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/jobtrail/jobtrail/pkg/server/mailer"
	"github.com/jobtrail/jobtrail/pkg/server/token"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// avatarBaseURL is the path uploaded avatars are served under
const avatarBaseURL = "/avatars"

func initDB(driver, dsn, logLevel string) (*gorm.DB, error) {
	db := database.Open(driver, dsn, logLevel)
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}

func getEmailBackend(p mailer.SMTPParams) mailer.Backend {
	b, err := mailer.NewSMTPBackend(p)
	if err != nil {
		log.Warn("SMTP is not configured. Emails will be written to the log")
		return mailer.NewLogBackend()
	}

	return b
}

func initApp(cfg config.Config) (app.App, error) {
	db, err := initDB(cfg.DBDriver, cfg.DBPath, cfg.LogLevel)
	if err != nil {
		return app.App{}, errors.Wrap(err, "initializing database")
	}

	c := clock.New()
	signer, err := token.NewSigner(cfg.JWTSecret, c)
	if err != nil {
		return app.App{}, errors.Wrap(err, "initializing token signer")
	}

	return app.App{
		DB:                  db,
		Clock:               c,
		EmailBackend:        getEmailBackend(cfg.SMTP),
		Signer:              signer,
		Avatars:             app.DirStore{Dir: cfg.AvatarDir, BaseURL: avatarBaseURL},
		AppEnv:              cfg.AppEnv,
		WebURL:              cfg.WebURL,
		Port:                cfg.Port,
		DisableRegistration: cfg.DisableRegistration,
	}, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// printFlags prints flags with -- prefix for consistency with CLI
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  --%s", f.Name)

		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Printf(" %s", name)
		}
		fmt.Println()

		if usage != "" {
			fmt.Printf("    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Printf(" (default: %s)", f.DefValue)
			}
			fmt.Println()
		}
	})
}

// setupFlagSet creates a FlagSet with standard usage format
func setupFlagSet(name, usageCmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Printf(`Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}

// dbFlags registers the flags selecting the database on fs
func dbFlags(fs *flag.FlagSet) (driver, dbPath *string) {
	driver = fs.String("dbDriver", "", "Database driver: sqlite or postgres (env: DB_DRIVER, default: sqlite)")
	dbPath = fs.String("dbPath", "", "SQLite file path or Postgres connection string (env: DBPath or DATABASE_URL, default: $XDG_DATA_HOME/jobtrail/server.db)")

	return driver, dbPath
}

// requireString validates that a required string flag is not empty
func requireString(fs *flag.FlagSet, value, fieldName string) {
	if value == "" {
		fmt.Printf("Error: %s is required\n", fieldName)
		fs.Usage()
		os.Exit(1)
	}
}

// setupAppWithDB creates config, initializes app, and returns cleanup function
func setupAppWithDB(fs *flag.FlagSet, driver, dbPath string) (*app.App, func()) {
	cfg, err := config.New(config.Params{
		DBDriver: driver,
		DBPath:   dbPath,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	a, err := initApp(cfg)
	if err != nil {
		log.ErrorWrap(err, "initializing app")
		os.Exit(1)
	}

	return &a, func() { closeDB(a.DB) }
}
