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

// Package config reads the server configuration from flags, the environment
// and an optional .env file.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jobtrail/jobtrail/pkg/dirs"
	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/jobtrail/jobtrail/pkg/server/mailer"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// AppEnvTest represents an app environment for tests. Rate limiting is off.
	AppEnvTest string = "TEST"
	// DefaultDataDir is the default directory name for the server data
	DefaultDataDir = "jobtrail"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultAvatarDirname is the default directory name for uploaded avatars
	DefaultAvatarDirname = "avatars"
	// minJWTSecretLength is the shortest accepted signing secret in bytes
	minJWTSecretLength = 32
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDataDir, DefaultDBFilename)
	// DefaultAvatarDir is the default directory avatars are written to
	DefaultAvatarDir = filepath.Join(dirs.DataHome, DefaultDataDir, DefaultAvatarDirname)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrDBDriverInvalid is an error for an unknown database driver
	ErrDBDriverInvalid = errors.New("Invalid DB driver")
	// ErrWebURLInvalid is an error for an incomplete configuration with invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrJWTSecretTooShort is an error for a signing secret below the minimum length
	ErrJWTSecretTooShort = errors.New("JWT_SECRET must be at least 32 bytes")
	// ErrSMTPPortInvalid is an error for a non-numeric SMTP port
	ErrSMTPPortInvalid = errors.New("Invalid SMTP_PORT")
)

// LoadEnvFile loads variables from the .env file at path into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}

	log.WithFields(log.Fields{
		"path": path,
	}).Debug("loaded env file")

	return nil
}

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv              string
	WebURL              string
	DisableRegistration bool
	Port                string
	DBDriver            string
	// DBPath is the file path for sqlite and the connection string for postgres
	DBPath    string
	JWTSecret string
	LogLevel  string
	AvatarDir string
	SMTP      mailer.SMTPParams
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv              string
	Port                string
	WebURL              string
	DBDriver            string
	DBPath              string
	JWTSecret           string
	DisableRegistration bool
	LogLevel            string
	AvatarDir           string
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	driver := getOrEnv(p.DBDriver, "DB_DRIVER", database.DriverSQLite)

	dbPath := getOrEnv(p.DBPath, "DBPath", DefaultDBPath)
	if driver == database.DriverPostgres {
		dbPath = getOrEnv(p.DBPath, "DATABASE_URL", "")
	}

	smtpPort := 0
	if s := os.Getenv("SMTP_PORT"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Config{}, errors.Wrapf(ErrSMTPPortInvalid, "'%s'", s)
		}
		smtpPort = n
	}

	c := Config{
		AppEnv:              getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:                getOrEnv(p.Port, "PORT", "3001"),
		WebURL:              getOrEnv(p.WebURL, "WebURL", "http://localhost:3001"),
		DBDriver:            driver,
		DBPath:              dbPath,
		JWTSecret:           getOrEnv(p.JWTSecret, "JWT_SECRET", ""),
		DisableRegistration: p.DisableRegistration || readBoolEnv("DisableRegistration"),
		LogLevel:            getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
		AvatarDir:           getOrEnv(p.AvatarDir, "AVATAR_DIR", DefaultAvatarDir),
		SMTP: mailer.SMTPParams{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     smtpPort,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}

	if c.DBDriver != database.DriverSQLite && c.DBDriver != database.DriverPostgres {
		return errors.Wrapf(ErrDBDriverInvalid, "'%s'", c.DBDriver)
	}
	if c.DBPath == "" {
		return ErrDBMissingPath
	}

	if len(c.JWTSecret) < minJWTSecretLength {
		return ErrJWTSecretTooShort
	}

	return nil
}
