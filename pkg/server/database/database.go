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

package database

import (
	"os"
	"path/filepath"

	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Session{},
		&JobApplication{},
		&PasswordReset{},
	); err != nil {
		panic(err)
	}
}

// getDBLogLevel maps the server log level to the gorm log level. SQL is only
// traced at debug.
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

// GormConfig returns the configuration every connection is opened with.
// Driver errors are translated so that unique violations surface as
// gorm.ErrDuplicatedKey regardless of the dialect.
func GormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(getDBLogLevel(logLevel)),
	}
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite, "":
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating database directory at %s", dir)
		}

		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, errors.Errorf("unsupported database driver '%s'", driver)
	}
}

// Open initializes the database connection. dsn is a file path for sqlite and
// a connection string for postgres.
func Open(driver, dsn, logLevel string) *gorm.DB {
	d, err := dialector(driver, dsn)
	if err != nil {
		panic(errors.Wrap(err, "preparing dialector"))
	}

	db, err := gorm.Open(d, GormConfig(logLevel))
	if err != nil {
		panic(errors.Wrap(err, "opening database connection"))
	}

	return db
}
