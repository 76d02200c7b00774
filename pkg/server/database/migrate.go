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
	"embed"

	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/gorm"
)

// MigrationTableName is the table that records applied migrations
const MigrationTableName = "migrations"

//go:embed migrations/*.sql
var migrationFiles embed.FS

func init() {
	migrate.SetTable(MigrationTableName)
}

// migrationDialect returns the sql-migrate dialect name for the dialector
// the connection was opened with
func migrationDialect(db *gorm.DB) (string, error) {
	switch name := db.Dialector.Name(); name {
	case DriverSQLite:
		return "sqlite3", nil
	case DriverPostgres:
		return "postgres", nil
	default:
		return "", errors.Errorf("no migration dialect for '%s'", name)
	}
}

// Migrate runs the embedded migrations that have not been applied yet.
// It expects the schema to have been initialized with InitSchema.
func Migrate(db *gorm.DB) error {
	src := migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}

	return migrateFrom(db, src)
}

func migrateFrom(db *gorm.DB, src migrate.MigrationSource) error {
	dialect, err := migrationDialect(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting the underlying connection")
	}

	n, err := migrate.Exec(sqlDB, dialect, src, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	if n > 0 {
		log.WithFields(log.Fields{
			"count": n,
		}).Info("applied migrations")
	}

	return nil
}
