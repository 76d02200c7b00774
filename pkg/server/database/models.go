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
	"database/sql"
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NullString is a nullable string column
type NullString struct {
	sql.NullString
}

// ToNullString returns a valid NullString holding s. An empty string is
// stored as NULL.
func ToNullString(s string) NullString {
	return NullString{sql.NullString{String: s, Valid: s != ""}}
}

// User is a model for a user
type User struct {
	Model
	UUID        string     `json:"uuid" gorm:"type:text;uniqueIndex"`
	Email       NullString `gorm:"uniqueIndex"`
	Password    NullString `json:"-"`
	Name        string
	AvatarURL   string
	LastLoginAt *time.Time `json:"-"`
}

// Session represents a user session
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	Key        string `gorm:"index"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

// JobApplication is a job application owned by a single user
type JobApplication struct {
	Model
	UUID     string    `gorm:"type:text;uniqueIndex"`
	UserID   int       `gorm:"index"`
	Title    string    `gorm:"not null"`
	Company  string    `gorm:"not null"`
	Location string    `gorm:"not null"`
	Date     time.Time `gorm:"not null"`
	Category string    `gorm:"not null"`
	Status   string    `gorm:"not null;index"`
	Link     string
	Notes    string
	Favorite bool `gorm:"not null"`
}

// PasswordReset holds the one-time code issued for resetting the password of
// the account with the given email. There is at most one row per email.
type PasswordReset struct {
	Model
	Email     string `gorm:"type:text;uniqueIndex"`
	Code      string `gorm:"not null"`
	ExpiresAt time.Time
	Attempts  int  `gorm:"not null"`
	Used      bool `gorm:"not null"`
	// TokenID is the id of the unspent reset token issued for the code
	TokenID string
}
