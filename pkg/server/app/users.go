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

package app

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/helpers"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/mattn/go-sqlite3"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8
	maxNameLength     = 100
)

// isUniqueViolation reports whether err was caused by a unique constraint
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password, confirmation string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirmation {
		return ErrPasswordConfirmationMismatch
	}

	return nil
}

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser creates a user
func (a *App) CreateUser(email, password string, passwordConfirmation string) (database.User, error) {
	if a.DisableRegistration {
		return database.User{}, ErrRegistrationDisabled
	}

	email = normalizeEmail(email)
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if err := validatePassword(password, passwordConfirmation); err != nil {
		return database.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	uuid, err := helpers.NewUUID()
	if err != nil {
		return database.User{}, err
	}

	user := database.User{
		UUID:     uuid,
		Email:    database.ToNullString(email),
		Password: database.ToNullString(string(hashedPassword)),
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return pkgErrors.Wrap(err, "counting user")
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateEmail
			}

			return pkgErrors.Wrap(err, "saving user")
		}

		return a.TouchLastLoginAt(user, tx)
	})
	if err != nil {
		return database.User{}, err
	}

	return user, nil
}

// GetUserByEmail finds the user with the given email
func (a *App) GetUserByEmail(email string) (database.User, error) {
	var user database.User

	err := a.DB.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrNotFound
	} else if err != nil {
		return user, pkgErrors.Wrap(err, "finding user")
	}

	return user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := a.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(password))
	if err != nil {
		return nil, ErrLoginInvalid
	}

	return &user, nil
}

// SignIn signs in a user
func (a *App) SignIn(user *database.User) (*database.Session, error) {
	err := a.TouchLastLoginAt(*user, a.DB)
	if err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session, err := a.CreateSession(user.ID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "creating session")
	}

	return &session, nil
}

// UpdateProfile sets the display name of the user
func (a *App) UpdateProfile(user database.User, name string) (database.User, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxNameLength {
		return user, ErrNameTooLong
	}

	if err := a.DB.Model(&user).Update("name", name).Error; err != nil {
		return user, pkgErrors.Wrap(err, "updating name")
	}
	user.Name = name

	return user, nil
}

// setPassword replaces the password hash of the user and signs out every session
func (a *App) setPassword(tx *gorm.DB, user database.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkgErrors.Wrap(err, "hashing password")
	}

	if err := tx.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		return pkgErrors.Wrap(err, "updating password")
	}

	if err := a.DeleteUserSessions(tx, user.ID); err != nil {
		return pkgErrors.Wrap(err, "deleting user sessions")
	}

	return nil
}

// UpdatePassword changes the password of a signed in user after checking
// the current one
func (a *App) UpdatePassword(user database.User, oldPassword, newPassword, confirmation string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrPasswordRequired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(oldPassword)); err != nil {
		return ErrLoginInvalid
	}
	if err := validatePassword(newPassword, confirmation); err != nil {
		return err
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		return a.setPassword(tx, user, newPassword)
	})
}

// ResetUserPassword replaces the password of the user without checking the
// current one. It is meant for operators.
func (a *App) ResetUserPassword(user database.User, password string) error {
	if err := validatePassword(password, password); err != nil {
		return err
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		return a.setPassword(tx, user, password)
	})
}

// RemoveUser deletes the user with the given email along with the sessions,
// job applications and reset records of the user
func (a *App) RemoveUser(email string) error {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return err
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		if err := a.DeleteUserSessions(tx, user.ID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&database.JobApplication{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting job applications")
		}
		if err := tx.Where("email = ?", user.Email.String).Delete(&database.PasswordReset{}).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting password resets")
		}
		if err := tx.Delete(&user).Error; err != nil {
			return pkgErrors.Wrap(err, "deleting user")
		}

		return nil
	})
}
