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
	"crypto/subtle"
	"errors"
	"time"

	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/jobtrail/jobtrail/pkg/server/token"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResetCodeLifetime is how long a password reset code can be verified after
// it was issued
const ResetCodeLifetime = 10 * time.Minute

// ResetRecordRetention is how long an expired reset record is kept so that
// late attempts still report an expired code rather than a missing one
const ResetRecordRetention = 24 * time.Hour

// RequestResetCode issues a new one-time code for the account with the given
// email, replacing any code issued before, and mails it to the account.
func (a *App) RequestResetCode(email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	if _, err := a.GetUserByEmail(email); err != nil {
		return err
	}

	code, err := token.NumericCode(token.ResetCodeDigits)
	if err != nil {
		return pkgErrors.Wrap(err, "generating reset code")
	}

	now := a.Clock.Now()
	record := database.PasswordReset{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(ResetCodeLifetime),
	}

	err = a.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"code":       record.Code,
			"expires_at": record.ExpiresAt,
			"attempts":   0,
			"used":       false,
			"token_id":   "",
			"updated_at": now,
		}),
	}).Create(&record).Error
	if err != nil {
		return pkgErrors.Wrap(err, "saving reset code")
	}

	if err := a.SendResetCodeEmail(email, code); err != nil {
		return pkgErrors.Wrap(err, "sending reset code")
	}

	return nil
}

func (a *App) getPasswordReset(email string) (database.PasswordReset, error) {
	var record database.PasswordReset

	err := a.DB.Where("email = ?", email).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record, ErrResetCodeNotFound
	} else if err != nil {
		return record, pkgErrors.Wrap(err, "finding reset code")
	}

	return record, nil
}

// VerifyResetCode consumes the code issued for the email and returns a token
// scoped to resetting the password of the account.
//
// The checks run in a fixed order: exhausted attempts, prior use, mismatch,
// expiry. A mismatch counts as an attempt even if the code has also expired,
// and the mismatch that uses up the last attempt reports ErrTooManyAttempts.
func (a *App) VerifyResetCode(email, code string) (string, error) {
	email = normalizeEmail(email)

	record, err := a.getPasswordReset(email)
	if err != nil {
		return "", err
	}

	if record.Attempts >= database.MaxResetAttempts {
		return "", ErrTooManyAttempts
	}
	if record.Used {
		return "", ErrResetCodeUsed
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(record.Code)) != 1 {
		// the increment is conditional on the ceiling. no affected rows
		// means a concurrent attempt reached it first
		res := a.DB.Model(&database.PasswordReset{}).
			Where("email = ? AND attempts < ?", email, database.MaxResetAttempts).
			Update("attempts", gorm.Expr("attempts + 1"))
		if res.Error != nil {
			return "", pkgErrors.Wrap(res.Error, "incrementing attempts")
		}
		if res.RowsAffected == 0 {
			return "", ErrTooManyAttempts
		}

		current, err := a.getPasswordReset(email)
		if err != nil {
			return "", err
		}
		// the attempt that reaches the ceiling exhausts the code
		if current.Attempts >= database.MaxResetAttempts {
			return "", ErrTooManyAttempts
		}

		return "", ErrInvalidResetCode
	}

	if record.ExpiresAt.Before(a.Clock.Now()) {
		return "", ErrResetCodeExpired
	}

	tokenID, err := token.GetRandomStr(16)
	if err != nil {
		return "", pkgErrors.Wrap(err, "generating token id")
	}

	res := a.DB.Model(&database.PasswordReset{}).
		Where("email = ? AND code = ? AND used = ? AND attempts < ?", email, record.Code, false, database.MaxResetAttempts).
		Updates(map[string]interface{}{
			"used":     true,
			"token_id": tokenID,
		})
	if res.Error != nil {
		return "", pkgErrors.Wrap(res.Error, "marking reset code used")
	}
	if res.RowsAffected == 0 {
		return "", a.unconsumedReason(email, record.Code)
	}

	tok, err := a.Signer.Issue(email, token.ScopePasswordReset, tokenID, token.ResetTokenLifetime)
	if err != nil {
		return "", pkgErrors.Wrap(err, "issuing reset token")
	}

	return tok, nil
}

// unconsumedReason reports why marking code used for the email affected no
// row
func (a *App) unconsumedReason(email, code string) error {
	current, err := a.getPasswordReset(email)
	if err != nil {
		return err
	}

	// a newer request replaced the code after it was read
	if current.Code != code {
		return ErrInvalidResetCode
	}
	if current.Attempts >= database.MaxResetAttempts {
		return ErrTooManyAttempts
	}

	return ErrResetCodeUsed
}

// ResetPassword sets a new password for the account the scoped token was
// issued for. Every session of the account is signed out. A token is spent by
// the first successful reset and by any newer reset code request.
func (a *App) ResetPassword(scopedToken, newPassword, confirmation string) error {
	if scopedToken == "" {
		return ErrTokenMissing
	}

	claims, err := a.Signer.Verify(scopedToken, token.ScopePasswordReset)
	if err != nil {
		log.WithFields(log.Fields{
			"reason": err.Error(),
		}).Info("rejected password reset token")

		return ErrInvalidToken
	}
	if claims.ID == "" {
		return ErrInvalidToken
	}
	email := claims.Email

	if newPassword != confirmation {
		return ErrPasswordConfirmationMismatch
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := a.GetUserByEmail(email)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(newPassword)) == nil {
		return ErrSamePassword
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&database.PasswordReset{}).
			Where("email = ? AND token_id = ?", email, claims.ID).
			Update("token_id", "")
		if res.Error != nil {
			return pkgErrors.Wrap(res.Error, "spending reset token")
		}
		if res.RowsAffected == 0 {
			log.WithFields(log.Fields{
				"email": email,
			}).Info("rejected spent password reset token")

			return ErrInvalidToken
		}

		return a.setPassword(tx, user, newPassword)
	})
	if err != nil {
		return err
	}

	if err := a.SendPasswordResetAlertEmail(email); err != nil {
		log.ErrorWrap(err, "sending password reset alert email")
	}

	return nil
}

// DeleteStaleResets removes the reset records that expired more than
// ResetRecordRetention ago and returns how many were removed
func (a *App) DeleteStaleResets() (int64, error) {
	cutoff := a.Clock.Now().Add(-ResetRecordRetention)

	res := a.DB.Where("expires_at < ?", cutoff).Delete(&database.PasswordReset{})
	if err := res.Error; err != nil {
		return 0, pkgErrors.Wrap(err, "deleting stale reset records")
	}

	return res.RowsAffected, nil
}
