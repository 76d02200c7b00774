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
	"sort"
	"strings"
)

// appError is an error that is safe to be shown to the client
type appError string

func (e appError) Error() string {
	return string(e)
}

func (e appError) Public() string {
	return string(e)
}

var (
	// ErrNotFound an error that indicates that the given resource is not found
	ErrNotFound appError = "not found"
	// ErrLoginInvalid is an error for invalid login
	ErrLoginInvalid appError = "Wrong email and password combination"
	// ErrDuplicateEmail is an error for duplicate email
	ErrDuplicateEmail appError = "duplicate email"
	// ErrEmailRequired is an error for missing email
	ErrEmailRequired appError = "Please enter an email"
	// ErrPasswordRequired is an error for missing password
	ErrPasswordRequired appError = "Please enter a password"
	// ErrPasswordTooShort is an error for short password
	ErrPasswordTooShort appError = "password should be longer than 8 characters"
	// ErrPasswordConfirmationMismatch is an error for password and password confirmation not matching
	ErrPasswordConfirmationMismatch appError = "password confirmation does not match password"
	// ErrNameTooLong is an error for a profile name over the limit
	ErrNameTooLong appError = "name should be at most 100 characters"
	// ErrRegistrationDisabled is an error for a registration attempt while it is turned off
	ErrRegistrationDisabled appError = "registration is disabled"
	// ErrForbidden is an error for an action the user is not allowed to take
	ErrForbidden appError = "forbidden"
	// ErrInvalidSMTPConfig is an error for an unusable mail configuration
	ErrInvalidSMTPConfig appError = "SMTP is not configured"

	// ErrResetCodeNotFound is an error for verifying a code that was never requested
	ErrResetCodeNotFound appError = "no reset code was requested for this email"
	// ErrTooManyAttempts is an error for a reset code that exhausted its attempts
	ErrTooManyAttempts appError = "too many attempts"
	// ErrResetCodeUsed is an error for a reset code that was already consumed
	ErrResetCodeUsed appError = "reset code was already used"
	// ErrInvalidResetCode is an error for a reset code that does not match
	ErrInvalidResetCode appError = "invalid reset code"
	// ErrResetCodeExpired is an error for a reset code past its expiry
	ErrResetCodeExpired appError = "reset code has expired"
	// ErrTokenMissing is an error for a reset request without a token
	ErrTokenMissing appError = "missing token"
	// ErrInvalidToken is an error for a reset token that does not verify
	ErrInvalidToken appError = "invalid token"
	// ErrSamePassword is an error for a new password equal to the current one
	ErrSamePassword appError = "new password must be different from the current password"

	// ErrEmptyIDs is an error for a batch operation without ids
	ErrEmptyIDs appError = "at least one id is required"
	// ErrEmptyPatch is an error for a partial update that sets no field
	ErrEmptyPatch appError = "at least one field is required"
)

// ValidationError reports the fields of a payload that failed validation,
// keyed by field name with the failed rule as value
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	return "invalid fields: " + strings.Join(names, ", ")
}

// Public returns the message shown to the client
func (e *ValidationError) Public() string {
	return e.Error()
}
