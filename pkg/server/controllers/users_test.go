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

package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/server/app"
	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/testutils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func assertResponseSessionCookie(t *testing.T, db *gorm.DB, res *http.Response) {
	var sessionCount int64
	var session database.Session
	testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting session")
	testutils.MustExec(t, db.First(&session), "getting session")

	c := testutils.GetCookieByName(res.Cookies(), "id")
	assert.Equal(t, sessionCount, int64(1), "session count mismatch")
	assert.Equal(t, c.Value, session.Key, "session key mismatch")
	assert.Equal(t, c.Path, "/", "session path mismatch")
	assert.Equal(t, c.HttpOnly, true, "session HTTPOnly mismatch")
	assert.Equal(t, c.Expires.Unix(), session.ExpiresAt.Unix(), "session Expires mismatch")
}

func newTestServer(t *testing.T) (*gorm.DB, *app.App, string) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db
	server := MustNewServer(t, &a)

	return db, &a, server.URL
}

func TestRegister(t *testing.T) {
	testutils.RunForJSONAndForm(t, "success", func(t *testing.T, target testutils.PayloadType) {
		db, a, endpoint := newTestServer(t)

		req := testutils.MakePayloadReq(t, target, endpoint, "POST", "/api/v1/auth/register", RegistrationForm{
			Email:                "alice@example.com",
			Password:             "pass1234",
			PasswordConfirmation: "pass1234",
		})
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "")

		var body sessionResponse
		testutils.DecodeJSON(t, res, &body)
		assert.Equal(t, body.User.Email, "alice@example.com", "email mismatch")
		assert.Equal(t, body.TranslationKey, "auth.register.success", "translationKey mismatch")

		var user database.User
		testutils.MustExec(t, db.Where("email = ?", "alice@example.com").First(&user), "finding user")
		passwordErr := bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte("pass1234"))
		assert.Equal(t, passwordErr, nil, "Password mismatch")

		emails := a.EmailBackend.(*testutils.MockEmailbackendImplementation).Sent()
		assert.Equalf(t, len(emails), 1, "email queue count mismatch")
		assert.DeepEqual(t, emails[0].To, []string{"alice@example.com"}, "email to mismatch")

		assertResponseSessionCookie(t, db, res)
	})

	t.Run("errors", func(t *testing.T) {
		testCases := []struct {
			name           string
			form           RegistrationForm
			expectedStatus int
			expectedKey    string
		}{
			{
				name:           "missing email",
				form:           RegistrationForm{Password: "pass1234", PasswordConfirmation: "pass1234"},
				expectedStatus: http.StatusBadRequest,
				expectedKey:    "errors.emailRequired",
			},
			{
				name:           "short password",
				form:           RegistrationForm{Email: "bob@example.com", Password: "short", PasswordConfirmation: "short"},
				expectedStatus: http.StatusBadRequest,
				expectedKey:    "errors.passwordTooShort",
			},
			{
				name:           "confirmation mismatch",
				form:           RegistrationForm{Email: "bob@example.com", Password: "pass1234", PasswordConfirmation: "pass12345"},
				expectedStatus: http.StatusBadRequest,
				expectedKey:    "errors.passwordConfirmationMismatch",
			},
			{
				name:           "duplicate email",
				form:           RegistrationForm{Email: "alice@example.com", Password: "pass1234", PasswordConfirmation: "pass1234"},
				expectedStatus: http.StatusConflict,
				expectedKey:    "errors.duplicateEmail",
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				db, _, endpoint := newTestServer(t)
				testutils.SetupUserData(db, "alice@example.com", "pass1234")

				req := testutils.MakePayloadReq(t, testutils.PayloadJSON, endpoint, "POST", "/api/v1/auth/register", tc.form)
				res := testutils.HTTPDo(t, req)

				assert.StatusCodeEquals(t, res, tc.expectedStatus, "")

				var body errorResponse
				testutils.DecodeJSON(t, res, &body)
				assert.Equal(t, body.TranslationKey, tc.expectedKey, "translationKey mismatch")

				var count int64
				testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
				assert.Equal(t, count, int64(1), "user count mismatch")
			})
		}
	})

	t.Run("registration disabled", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		a := app.NewTest()
		a.DB = db
		a.DisableRegistration = true
		server := MustNewServer(t, &a)

		req := testutils.MakePayloadReq(t, testutils.PayloadJSON, server.URL, "POST", "/api/v1/auth/register", RegistrationForm{
			Email:                "alice@example.com",
			Password:             "pass1234",
			PasswordConfirmation: "pass1234",
		})
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
	})
}

func TestSignIn(t *testing.T) {
	testutils.RunForJSONAndForm(t, "success", func(t *testing.T, target testutils.PayloadType) {
		db, _, endpoint := newTestServer(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		req := testutils.MakePayloadReq(t, target, endpoint, "POST", "/api/v1/auth/signin", LoginForm{
			Email:    "alice@example.com",
			Password: "pass1234",
		})
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var body sessionResponse
		testutils.DecodeJSON(t, res, &body)
		assert.Equal(t, body.User.UUID, user.UUID, "user mismatch")
		assert.NotEqual(t, body.Key, "", "key should be set")

		assertResponseSessionCookie(t, db, res)

		var userRecord database.User
		testutils.MustExec(t, db.First(&userRecord, user.ID), "finding user")
		assert.Equal(t, userRecord.LastLoginAt != nil, true, "last login should be set")
	})

	testCases := []struct {
		name     string
		email    string
		password string
		key      string
		status   int
	}{
		{"wrong password", "alice@example.com", "wrongpassword", "errors.loginInvalid", http.StatusUnauthorized},
		{"unknown email", "bob@example.com", "pass1234", "errors.loginInvalid", http.StatusUnauthorized},
		{"missing email", "", "pass1234", "errors.emailRequired", http.StatusBadRequest},
		{"missing password", "alice@example.com", "", "errors.passwordRequired", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, _, endpoint := newTestServer(t)
			testutils.SetupUserData(db, "alice@example.com", "pass1234")

			req := testutils.MakePayloadReq(t, testutils.PayloadJSON, endpoint, "POST", "/api/v1/auth/signin", LoginForm{
				Email:    tc.email,
				Password: tc.password,
			})
			res := testutils.HTTPDo(t, req)

			assert.StatusCodeEquals(t, res, tc.status, "")

			var body errorResponse
			testutils.DecodeJSON(t, res, &body)
			assert.Equal(t, body.TranslationKey, tc.key, "translationKey mismatch")

			var count int64
			testutils.MustExec(t, db.Model(&database.Session{}).Count(&count), "counting sessions")
			assert.Equal(t, count, int64(0), "no session should be created")
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		_, _, endpoint := newTestServer(t)

		req := testutils.MakeReq(endpoint, "POST", "/api/v1/auth/signin", "{")
		req.Header.Set("Content-Type", "application/json")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")
	})
}

func TestSignOut(t *testing.T) {
	db, _, endpoint := newTestServer(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")
	session := testutils.SetupSession(db, user)
	other := testutils.SetupSession(db, user)

	req := testutils.MakeReq(endpoint, "POST", "/api/v1/auth/signout", "")
	req.Header.Set("Authorization", "Bearer "+session.Key)
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusNoContent, "")

	var keys []string
	testutils.MustExec(t, db.Model(&database.Session{}).Pluck("key", &keys), "plucking keys")
	assert.DeepEqual(t, keys, []string{other.Key}, "only the current session should be deleted")

	c := testutils.GetCookieByName(res.Cookies(), "id")
	assert.Equal(t, c.Value, "", "cookie should be cleared")
	assert.Equal(t, c.Expires.Before(time.Now()), true, "cookie should be expired")
}

func TestMe(t *testing.T) {
	db, _, endpoint := newTestServer(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	t.Run("authenticated", func(t *testing.T) {
		req := testutils.MakeReq(endpoint, "GET", "/api/v1/users/me", "")
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var body userResponse
		testutils.DecodeJSON(t, res, &body)
		assert.Equal(t, body.User.Email, "alice@example.com", "email mismatch")
		assert.Equal(t, body.TranslationKey, "users.me.success", "translationKey mismatch")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := testutils.MakeReq(endpoint, "GET", "/api/v1/users/me", "")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "")
	})
}

func TestUpdateMe(t *testing.T) {
	testutils.RunForJSONAndForm(t, "name", func(t *testing.T, target testutils.PayloadType) {
		db, _, endpoint := newTestServer(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		req := testutils.MakePayloadReq(t, target, endpoint, "PATCH", "/api/v1/users/me", updateProfilePayload{Name: " Alice "})
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var userRecord database.User
		testutils.MustExec(t, db.First(&userRecord, user.ID), "finding user")
		assert.Equal(t, userRecord.Name, "Alice", "name mismatch")
	})

	t.Run("too long", func(t *testing.T) {
		db, _, endpoint := newTestServer(t)
		user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		req := testutils.MakePayloadReq(t, testutils.PayloadJSON, endpoint, "PATCH", "/api/v1/users/me", updateProfilePayload{Name: strings.Repeat("a", 101)})
		res := testutils.HTTPAuthDo(t, db, req, user)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")
	})
}

func TestUpdatePassword(t *testing.T) {
	testCases := []struct {
		name    string
		payload updatePasswordPayload
		status  int
		changed bool
	}{
		{
			name:    "success",
			payload: updatePasswordPayload{OldPassword: "pass1234", NewPassword: "newpass1234", NewPasswordConfirm: "newpass1234"},
			status:  http.StatusOK,
			changed: true,
		},
		{
			name:    "wrong current password",
			payload: updatePasswordPayload{OldPassword: "nope12345", NewPassword: "newpass1234", NewPasswordConfirm: "newpass1234"},
			status:  http.StatusUnauthorized,
		},
		{
			name:    "confirmation mismatch",
			payload: updatePasswordPayload{OldPassword: "pass1234", NewPassword: "newpass1234", NewPasswordConfirm: "newpass12345"},
			status:  http.StatusBadRequest,
		},
		{
			name:    "same password",
			payload: updatePasswordPayload{OldPassword: "pass1234", NewPassword: "pass1234", NewPasswordConfirm: "pass1234"},
			status:  http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, _, endpoint := newTestServer(t)
			user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

			req := testutils.MakePayloadReq(t, testutils.PayloadJSON, endpoint, "PATCH", "/api/v1/users/me/password", tc.payload)
			res := testutils.HTTPAuthDo(t, db, req, user)

			assert.StatusCodeEquals(t, res, tc.status, "")

			var userRecord database.User
			testutils.MustExec(t, db.First(&userRecord, user.ID), "finding user")
			err := bcrypt.CompareHashAndPassword([]byte(userRecord.Password.String), []byte("pass1234"))
			assert.Equal(t, err != nil, tc.changed, "password change mismatch")

			var sessionCount int64
			testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting sessions")
			if tc.changed {
				assert.Equal(t, sessionCount, int64(0), "sessions should be signed out")
			} else {
				assert.Equal(t, sessionCount, int64(1), "sessions should stay")
			}
		})
	}
}

func TestForgotPassword(t *testing.T) {
	testutils.RunForJSONAndForm(t, "known email", func(t *testing.T, target testutils.PayloadType) {
		db, a, endpoint := newTestServer(t)
		testutils.SetupUserData(db, "alice@example.com", "pass1234")

		req := testutils.MakePayloadReq(t, target, endpoint, "POST", "/api/v1/auth/forgot-password", forgotPasswordPayload{Email: "alice@example.com"})
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusOK, "")

		var reset database.PasswordReset
		testutils.MustExec(t, db.Where("email = ?", "alice@example.com").First(&reset), "finding reset")
		assert.Equal(t, len(reset.Code), 6, "code length mismatch")

		emails := a.EmailBackend.(*testutils.MockEmailbackendImplementation).Sent()
		assert.Equalf(t, len(emails), 1, "email count mismatch")
		assert.Equal(t, emails[0].Type, "reset_code", "template mismatch")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, endpoint := newTestServer(t)

		req := testutils.MakePayloadReq(t, testutils.PayloadJSON, endpoint, "POST", "/api/v1/auth/forgot-password", forgotPasswordPayload{Email: "nobody@example.com"})
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "")
	})

	t.Run("missing email", func(t *testing.T) {
		_, _, endpoint := newTestServer(t)

		req := testutils.MakeFormReq(endpoint, "POST", "/api/v1/auth/forgot-password", url.Values{})
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "")
	})
}
