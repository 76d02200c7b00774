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
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/jobtrail/jobtrail/pkg/server/app"
	"github.com/jobtrail/jobtrail/pkg/server/context"
	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	mw "github.com/jobtrail/jobtrail/pkg/server/middleware"
	"github.com/jobtrail/jobtrail/pkg/server/presenters"
	pkgErrors "github.com/pkg/errors"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{
		app: app,
	}
}

// Users is a user controller.
type Users struct {
	app *app.App
}

// RegistrationForm is the payload for registering
type RegistrationForm struct {
	Email                string `schema:"email" json:"email"`
	Password             string `schema:"password" json:"password"`
	PasswordConfirmation string `schema:"password_confirmation" json:"passwordConfirmation"`
}

// LoginForm is the payload for signing in
type LoginForm struct {
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

type sessionResponse struct {
	Key            string          `json:"key"`
	ExpiresAt      time.Time       `json:"expiresAt"`
	User           presenters.User `json:"user"`
	TranslationKey string          `json:"translationKey"`
}

func respondWithSession(w http.ResponseWriter, statusCode int, session *database.Session, user database.User, translationKey string) {
	setSessionCookie(w, session.Key, session.ExpiresAt)

	respondJSON(w, statusCode, sessionResponse{
		Key:            session.Key,
		ExpiresAt:      session.ExpiresAt.UTC(),
		User:           presenters.PresentUser(user),
		TranslationKey: translationKey,
	})
}

// Register creates an account and signs it in
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(form.Email, form.Password, form.PasswordConfirmation)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	session, err := u.app.SignIn(&user)
	if err != nil {
		handleJSONError(w, err, "signing in a user")
		return
	}

	if err := u.app.SendWelcomeEmail(user.Email.String); err != nil {
		log.ErrorWrap(err, "sending welcome email")
	}

	respondWithSession(w, http.StatusCreated, session, user, "auth.register.success")
}

func (u *Users) login(form LoginForm) (*database.Session, *database.User, error) {
	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		// an unknown email reads the same as a wrong password
		if err == app.ErrNotFound {
			return nil, nil, app.ErrLoginInvalid
		}

		return nil, nil, err
	}

	s, err := u.app.SignIn(user)
	if err != nil {
		return nil, nil, err
	}

	return s, user, nil
}

// SignIn handles sign in
func (u *Users) SignIn(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	session, user, err := u.login(form)
	if err != nil {
		handleJSONError(w, err, "logging in user")
		return
	}

	respondWithSession(w, http.StatusOK, session, *user, "auth.signin.success")
}

// SignOut deletes the session the request carries, if any
func (u *Users) SignOut(w http.ResponseWriter, r *http.Request) {
	key, err := mw.GetCredential(r)
	if err != nil {
		handleJSONError(w, badRequestError{msg: "malformed credential"}, "getting credential")
		return
	}

	if key != "" {
		if err := u.app.DeleteSession(key); err != nil {
			handleJSONError(w, err, "deleting session")
			return
		}
	}

	unsetSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type forgotPasswordPayload struct {
	Email string `schema:"email" json:"email"`
}

// ForgotPassword issues a reset code and mails it to the account
func (u *Users) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload forgotPasswordPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if payload.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "validating payload")
		return
	}

	if err := u.app.RequestResetCode(payload.Email); err != nil {
		handleJSONError(w, err, "requesting reset code")
		return
	}

	respondJSON(w, http.StatusOK, message{TranslationKey: "auth.forgotPassword.success"})
}

type verifyResetCodePayload struct {
	Email string `schema:"email" json:"email"`
	Code  string `schema:"code" json:"code"`
}

type verifyResetCodeResponse struct {
	Token          string `json:"token"`
	TranslationKey string `json:"translationKey"`
}

// VerifyResetCode exchanges a valid reset code for a scoped token
func (u *Users) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var payload verifyResetCodePayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if payload.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "validating payload")
		return
	}

	tok, err := u.app.VerifyResetCode(payload.Email, payload.Code)
	if err != nil {
		handleJSONError(w, err, "verifying reset code")
		return
	}

	respondJSON(w, http.StatusOK, verifyResetCodeResponse{
		Token:          tok,
		TranslationKey: "auth.verifyResetCode.success",
	})
}

type resetPasswordPayload struct {
	NewPassword        string `schema:"new_password" json:"newPassword"`
	NewPasswordConfirm string `schema:"new_password_confirm" json:"newPasswordConfirm"`
}

// ResetPassword sets a new password for the account the bearer token was
// issued to
func (u *Users) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if err := u.app.ResetPassword(bearerToken(r), payload.NewPassword, payload.NewPasswordConfirm); err != nil {
		handleJSONError(w, err, "resetting password")
		return
	}

	respondJSON(w, http.StatusOK, message{TranslationKey: "auth.resetPassword.success"})
}

type userResponse struct {
	User           presenters.User `json:"user"`
	TranslationKey string          `json:"translationKey"`
}

// Me responds with the signed in user
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	respondJSON(w, http.StatusOK, userResponse{
		User:           presenters.PresentUser(*user),
		TranslationKey: "users.me.success",
	})
}

type updateProfilePayload struct {
	Name string `schema:"name" json:"name"`
}

// UpdateMe updates the profile of the signed in user
func (u *Users) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var payload updateProfilePayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	updated, err := u.app.UpdateProfile(*user, payload.Name)
	if err != nil {
		handleJSONError(w, err, "updating profile")
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		User:           presenters.PresentUser(updated),
		TranslationKey: "users.update.success",
	})
}

type updatePasswordPayload struct {
	OldPassword        string `schema:"old_password" json:"oldPassword"`
	NewPassword        string `schema:"new_password" json:"newPassword"`
	NewPasswordConfirm string `schema:"new_password_confirm" json:"newPasswordConfirm"`
}

// UpdatePassword changes the password of the signed in user. Every session,
// including the current one, is signed out.
func (u *Users) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var payload updatePasswordPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	err := u.app.UpdatePassword(*user, payload.OldPassword, payload.NewPassword, payload.NewPasswordConfirm)
	if err != nil {
		if err == app.ErrLoginInvalid {
			log.WithFields(log.Fields{
				"user_id": user.ID,
			}).Warn("invalid password update attempt")
		}

		handleJSONError(w, err, "updating password")
		return
	}

	unsetSessionCookie(w)
	respondJSON(w, http.StatusOK, message{TranslationKey: "users.password.success"})
}

// avatarFormField is the multipart field carrying the image
const avatarFormField = "avatar"

// UploadAvatar stores the uploaded image as the avatar of the signed in user.
// The type is sniffed from the content rather than trusted from the client.
func (u *Users) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, app.MaxAvatarSize+(1<<10))
	if err := r.ParseMultipartForm(app.MaxAvatarSize); err != nil {
		handleJSONError(w, badRequestError{msg: "avatar must be a multipart upload of at most 2 MB"}, "parsing multipart form")
		return
	}

	f, _, err := r.FormFile(avatarFormField)
	if err != nil {
		handleJSONError(w, badRequestError{msg: "missing avatar file"}, "reading avatar file")
		return
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		handleJSONError(w, pkgErrors.Wrap(err, "reading avatar"), "sniffing avatar type")
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	updated, err := u.app.SetAvatar(*user, contentType, io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		handleJSONError(w, err, "setting avatar")
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		User:           presenters.PresentUser(updated),
		TranslationKey: "users.avatar.success",
	})
}
