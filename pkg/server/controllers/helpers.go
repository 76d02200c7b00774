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
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/jobtrail/jobtrail/pkg/server/app"
	"github.com/jobtrail/jobtrail/pkg/server/helpers"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	mw "github.com/jobtrail/jobtrail/pkg/server/middleware"
	"github.com/pkg/errors"
)

// badRequestError is a malformed request that never reached the app layer
type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string {
	return e.msg
}

type errorStatus struct {
	code           int
	translationKey string
}

var errorStatuses = map[error]errorStatus{
	app.ErrNotFound:                     {http.StatusNotFound, "errors.notFound"},
	app.ErrLoginInvalid:                 {http.StatusUnauthorized, "errors.loginInvalid"},
	app.ErrDuplicateEmail:               {http.StatusConflict, "errors.duplicateEmail"},
	app.ErrEmailRequired:                {http.StatusBadRequest, "errors.emailRequired"},
	app.ErrPasswordRequired:             {http.StatusBadRequest, "errors.passwordRequired"},
	app.ErrPasswordTooShort:             {http.StatusBadRequest, "errors.passwordTooShort"},
	app.ErrPasswordConfirmationMismatch: {http.StatusBadRequest, "errors.passwordConfirmationMismatch"},
	app.ErrNameTooLong:                  {http.StatusBadRequest, "errors.nameTooLong"},
	app.ErrRegistrationDisabled:         {http.StatusForbidden, "errors.registrationDisabled"},
	app.ErrForbidden:                    {http.StatusForbidden, "errors.forbidden"},
	app.ErrInvalidSMTPConfig:            {http.StatusInternalServerError, "errors.smtpNotConfigured"},
	app.ErrResetCodeNotFound:            {http.StatusNotFound, "errors.resetCodeNotFound"},
	app.ErrTooManyAttempts:              {http.StatusTooManyRequests, "errors.tooManyAttempts"},
	app.ErrResetCodeUsed:                {http.StatusConflict, "errors.resetCodeUsed"},
	app.ErrInvalidResetCode:             {http.StatusBadRequest, "errors.invalidResetCode"},
	app.ErrResetCodeExpired:             {http.StatusGone, "errors.resetCodeExpired"},
	app.ErrTokenMissing:                 {http.StatusUnauthorized, "errors.tokenMissing"},
	app.ErrInvalidToken:                 {http.StatusUnauthorized, "errors.invalidToken"},
	app.ErrSamePassword:                 {http.StatusBadRequest, "errors.samePassword"},
	app.ErrEmptyIDs:                     {http.StatusBadRequest, "errors.emptyIds"},
	app.ErrEmptyPatch:                   {http.StatusBadRequest, "errors.emptyPatch"},
	app.ErrUnsupportedAvatarType:        {http.StatusUnsupportedMediaType, "errors.unsupportedAvatarType"},
	helpers.ErrInvalidPage:              {http.StatusBadRequest, "errors.invalidPage"},
	helpers.ErrInvalidPageSize:          {http.StatusBadRequest, "errors.invalidPageSize"},
}

type errorResponse struct {
	Error          string            `json:"error"`
	TranslationKey string            `json:"translationKey"`
	Fields         map[string]string `json:"fields,omitempty"`
}

// handleJSONError responds with the status and translation key the error
// maps to. Unknown errors are logged and reported as an opaque 500.
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	cause := errors.Cause(err)

	if verr, ok := cause.(*app.ValidationError); ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:          verr.Public(),
			TranslationKey: "errors.validation",
			Fields:         verr.Fields,
		})
		return
	}

	if berr, ok := cause.(badRequestError); ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:          berr.Error(),
			TranslationKey: "errors.badRequest",
		})
		return
	}

	if s, ok := errorStatuses[cause]; ok {
		if s.code >= http.StatusInternalServerError {
			log.ErrorWrap(err, msg)
		}

		respondJSON(w, s.code, errorResponse{
			Error:          cause.Error(),
			TranslationKey: s.translationKey,
		})
		return
	}

	log.ErrorWrap(err, msg)
	respondJSON(w, http.StatusInternalServerError, errorResponse{
		Error:          "internal server error",
		TranslationKey: "errors.internal",
	})
}

// respondJSON encodes the payload as the response body
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// message is a response carrying only a translation key
type message struct {
	TranslationKey string `json:"translationKey"`
}

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}()

// parseRequestData decodes a JSON body or, for any other content type, a
// url-encoded form into v
func parseRequestData(r *http.Request, v interface{}) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return badRequestError{msg: "malformed JSON payload"}
		}

		return nil
	}

	if err := r.ParseForm(); err != nil {
		return badRequestError{msg: "malformed form payload"}
	}
	if err := formDecoder.Decode(v, r.PostForm); err != nil {
		return badRequestError{msg: "malformed form payload"}
	}

	return nil
}

func setSessionCookie(w http.ResponseWriter, key string, expires time.Time) {
	cookie := http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    key,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &cookie)
}

func unsetSessionCookie(w http.ResponseWriter) {
	expire := time.Now().Add(time.Hour * -24 * 30)
	cookie := http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    "",
		Expires:  expire,
		Path:     "/",
		HttpOnly: true,
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.SetCookie(w, &cookie)
}

// bearerToken returns the token of an "Authorization: Bearer" header
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
