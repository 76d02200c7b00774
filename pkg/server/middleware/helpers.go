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

package middleware

import (
	"net/http"
	"strings"

	"github.com/jobtrail/jobtrail/pkg/server/log"
	"github.com/pkg/errors"
)

// SessionCookieName is the name of the cookie holding the session key
const SessionCookieName = "id"

func getSessionKeyFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookieName)

	if err == http.ErrNoCookie {
		return "", nil
	} else if err != nil {
		return "", errors.Wrap(err, "reading session cookie")
	}

	return c.Value, nil
}

func getSessionKeyFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.Errorf("malformed authorization header")
	}

	return strings.TrimSpace(parts[1]), nil
}

// GetCredential extracts a session key from the request, preferring the
// Authorization header over the cookie
func GetCredential(r *http.Request) (string, error) {
	key, err := getSessionKeyFromAuth(r)
	if err != nil {
		return "", errors.Wrap(err, "getting session key from Authorization header")
	}

	if key == "" {
		key, err = getSessionKeyFromCookie(r)
		if err != nil {
			return "", errors.Wrap(err, "getting session key from cookie")
		}
	}

	return key, nil
}

// RespondUnauthorized responds with unauthorized
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","translationKey":"errors.unauthorized"}`))
}

// DoError logs the error and responds with the given status code with a
// generic message
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	var message string
	if err == nil {
		message = msg
	} else {
		message = errors.Wrap(err, msg).Error()
	}

	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).Error(message)

	http.Error(w, http.StatusText(statusCode), statusCode)
}
