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
	"errors"
	"net/http"

	"github.com/jobtrail/jobtrail/pkg/clock"
	"github.com/jobtrail/jobtrail/pkg/server/context"
	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/jobtrail/jobtrail/pkg/server/log"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Auth is an authentication middleware. It rejects requests without a live
// session and puts the user and the session into the request context.
func Auth(db *gorm.DB, c clock.Clock, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, session, ok, err := AuthWithSession(db, c, r)
		if err != nil {
			log.WithFields(log.Fields{
				"path": r.URL.Path,
			}).ErrorWrap(err, "authenticating with session")
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), &user)
		ctx = context.WithSession(ctx, &session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthWithSession performs user authentication with session. A malformed
// credential is reported as an error along with ok set to false.
func AuthWithSession(db *gorm.DB, c clock.Clock, r *http.Request) (database.User, database.Session, bool, error) {
	var user database.User
	var session database.Session

	sessionKey, err := GetCredential(r)
	if err != nil {
		return user, session, false, pkgErrors.Wrap(err, "getting credential")
	}
	if sessionKey == "" {
		return user, session, false, nil
	}

	err = db.Where("key = ?", sessionKey).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, session, false, nil
	} else if err != nil {
		return user, session, false, pkgErrors.Wrap(err, "finding session")
	}

	if session.ExpiresAt.Before(c.Now()) {
		return user, session, false, nil
	}

	err = db.Where("id = ?", session.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, session, false, nil
	} else if err != nil {
		return user, session, false, pkgErrors.Wrap(err, "finding user from session")
	}

	return user, session, true, nil
}
