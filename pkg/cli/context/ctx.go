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

// Package context defines the jobtrail CLI context
package context

import (
	"net/http"
	"time"

	"github.com/jobtrail/jobtrail/pkg/clock"
)

// Paths contain directory definitions
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

// Ctx holds the information of the current runtime. The session it carries is
// the only authentication state of the CLI and is passed explicitly to every
// command.
type Ctx struct {
	Paths            Paths
	APIEndpoint      string
	Version          string
	SessionKey       string
	SessionKeyExpiry int64
	PageSize         int
	Editor           string
	Clock            clock.Clock
	HTTPClient       *http.Client
}

// LoggedIn reports whether the context holds a session that has not expired
func (c Ctx) LoggedIn() bool {
	if c.SessionKey == "" {
		return false
	}

	return c.Clock.Now().Before(time.Unix(c.SessionKeyExpiry, 0))
}

// Redact replaces private information from the context with a set of
// placeholder values.
func Redact(ctx Ctx) Ctx {
	var sessionKey string
	if ctx.SessionKey != "" {
		sessionKey = "1"
	} else {
		sessionKey = "0"
	}
	ctx.SessionKey = sessionKey

	return ctx
}
