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

package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jobtrail/jobtrail/pkg/clock"
	"github.com/pkg/errors"
)

const (
	// ScopePasswordReset grants setting a new password for the email claim
	ScopePasswordReset = "password_reset"

	// ResetTokenLifetime is how long a password reset token stays valid
	ResetTokenLifetime = 15 * time.Minute
)

var (
	// ErrInvalid is returned when a token fails verification
	ErrInvalid = errors.New("invalid token")
	// ErrEmptySecret is returned when no signing secret was configured
	ErrEmptySecret = errors.New("no signing secret was provided")
)

// ScopedClaims are the claims of a scoped token
type ScopedClaims struct {
	Email string `json:"email"`
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Signer issues and verifies scoped tokens with a shared HMAC secret
type Signer struct {
	secret []byte
	clock  clock.Clock
}

// NewSigner returns a signer for the given secret. The clock is used for both
// issuing and checking expiry.
func NewSigner(secret string, c clock.Clock) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &Signer{secret: []byte(secret), clock: c}, nil
}

// Issue signs a token binding the scope to the email for the lifetime. id
// becomes the jti claim, which the consumer can record to allow a single use.
func (s *Signer) Issue(email, scope, id string, lifetime time.Duration) (string, error) {
	now := s.clock.Now()

	claims := ScopedClaims{
		Email: email,
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}

	return signed, nil
}

// Verify checks the signature, expiry and scope of the token and returns its
// claims
func (s *Signer) Verify(raw, scope string) (ScopedClaims, error) {
	var claims ScopedClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return ScopedClaims{}, errors.Wrap(ErrInvalid, err.Error())
	}

	if claims.Scope != scope || claims.Email == "" {
		return ScopedClaims{}, ErrInvalid
	}

	return claims, nil
}
