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
	"encoding/base64"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jobtrail/jobtrail/pkg/assert"
	"github.com/jobtrail/jobtrail/pkg/clock"
	"github.com/pkg/errors"
)

func TestGetRandomStr(t *testing.T) {
	a, err := GetRandomStr(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GetRandomStr(32)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := base64.URLEncoding.DecodeString(a)
	if err != nil {
		t.Fatal(errors.Wrap(err, "decoding"))
	}

	assert.Equal(t, len(decoded), 32, "byte length mismatch")
	assert.NotEqual(t, a, b, "keys should differ")
}

func TestNumericCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := NumericCode(ResetCodeDigits)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equalf(t, len(code), 6, fmt.Sprintf("length of %s", code))
		if _, err := strconv.Atoi(code); err != nil {
			t.Fatalf("code %s is not numeric", code)
		}
	}

	_, err := NumericCode(0)
	assert.NotEqual(t, err, nil, "zero digits should fail")
}

func newTestSigner(t *testing.T, c clock.Clock) *Signer {
	s, err := NewSigner("test-secret", c)
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func TestNewSigner_emptySecret(t *testing.T) {
	_, err := NewSigner("", clock.NewMock())
	assert.Equal(t, err, ErrEmptySecret, "error mismatch")
}

func TestSigner(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s := newTestSigner(t, clock.NewMock())

		tok, err := s.Issue("alice@example.com", ScopePasswordReset, "tok-1", ResetTokenLifetime)
		if err != nil {
			t.Fatal(err)
		}

		claims, err := s.Verify(tok, ScopePasswordReset)
		if err != nil {
			t.Fatal(errors.Wrap(err, "verifying"))
		}
		assert.Equal(t, claims.Email, "alice@example.com", "email mismatch")
		assert.Equal(t, claims.ID, "tok-1", "id mismatch")
	})

	t.Run("expired", func(t *testing.T) {
		c := clock.NewMock()
		s := newTestSigner(t, c)

		tok, err := s.Issue("alice@example.com", ScopePasswordReset, "tok-1", ResetTokenLifetime)
		if err != nil {
			t.Fatal(err)
		}

		c.Advance(ResetTokenLifetime + time.Second)

		_, err = s.Verify(tok, ScopePasswordReset)
		assert.Equal(t, errors.Cause(err), ErrInvalid, "error mismatch")
	})

	t.Run("wrong scope", func(t *testing.T) {
		s := newTestSigner(t, clock.NewMock())

		tok, err := s.Issue("alice@example.com", "email_change", "tok-1", ResetTokenLifetime)
		if err != nil {
			t.Fatal(err)
		}

		_, err = s.Verify(tok, ScopePasswordReset)
		assert.Equal(t, errors.Cause(err), ErrInvalid, "error mismatch")
	})

	t.Run("foreign secret", func(t *testing.T) {
		c := clock.NewMock()
		other, err := NewSigner("another-secret", c)
		if err != nil {
			t.Fatal(err)
		}

		tok, err := other.Issue("alice@example.com", ScopePasswordReset, "tok-1", ResetTokenLifetime)
		if err != nil {
			t.Fatal(err)
		}

		_, err = newTestSigner(t, c).Verify(tok, ScopePasswordReset)
		assert.Equal(t, errors.Cause(err), ErrInvalid, "error mismatch")
	})

	t.Run("unsigned token", func(t *testing.T) {
		c := clock.NewMock()
		claims := ScopedClaims{
			Email: "alice@example.com",
			Scope: ScopePasswordReset,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(c.Now().Add(time.Hour)),
			},
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatal(err)
		}

		_, err = newTestSigner(t, c).Verify(tok, ScopePasswordReset)
		assert.Equal(t, errors.Cause(err), ErrInvalid, "error mismatch")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := newTestSigner(t, clock.NewMock()).Verify("not.a.token", ScopePasswordReset)
		assert.Equal(t, errors.Cause(err), ErrInvalid, "error mismatch")
	})
}
