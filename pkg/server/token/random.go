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

// Package token generates the secrets handed out by the server: session
// keys, one-time reset codes and scoped JWTs.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

// ResetCodeDigits is the length of a password reset code
const ResetCodeDigits = 6

// GetRandomStr generates a URL-safe string from the given number of random
// bytes
func GetRandomStr(numBytes int) (string, error) {
	b := make([]byte, numBytes)

	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// NumericCode returns a uniformly random code of the given number of decimal
// digits, left-padded with zeros
func NumericCode(digits int) (string, error) {
	if digits < 1 {
		return "", errors.Errorf("invalid number of digits %d", digits)
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", errors.Wrap(err, "generating random number")
	}

	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
