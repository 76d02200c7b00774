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
	"io"

	"github.com/jobtrail/jobtrail/pkg/clock"
	"github.com/jobtrail/jobtrail/pkg/server/testutils"
	"github.com/jobtrail/jobtrail/pkg/server/token"
)

// TestSigningSecret is the secret of the token signer used in tests
const TestSigningSecret = "test-signing-secret"

// MemoryAvatarStore is an AvatarStore that keeps the images in memory
type MemoryAvatarStore struct {
	Files map[string][]byte
}

// Save implements AvatarStore
func (s *MemoryAvatarStore) Save(name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	if s.Files == nil {
		s.Files = map[string][]byte{}
	}
	s.Files[name] = b

	return "/avatars/" + name, nil
}

// NewTest returns an app for a testing environment
func NewTest() App {
	c := clock.NewMock()

	signer, err := token.NewSigner(TestSigningSecret, c)
	if err != nil {
		panic(err)
	}

	return App{
		Clock:               c,
		EmailBackend:        &testutils.MockEmailbackendImplementation{},
		Signer:              signer,
		Avatars:             &MemoryAvatarStore{},
		AppEnv:              "TEST",
		WebURL:              "http://127.0.0.1",
		Port:                "3000",
		DisableRegistration: false,
	}
}
