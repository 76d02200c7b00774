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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jobtrail/jobtrail/pkg/server/database"
	"github.com/pkg/errors"
)

// MaxAvatarSize is the largest accepted avatar upload in bytes
const MaxAvatarSize = 2 << 20

// ErrUnsupportedAvatarType is an error for an avatar that is not an accepted image
var ErrUnsupportedAvatarType appError = "avatar must be a PNG, JPEG or WebP image"

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// AvatarStore persists avatar images and returns the URL they are served at
type AvatarStore interface {
	Save(name string, r io.Reader) (string, error)
}

// DirStore is an AvatarStore writing files into a directory
type DirStore struct {
	Dir     string
	BaseURL string
}

// Save writes the image under the given file name
func (s DirStore) Save(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", errors.Wrap(err, "creating avatar directory")
	}

	path := filepath.Join(s.Dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating avatar file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "writing avatar file")
	}

	return fmt.Sprintf("%s/%s", s.BaseURL, filepath.Base(name)), nil
}

// SetAvatar stores the uploaded image and records its URL on the user
func (a *App) SetAvatar(user database.User, contentType string, r io.Reader) (database.User, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return user, ErrUnsupportedAvatarType
	}

	u, err := a.Avatars.Save(user.UUID+ext, io.LimitReader(r, MaxAvatarSize))
	if err != nil {
		return user, errors.Wrap(err, "saving avatar")
	}

	if err := a.DB.Model(&user).Update("avatar_url", u).Error; err != nil {
		return user, errors.Wrap(err, "updating avatar url")
	}
	user.AvatarURL = u

	return user, nil
}
