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

package utils

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"
)

// ErrNotDir is returned when a directory is expected but a file is found
var ErrNotDir = errors.New("not a directory")

// FileExists reports whether anything exists at the path
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "getting file info")
	}

	return true, nil
}

// EnsureDir creates the directory and its parents with perm unless it
// already exists. The permission of an existing directory is left as is.
func EnsureDir(path string, perm os.FileMode) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return errors.Wrap(ErrNotDir, path)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "checking %s", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return errors.Wrapf(err, "creating directory at %s", path)
	}

	return nil
}
