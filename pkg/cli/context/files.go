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

package context

import (
	"path/filepath"

	"github.com/jobtrail/jobtrail/pkg/cli/consts"
	"github.com/jobtrail/jobtrail/pkg/cli/utils"
	"github.com/pkg/errors"
)

// InitDirs creates the jobtrail directories if they don't already exist. The
// config directory holds the session key and is private to the user.
func InitDirs(paths Paths) error {
	if paths.Config != "" {
		configDir := filepath.Join(paths.Config, consts.DirName)
		if err := utils.EnsureDir(configDir, 0700); err != nil {
			return errors.Wrap(err, "initializing config dir")
		}
	}
	if paths.Cache != "" {
		cacheDir := filepath.Join(paths.Cache, consts.DirName)
		if err := utils.EnsureDir(cacheDir, 0755); err != nil {
			return errors.Wrap(err, "initializing cache dir")
		}
	}

	return nil
}
