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

// Package dirs resolves the XDG base directories of the current user
package dirs

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
)

var (
	// Home is the home directory of the user
	Home string
	// ConfigHome is where user-specific configuration is written
	ConfigHome string
	// DataHome is where user-specific data files are written
	DataHome string
	// CacheHome is where user-specific non-essential data is written
	CacheHome string
)

type base struct {
	dest *string
	env  string
	// fallback is relative to Home
	fallback string
}

var bases = []base{
	{&ConfigHome, "XDG_CONFIG_HOME", ".config"},
	{&DataHome, "XDG_DATA_HOME", filepath.Join(".local", "share")},
	{&CacheHome, "XDG_CACHE_HOME", ".cache"},
}

func init() {
	Reload()
}

// Reload resolves the directories again from the environment
func Reload() {
	Home = homeDir()

	for _, b := range bases {
		*b.dest = resolve(b.env, b.fallback)
	}
}

// resolve ignores relative paths in the environment, as the XDG base
// directory specification requires
func resolve(env, fallback string) string {
	if dir := os.Getenv(env); filepath.IsAbs(dir) {
		return dir
	}

	return filepath.Join(Home, fallback)
}

func homeDir() string {
	if dir, err := os.UserHomeDir(); err == nil && dir != "" {
		return dir
	}

	usr, err := user.Current()
	if err != nil {
		panic(errors.Wrap(err, "getting home dir"))
	}

	return usr.HomeDir
}
