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

// Package config reads and writes the YAML configuration of the CLI
package config

import (
	"os"
	"path/filepath"

	"github.com/jobtrail/jobtrail/pkg/cli/consts"
	"github.com/jobtrail/jobtrail/pkg/cli/context"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds jobtrail configuration
type Config struct {
	Editor      string `yaml:"editor"`
	APIEndpoint string `yaml:"apiEndpoint"`
	PageSize    int    `yaml:"pageSize"`
	// SessionKey and SessionKeyExpiry are written by login and cleared by logout
	SessionKey       string `yaml:"sessionKey,omitempty"`
	SessionKeyExpiry int64  `yaml:"sessionKeyExpiry,omitempty"`
}

// GetPath returns the path to the config file
func GetPath(ctx context.Ctx) string {
	return filepath.Join(ctx.Paths.Config, consts.DirName, consts.ConfigFilename)
}

// Read reads the config file
func Read(ctx context.Ctx) (Config, error) {
	var ret Config

	b, err := os.ReadFile(GetPath(ctx))
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	if err := yaml.Unmarshal(b, &ret); err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	return ret, nil
}

// Write writes the config to the config file. The file holds the session
// key, so it is readable only by the owner.
func Write(ctx context.Ctx, cf Config) error {
	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	if err := os.WriteFile(GetPath(ctx), b, 0600); err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}

// SetSession stores the session in the config file. An empty key clears it.
func SetSession(ctx context.Ctx, key string, expiry int64) error {
	cf, err := Read(ctx)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	cf.SessionKey = key
	cf.SessionKeyExpiry = expiry
	if key == "" {
		cf.SessionKeyExpiry = 0
	}

	return Write(ctx, cf)
}
