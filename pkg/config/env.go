/*
 * Copyright 2025 Carver Automation Corporation.
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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped; existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("failed to load env file '%s': %w", path, err)
		}
	}

	return nil
}

// EnvLoader provides typed access to prefixed environment variables.
type EnvLoader struct {
	prefix string
	lookup func(string) (string, bool)
}

// NewEnvLoader reads from the process environment using the PERIMETER_ prefix.
func NewEnvLoader() *EnvLoader {
	return &EnvLoader{prefix: envPrefix, lookup: os.LookupEnv}
}

// NewEnvLoaderFromMap is used by tests to supply a fixed environment.
func NewEnvLoaderFromMap(vars map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix: envPrefix,
		lookup: func(key string) (string, bool) {
			v, ok := vars[key]
			return v, ok
		},
	}
}

// Lookup returns an unprefixed variable, or "" when unset.
func (e *EnvLoader) Lookup(key string) string {
	v, _ := e.lookup(key)

	return v
}

// GetString returns the prefixed variable or defaultValue when unset or empty.
func (e *EnvLoader) GetString(key, defaultValue string) string {
	if v, ok := e.lookup(e.prefix + key); ok && v != "" {
		return v
	}

	return defaultValue
}

func (e *EnvLoader) GetBool(key string, defaultValue bool) bool {
	if v := e.GetString(key, ""); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}

	return defaultValue
}

func (e *EnvLoader) GetInt(key string, defaultValue int) (int, error) {
	if v := e.GetString(key, ""); v != "" {
		return strconv.Atoi(v)
	}

	return defaultValue, nil
}

func (e *EnvLoader) GetDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := e.GetString(key, ""); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}
