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

// Package structured pulls a single JSON object out of free-form model
// output and checks it against the target type before handing it back.
package structured

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ExtractObject returns the span from the first '{' to the last '}'.
func ExtractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')

	if start < 0 || end <= start {
		return "", false
	}

	return text[start : end+1], true
}

// Decode extracts, decodes and validates a T from text. For struct types
// every json field without omitempty must be present, and validate tags
// must pass; partial objects are rejected.
func Decode[T any](text string) (T, error) {
	var zero T

	span, ok := ExtractObject(text)
	if !ok {
		return zero, ErrNoObject
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &keys); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	var out T
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	rt := reflect.TypeOf(out)
	if rt == nil || rt.Kind() != reflect.Struct {
		return out, nil
	}

	if missing := missingKeys(rt, keys); len(missing) > 0 {
		return zero, fmt.Errorf("%w: %s", ErrMissingKeys, strings.Join(missing, ", "))
	}

	if err := validate.Struct(out); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return out, nil
}

// Parse is Decode that falls back to def on any failure.
func Parse[T any](text string, def T) T {
	out, err := Decode[T](text)
	if err != nil {
		return def
	}

	return out
}

// RequiredKeys lists the json keys of struct type T that must be present.
func RequiredKeys[T any]() []string {
	var zero T

	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil
	}

	return missingKeys(rt, nil)
}

func missingKeys(rt reflect.Type, present map[string]json.RawMessage) []string {
	var missing []string

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}

		if strings.Contains(opts, "omitempty") {
			continue
		}

		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

// ParseList collects numbered ("1.") or bulleted ("-", "*") lines, strips
// the marker and returns at most limit non-empty entries.
func ParseList(text string, limit int) []string {
	var items []string

	for _, line := range strings.Split(text, "\n") {
		if limit > 0 && len(items) == limit {
			break
		}

		item, ok := listItem(strings.TrimSpace(line))
		if !ok || item == "" {
			continue
		}

		items = append(items, item)
	}

	return items
}

func listItem(line string) (string, bool) {
	if line == "" {
		return "", false
	}

	if line[0] == '-' || line[0] == '*' {
		return strings.TrimSpace(line[1:]), true
	}

	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}

	if digits == 0 || digits >= len(line) || line[digits] != '.' {
		return "", false
	}

	return strings.TrimSpace(line[digits+1:]), true
}
