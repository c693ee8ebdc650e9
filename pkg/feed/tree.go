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

package feed

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var segmentRe = regexp.MustCompile(`^[-_=a-zA-Z0-9]+$`)

// SplitPath turns "a/b/c" into its segments. The empty path is the root.
func SplitPath(path string) ([]string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, nil
	}

	segs := strings.Split(path, "/")
	for _, s := range segs {
		if !segmentRe.MatchString(s) {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPath, path, errInvalidKeyRun)
		}
	}

	return segs, nil
}

// JoinPath joins segments with the feed separator.
func JoinPath(segs ...string) string {
	return strings.Join(segs, "/")
}

// normalize converts an arbitrary Go value into the generic JSON tree form
// (maps, slices, float64, string, bool, nil).
func normalize(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeValue, err)
	}

	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeValue, err)
	}

	return out, nil
}

// setValue writes v at segs below node and returns the new node. Writing
// nil deletes; maps left empty collapse to nil.
func setValue(node interface{}, segs []string, v interface{}) interface{} {
	if len(segs) == 0 {
		return v
	}

	m, ok := node.(map[string]interface{})
	if !ok || m == nil {
		if v == nil {
			return node
		}

		m = make(map[string]interface{})
	}

	child := setValue(m[segs[0]], segs[1:], v)
	if child == nil {
		delete(m, segs[0])
	} else {
		m[segs[0]] = child
	}

	if len(m) == 0 {
		return nil
	}

	return m
}

func getValue(node interface{}, segs []string) interface{} {
	for _, s := range segs {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}

		node = m[s]
	}

	return node
}

func encode(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}

	return data
}

// overlaps reports whether a change at changed is visible from watched.
func overlaps(watched, changed []string) bool {
	n := len(watched)
	if len(changed) < n {
		n = len(changed)
	}

	for i := 0; i < n; i++ {
		if watched[i] != changed[i] {
			return false
		}
	}

	return true
}
