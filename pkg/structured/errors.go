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

package structured

import "errors"

var (
	ErrNoObject       = errors.New("no JSON object found in text")
	ErrDecode         = errors.New("failed to decode JSON object")
	ErrMissingKeys    = errors.New("JSON object is missing required keys")
	ErrInvalidPayload = errors.New("JSON object failed validation")
)
