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

import "errors"

var (
	ErrClosed        = errors.New("feed source closed")
	ErrInvalidPath   = errors.New("invalid feed path")
	ErrEncodeValue   = errors.New("failed to encode feed value")
	ErrNATSConnect   = errors.New("failed to connect to NATS")
	ErrBucket        = errors.New("failed to open key-value bucket")
	errWatchFailed   = errors.New("failed to start key-value watch")
	errWriteFailed   = errors.New("failed to write key-value entry")
	errReadFailed    = errors.New("failed to read key-value entries")
	errDeleteFailed  = errors.New("failed to delete key-value entry")
	errInvalidKeyRun = errors.New("path segment contains unsupported characters")
)
