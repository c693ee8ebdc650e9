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

package store

import "errors"

var (
	ErrNotStarted     = errors.New("store not started")
	ErrAlreadyStarted = errors.New("store already started")
	ErrInvalidNode    = errors.New("invalid node")
	ErrInvalidAlert   = errors.New("invalid alert")
	ErrInvalidConn    = errors.New("invalid connection")
	ErrActivation     = errors.New("failed to set fleet activation signal")
	errSubscribeFeed  = errors.New("failed to subscribe to feed path")
	errReadNodes      = errors.New("failed to read nodes")
	errWriteNode      = errors.New("failed to write node")
	errWriteAlert     = errors.New("failed to write alert")
	errWriteConn      = errors.New("failed to write connection")
	errNetworkStatus  = errors.New("failed to update network status")
	errSeed           = errors.New("failed to seed demo data")
)
