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

package lifecycle

import "errors"

var (
	errInternalError = errors.New("internal error")
	ErrNoService     = errors.New("no service to run")
	ErrServiceFailed = errors.New("service error")
	ErrShutdown      = errors.New("shutdown error")
	ErrHealthListen  = errors.New("health server failed to listen")
)
