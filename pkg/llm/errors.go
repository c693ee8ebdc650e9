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

package llm

import "errors"

var (
	// ErrThrottled marks an explicit rate-limit signal from the backend.
	ErrThrottled = errors.New("backend throttled request")
	// ErrModelUnavailable marks a model that is not found or not supported.
	ErrModelUnavailable = errors.New("model unavailable")
	ErrUnauthorized     = errors.New("backend rejected credential")
	ErrForbidden        = errors.New("backend denied permission")

	// ErrRateLimited is terminal: retries against a throttling candidate ran out.
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrAllCandidatesFailed = errors.New("all candidate models failed")
	ErrNoCandidates        = errors.New("no candidate models configured")
	ErrNotConfigured       = errors.New("generative backend credential not configured")
	ErrEmptyResponse       = errors.New("backend returned no choices")
)

// RateLimitedMessage is what operators see when ErrRateLimited surfaces.
const RateLimitedMessage = "Rate limit exceeded. Please wait a few moments before trying again."
