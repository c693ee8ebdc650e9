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

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Class is how the fallback client treats a failed attempt.
type Class int

const (
	ClassSuccess Class = iota
	// ClassThrottled retries the same candidate after a backoff.
	ClassThrottled
	// ClassUnavailable moves on to the next candidate.
	ClassUnavailable
	// ClassFatal stops immediately.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassThrottled:
		return "throttled"
	case ClassUnavailable:
		return "unavailable"
	case ClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Classify maps a backend error onto a Class. Sentinels win, then HTTP
// status codes from go-openai errors, then well-known message fragments.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassSuccess
	case errors.Is(err, ErrThrottled):
		return ClassThrottled
	case errors.Is(err, ErrModelUnavailable):
		return ClassUnavailable
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return ClassFatal
	}

	if code, ok := statusCode(err); ok {
		switch code {
		case http.StatusTooManyRequests:
			return ClassThrottled
		case http.StatusNotFound:
			return ClassUnavailable
		case http.StatusUnauthorized, http.StatusForbidden:
			return ClassFatal
		}
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "quota"), strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"), strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "resource exhausted"):
		return ClassThrottled
	case strings.Contains(msg, "not found"), strings.Contains(msg, "not supported"):
		return ClassUnavailable
	default:
		return ClassFatal
	}
}

func statusCode(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}

	return 0, false
}
