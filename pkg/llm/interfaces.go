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
	"context"
	"time"
)

//go:generate mockgen -destination=mock_llm.go -package=llm github.com/mfreeman451/perimeter/pkg/llm Backend,Generator,AttemptObserver

// Request is one call against one candidate model.
type Request struct {
	Model  string
	Prompt string
}

// Response carries the generated text.
type Response struct {
	Text string
}

// Backend talks to a generative text service. Errors should wrap one of
// ErrThrottled, ErrModelUnavailable, ErrUnauthorized or ErrForbidden when
// the failure is recognized.
type Backend interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Generator produces text from a prompt, trying candidate models in order.
type Generator interface {
	Generate(ctx context.Context, prompt string, candidates []string) (string, error)
	Configured() bool
}

// AttemptObserver is told about every backend attempt.
type AttemptObserver interface {
	ObserveAttempt(model string, class Class, elapsed time.Duration)
}
