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

// Package llm provides a resilient client for generative text backends:
// ordered model fallback, bounded retry with exponential backoff on
// throttling, and request spacing through a shared rate limiter.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/ratelimit"
)

// DefaultModels is the fallback order used when none is configured.
var DefaultModels = []string{
	"gemini-3-flash-preview",
	"gemini-2.5-flash-preview",
	"gemini-1.5-flash",
	"gemini-1.5-flash-latest",
	"gemini-1.5-pro",
	"gemini-1.5-pro-latest",
	"gemini-pro",
}

const (
	DefaultMaxRetries  = 3
	DefaultBaseBackoff = time.Second
	DefaultMaxBackoff  = 10 * time.Second
)

// Policy is the ordered fallback and retry policy.
type Policy struct {
	Models      []string
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultPolicy returns the standard policy over DefaultModels.
func DefaultPolicy() Policy {
	return Policy{
		Models:      append([]string(nil), DefaultModels...),
		MaxRetries:  DefaultMaxRetries,
		BaseBackoff: DefaultBaseBackoff,
		MaxBackoff:  DefaultMaxBackoff,
	}
}

func (p Policy) withDefaults() Policy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}

	if p.BaseBackoff <= 0 {
		p.BaseBackoff = DefaultBaseBackoff
	}

	if p.MaxBackoff <= 0 {
		p.MaxBackoff = DefaultMaxBackoff
	}

	return p
}

// Backoff returns the delay before retry number n (zero based):
// base doubled n times, capped at MaxBackoff.
func (p Policy) Backoff(n int) time.Duration {
	d := p.BaseBackoff

	for i := 0; i < n && d < p.MaxBackoff; i++ {
		d *= 2
	}

	if d > p.MaxBackoff {
		d = p.MaxBackoff
	}

	return d
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FallbackClient implements Generator on top of a Backend.
type FallbackClient struct {
	backend  Backend
	limiter  ratelimit.Acquirer
	policy   Policy
	sleep    SleepFunc
	observer AttemptObserver
	log      logrus.FieldLogger
}

// ClientOption configures a FallbackClient.
type ClientOption func(*FallbackClient)

// WithPolicy replaces the default policy.
func WithPolicy(p Policy) ClientOption {
	return func(c *FallbackClient) {
		c.policy = p.withDefaults()
	}
}

// WithSleep replaces the backoff wait, mostly for tests.
func WithSleep(fn SleepFunc) ClientOption {
	return func(c *FallbackClient) {
		c.sleep = fn
	}
}

// WithAttemptObserver reports every attempt to o.
func WithAttemptObserver(o AttemptObserver) ClientOption {
	return func(c *FallbackClient) {
		c.observer = o
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(log logrus.FieldLogger) ClientOption {
	return func(c *FallbackClient) {
		c.log = logger.OrDiscard(log).WithField("component", "llm")
	}
}

// NewFallbackClient builds a client. A nil backend yields an unconfigured
// client whose Generate returns ErrNotConfigured without any attempt.
func NewFallbackClient(backend Backend, limiter ratelimit.Acquirer, opts ...ClientOption) *FallbackClient {
	c := &FallbackClient{
		backend: backend,
		limiter: limiter,
		policy:  DefaultPolicy(),
		sleep:   sleepContext,
		log:     logger.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Configured reports whether a backend is present.
func (c *FallbackClient) Configured() bool {
	return c.backend != nil
}

// Policy returns the active policy.
func (c *FallbackClient) Policy() Policy {
	return c.policy
}

// Generate tries candidates in order, or the policy models when candidates
// is empty. Throttling retries the same model with backoff and fails
// terminally with ErrRateLimited once retries run out. Unavailable models
// fall through to the next candidate. Anything else stops immediately.
func (c *FallbackClient) Generate(ctx context.Context, prompt string, candidates []string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	if len(candidates) == 0 {
		candidates = c.policy.Models
	}

	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}

	var lastErr error

	for _, model := range candidates {
		text, err := c.tryModel(ctx, model, prompt)
		if err == nil {
			return text, nil
		}

		if Classify(err) != ClassUnavailable {
			return "", err
		}

		c.log.WithField("model", model).WithError(err).Warn("Model unavailable, trying next candidate")

		lastErr = err
	}

	return "", fmt.Errorf("%w: %w", ErrAllCandidatesFailed, lastErr)
}

// tryModel returns nil, an unavailable error for the caller to fall
// through on, or a terminal error.
func (c *FallbackClient) tryModel(ctx context.Context, model, prompt string) (string, error) {
	for retry := 0; ; retry++ {
		if c.limiter != nil {
			if err := c.limiter.Acquire(ctx); err != nil {
				return "", err
			}
		}

		start := time.Now()
		resp, err := c.backend.Generate(ctx, Request{Model: model, Prompt: prompt})
		class := Classify(err)

		if c.observer != nil {
			c.observer.ObserveAttempt(model, class, time.Since(start))
		}

		switch class {
		case ClassSuccess:
			return resp.Text, nil
		case ClassUnavailable:
			return "", err
		case ClassThrottled:
			if retry >= c.policy.MaxRetries {
				c.log.WithFields(logrus.Fields{"model": model, "attempt": retry + 1}).Error("Retries exhausted on throttled model")

				return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
			}

			delay := c.policy.Backoff(retry)

			c.log.WithFields(logrus.Fields{
				"model":   model,
				"attempt": retry + 1,
				"delay":   delay,
			}).Warn("Backend throttled, backing off")

			if err := c.sleep(ctx, delay); err != nil {
				return "", err
			}
		default:
			return "", err
		}
	}
}
