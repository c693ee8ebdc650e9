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

// Package ratelimit enforces a minimum spacing between the starts of
// consecutive outbound requests.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the floor between two permitted requests.
const DefaultInterval = time.Second

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now and the timer-based sleep.
func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) Option {
	return func(l *Limiter) {
		l.now = now
		l.sleep = sleep
	}
}

// Limiter admits one start per interval. Callers take a single slot in
// turn; the holder first waits out its token bucket reservation and then
// any remainder of the interval since the previous start, so two starts
// are never closer than interval even when a wakeup runs late.
type Limiter struct {
	interval time.Duration
	lim      *rate.Limiter
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error

	slot chan struct{}

	// guarded by slot
	last      time.Time
	onAcquire func(time.Time)
}

// New returns a Limiter for interval. Non-positive intervals use DefaultInterval.
func New(interval time.Duration, opts ...Option) *Limiter {
	if interval <= 0 {
		interval = DefaultInterval
	}

	l := &Limiter{
		interval: interval,
		lim:      rate.NewLimiter(rate.Every(interval), 1),
		now:      time.Now,
		sleep:    sleepCtx,
		slot:     make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Interval returns the configured spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Acquire blocks until at least one interval has passed since the previous
// acquisition. A cancelled context gives the slot back.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrAcquire, ctx.Err())
	}

	defer func() { <-l.slot }()

	now := l.now()

	r := l.lim.ReserveN(now, 1)
	if d := r.DelayFrom(now); d > 0 {
		if err := l.sleep(ctx, d); err != nil {
			r.CancelAt(l.now())
			return fmt.Errorf("%w: %w", ErrAcquire, err)
		}
	}

	for !l.last.IsZero() {
		gap := l.last.Add(l.interval).Sub(l.now())
		if gap <= 0 {
			break
		}

		if err := l.sleep(ctx, gap); err != nil {
			return fmt.Errorf("%w: %w", ErrAcquire, err)
		}
	}

	l.last = l.now()

	if l.onAcquire != nil {
		l.onAcquire(l.last)
	}

	return nil
}
