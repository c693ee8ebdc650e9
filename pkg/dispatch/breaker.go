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

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/mfreeman451/perimeter/pkg/logger"
)

// BreakerConfig tunes BreakerActivator.
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// BreakerActivator stops hammering a failing actuation write: after
// MaxFailures consecutive failures calls fail fast with ErrBreakerOpen
// until OpenTimeout passes. It never retries on its own.
type BreakerActivator struct {
	next Activator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerActivator wraps next in a circuit breaker.
func NewBreakerActivator(next Activator, cfg BreakerConfig, log logrus.FieldLogger) *BreakerActivator {
	l := logger.OrDiscard(log).WithField("component", "activation_breaker")

	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}

	maxFailures := cfg.MaxFailures

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "fleet-activation",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &BreakerActivator{next: next, cb: cb}
}

// SetFleetActivationSignal forwards to the wrapped activator.
func (b *BreakerActivator) SetFleetActivationSignal(ctx context.Context) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.SetFleetActivationSignal(ctx)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrBreakerOpen, err)
	}

	return err
}

// State reports the breaker state for status endpoints.
func (b *BreakerActivator) State() string {
	return b.cb.State().String()
}
