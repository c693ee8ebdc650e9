/*-
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

// Package feed pkg/feed/interfaces.go
package feed

//go:generate mockgen -destination=mock_feed.go -package=feed github.com/mfreeman451/perimeter/pkg/feed Source

import (
	"context"
	"encoding/json"
)

// Unsubscribe releases a subscription. It is safe to call more than once.
type Unsubscribe func()

// Source is a push-based hierarchical key-value store. Paths are slash
// separated ("nodes/node1/alerts/fire").
type Source interface {
	// Subscribe delivers the full current value at path immediately and
	// again after every change at or below it. Absent values are "null".
	Subscribe(path string, fn func(raw json.RawMessage)) (Unsubscribe, error)

	// Get reads the current value at path once.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// Set replaces the subtree at path. A nil value deletes it.
	Set(ctx context.Context, path string, value interface{}) error

	// Push stores value under a generated, time-ordered child key of path
	// and returns that key.
	Push(ctx context.Context, path string, value interface{}) (string, error)

	Close() error
}
