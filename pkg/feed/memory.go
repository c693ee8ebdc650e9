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

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type memorySub struct {
	path   []string
	fn     func(json.RawMessage)
	last   json.RawMessage
	active atomic.Bool
}

type delivery struct {
	sub     *memorySub
	payload json.RawMessage
}

// MemorySource is an in-process Source. Deliveries run on the goroutine
// that performed the write, in write order; writes issued from inside a
// callback are queued and delivered after it returns.
type MemorySource struct {
	mu     sync.Mutex
	root   interface{}
	subs   map[*memorySub]struct{}
	closed bool

	qmu      sync.Mutex
	queue    []delivery
	draining bool

	newKey func() string
}

// NewMemorySource returns an empty in-memory feed.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		subs:   make(map[*memorySub]struct{}),
		newKey: newPushKey,
	}
}

func newPushKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

func (m *MemorySource) Subscribe(path string, fn func(json.RawMessage)) (Unsubscribe, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}

	sub := &memorySub{path: segs, fn: fn}
	sub.active.Store(true)
	sub.last = encode(getValue(m.root, segs))
	m.subs[sub] = struct{}{}

	m.enqueue([]delivery{{sub: sub, payload: sub.last}})
	m.mu.Unlock()

	m.drain()

	return func() {
		sub.active.Store(false)

		m.mu.Lock()
		delete(m.subs, sub)
		m.mu.Unlock()
	}, nil
}

func (m *MemorySource) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	return encode(getValue(m.root, segs)), nil
}

func (m *MemorySource) Set(ctx context.Context, path string, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	segs, err := SplitPath(path)
	if err != nil {
		return err
	}

	v, err := normalize(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}

	m.root = setValue(m.root, segs, v)

	var pending []delivery

	for sub := range m.subs {
		if !overlaps(sub.path, segs) {
			continue
		}

		payload := encode(getValue(m.root, sub.path))
		if bytes.Equal(payload, sub.last) {
			continue
		}

		sub.last = payload
		pending = append(pending, delivery{sub: sub, payload: payload})
	}

	m.enqueue(pending)
	m.mu.Unlock()

	m.drain()

	return nil
}

func (m *MemorySource) Push(ctx context.Context, path string, value interface{}) (string, error) {
	key := m.newKey()

	if err := m.Set(ctx, JoinPath(path, key), value); err != nil {
		return "", err
	}

	return key, nil
}

func (m *MemorySource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	for sub := range m.subs {
		sub.active.Store(false)
	}

	m.subs = make(map[*memorySub]struct{})

	return nil
}

// enqueue must be called with m.mu held so queue order matches write order.
func (m *MemorySource) enqueue(ds []delivery) {
	if len(ds) == 0 {
		return
	}

	m.qmu.Lock()
	m.queue = append(m.queue, ds...)
	m.qmu.Unlock()
}

func (m *MemorySource) drain() {
	m.qmu.Lock()
	if m.draining {
		m.qmu.Unlock()
		return
	}

	m.draining = true

	for len(m.queue) > 0 {
		d := m.queue[0]
		m.queue = m.queue[1:]
		m.qmu.Unlock()

		if d.sub.active.Load() {
			d.sub.fn(d.payload)
		}

		m.qmu.Lock()
	}

	m.draining = false
	m.qmu.Unlock()
}
