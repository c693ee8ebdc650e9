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

// Package store pkg/store/store.go
package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/feed"
	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
)

// Feed paths.
const (
	PathNodes         = "nodes"
	PathAlertHistory  = "alertHistory"
	PathConnections   = "connections"
	PathNetworkStatus = "networkStatus"
	PathActivate      = "activate"
)

// Snapshot is the merged view of all four feeds. A Snapshot is never
// mutated after it is published; readers must treat its slices as read-only.
type Snapshot struct {
	Nodes         []models.Node              `json:"nodes"`
	Alerts        []models.Alert             `json:"alerts"`
	Connections   []models.NetworkConnection `json:"connections"`
	NetworkStatus models.NetworkStatus       `json:"networkStatus"`
	UpdatedAt     time.Time                  `json:"updatedAt"`
}

// Node looks up a node by id.
func (s *Snapshot) Node(id string) (models.Node, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return s.Nodes[i], true
		}
	}

	return models.Node{}, false
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = logger.OrDiscard(log)
	}
}

// WithFireWatch limits fire-triggered events to the given nodes. No nodes
// means every node is watched.
func WithFireWatch(nodeIDs ...string) Option {
	return func(s *Store) {
		for _, id := range nodeIDs {
			s.fireWatch[id] = struct{}{}
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithObserver reports deliveries to o.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		s.observer = o
	}
}

type entry[F any] struct {
	fn     F
	active atomic.Bool
}

type listeners[F any] struct {
	next    int
	entries map[int]*entry[F]
}

func (l *listeners[F]) add(fn F) (int, *entry[F]) {
	if l.entries == nil {
		l.entries = make(map[int]*entry[F])
	}

	e := &entry[F]{fn: fn}
	e.active.Store(true)

	l.next++
	l.entries[l.next] = e

	return l.next, e
}

func (l *listeners[F]) remove(id int) {
	if e, ok := l.entries[id]; ok {
		e.active.Store(false)
		delete(l.entries, id)
	}
}

func (l *listeners[F]) list() []*entry[F] {
	out := make([]*entry[F], 0, len(l.entries))
	for i := 1; i <= l.next; i++ {
		if e, ok := l.entries[i]; ok {
			out = append(out, e)
		}
	}

	return out
}

// Store merges the nodes, alertHistory, connections and networkStatus
// feeds into one Snapshot and republishes each collection to listeners.
//
// Listener calls run one at a time in the order the snapshots they carry
// were published. A listener registered before its collection has been
// delivered by the feed gets no initial call; the first feed delivery is
// its first call instead.
type Store struct {
	src      feed.Source
	log      logrus.FieldLogger
	now      func() time.Time
	observer Observer

	fireWatch map[string]struct{}

	snap atomic.Pointer[Snapshot]

	// mu serializes snapshot replacement and guards everything below.
	mu         sync.Mutex
	started    bool
	feedUnsubs []feed.Unsubscribe
	fireActive map[string]bool
	loaded     map[string]bool

	nodeSubs   listeners[NodesFunc]
	alertSubs  listeners[AlertsFunc]
	connSubs   listeners[ConnectionsFunc]
	statusSubs listeners[NetworkStatusFunc]
	fireSubs   listeners[FireFunc]

	// qmu guards the pending listener calls. Lock order is mu then qmu.
	qmu      sync.Mutex
	queue    []func()
	draining bool
}

// New builds a Store over src. Call Start to begin consuming the feeds.
func New(src feed.Source, opts ...Option) *Store {
	s := &Store{
		src:        src,
		log:        logger.Discard(),
		now:        time.Now,
		fireWatch:  make(map[string]struct{}),
		fireActive: make(map[string]bool),
		loaded:     make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.snap.Store(&Snapshot{
		Nodes:       []models.Node{},
		Alerts:      []models.Alert{},
		Connections: []models.NetworkConnection{},
	})

	return s
}

// Start opens one feed subscription per collection. Close releases them.
func (s *Store) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}

	s.started = true
	s.mu.Unlock()

	handlers := []struct {
		path string
		fn   func(json.RawMessage)
	}{
		{PathNodes, s.applyNodes},
		{PathAlertHistory, s.applyAlerts},
		{PathConnections, s.applyConnections},
		{PathNetworkStatus, s.applyNetworkStatus},
	}

	unsubs := make([]feed.Unsubscribe, 0, len(handlers))

	for _, h := range handlers {
		unsub, err := s.src.Subscribe(h.path, h.fn)
		if err != nil {
			for _, u := range unsubs {
				u()
			}

			s.mu.Lock()
			s.started = false
			s.mu.Unlock()

			return fmt.Errorf("%w %s: %w", errSubscribeFeed, h.path, err)
		}

		unsubs = append(unsubs, unsub)
	}

	s.mu.Lock()
	s.feedUnsubs = unsubs
	s.mu.Unlock()

	s.log.Info("Realtime store subscribed to feeds")

	return nil
}

// Close releases the feed subscriptions. Listeners stay registered but
// receive nothing further.
func (s *Store) Close() {
	s.mu.Lock()
	unsubs := s.feedUnsubs
	s.feedUnsubs = nil
	s.started = false
	s.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

// Snapshot returns the current merged view.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Loaded reports whether the feed has delivered path at least once.
func (s *Store) Loaded(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loaded[path]
}

// replace must be called with s.mu held.
func (s *Store) replace(path string, mutate func(next *Snapshot)) *Snapshot {
	next := *s.snap.Load()
	mutate(&next)
	next.UpdatedAt = s.now()
	s.snap.Store(&next)
	s.loaded[path] = true

	return &next
}

// enqueue must be called with s.mu held so calls stay in publish order.
func (s *Store) enqueue(calls ...func()) {
	s.qmu.Lock()
	s.queue = append(s.queue, calls...)
	s.qmu.Unlock()
}

// drain runs pending listener calls. A call made while another goroutine
// (or an outer frame of this one) is draining is left to that drainer.
func (s *Store) drain() {
	s.qmu.Lock()
	if s.draining {
		s.qmu.Unlock()
		return
	}

	s.draining = true

	for len(s.queue) > 0 {
		call := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.qmu.Unlock()

		call()

		s.qmu.Lock()
	}

	s.draining = false
	s.qmu.Unlock()
}

// deliver must be called with s.mu held.
func deliver[F any](s *Store, es []*entry[F], call func(F)) {
	for _, e := range es {
		s.enqueue(func() {
			if e.active.Load() {
				call(e.fn)
			}
		})
	}
}

func (s *Store) observe(path string, n int) {
	if s.observer != nil {
		s.observer.FeedDelivered(path, n)
	}
}

func (s *Store) applyNodes(raw json.RawMessage) {
	nodes := normalizeNodes(raw)

	s.mu.Lock()
	snap := s.replace(PathNodes, func(next *Snapshot) { next.Nodes = nodes })
	fires := s.detectFires(snap.Nodes)
	deliver(s, s.nodeSubs.list(), func(fn NodesFunc) { fn(snap.Nodes) })

	fireFns := s.fireSubs.list()
	for _, ev := range fires {
		s.enqueue(s.fireNotice(ev))
		deliver(s, fireFns, func(fn FireFunc) { fn(ev) })
	}
	s.mu.Unlock()

	s.observe(PathNodes, len(nodes))
	s.drain()
}

func (s *Store) fireNotice(ev models.FireEvent) func() {
	return func() {
		s.log.WithField("node_id", ev.NodeID).Warn("Fire alert triggered")

		if s.observer != nil {
			s.observer.FireTriggered(ev.NodeID)
		}
	}
}

// detectFires returns one event per watched node whose fire flag went from
// inactive (or unseen) to active. Must be called with s.mu held.
func (s *Store) detectFires(nodes []models.Node) []models.FireEvent {
	var events []models.FireEvent

	present := make(map[string]struct{}, len(nodes))

	for i := range nodes {
		n := &nodes[i]
		present[n.ID] = struct{}{}

		if !s.watching(n.ID) {
			continue
		}

		active := n.AlertActive(models.KindFire)
		if active && !s.fireActive[n.ID] {
			events = append(events, models.FireEvent{
				NodeID:      n.ID,
				Kind:        models.KindFire,
				Description: "Fire Detected",
				Severity:    models.SeverityCritical,
				DetectedAt:  s.now(),
			})
		}

		s.fireActive[n.ID] = active
	}

	for id := range s.fireActive {
		if _, ok := present[id]; !ok {
			delete(s.fireActive, id)
		}
	}

	return events
}

func (s *Store) watching(nodeID string) bool {
	if len(s.fireWatch) == 0 {
		return true
	}

	_, ok := s.fireWatch[nodeID]

	return ok
}

func (s *Store) applyAlerts(raw json.RawMessage) {
	alerts := normalizeAlerts(raw)

	s.mu.Lock()
	snap := s.replace(PathAlertHistory, func(next *Snapshot) { next.Alerts = alerts })
	deliver(s, s.alertSubs.list(), func(fn AlertsFunc) { fn(snap.Alerts) })
	s.mu.Unlock()

	s.observe(PathAlertHistory, len(alerts))
	s.drain()
}

func (s *Store) applyConnections(raw json.RawMessage) {
	conns := normalizeConnections(raw)

	s.mu.Lock()
	snap := s.replace(PathConnections, func(next *Snapshot) { next.Connections = conns })
	deliver(s, s.connSubs.list(), func(fn ConnectionsFunc) { fn(snap.Connections) })
	s.mu.Unlock()

	s.observe(PathConnections, len(conns))
	s.drain()
}

func (s *Store) applyNetworkStatus(raw json.RawMessage) {
	status := normalizeNetworkStatus(raw)

	s.mu.Lock()
	s.replace(PathNetworkStatus, func(next *Snapshot) { next.NetworkStatus = status })
	deliver(s, s.statusSubs.list(), func(fn NetworkStatusFunc) { fn(status) })
	s.mu.Unlock()

	s.observe(PathNetworkStatus, 1)
	s.drain()
}

// SubscribeNodes registers fn for every nodes delivery. Once the nodes feed
// has loaded, fn is also called right away with the current collection.
func (s *Store) SubscribeNodes(fn NodesFunc) (Unsubscribe, error) {
	return subscribe(s, &s.nodeSubs, PathNodes, fn, func(snap *Snapshot) { fn(snap.Nodes) })
}

// SubscribeAlerts registers fn for every alert history delivery, newest first.
func (s *Store) SubscribeAlerts(fn AlertsFunc) (Unsubscribe, error) {
	return subscribe(s, &s.alertSubs, PathAlertHistory, fn, func(snap *Snapshot) { fn(snap.Alerts) })
}

// SubscribeConnections registers fn for every connections delivery.
func (s *Store) SubscribeConnections(fn ConnectionsFunc) (Unsubscribe, error) {
	return subscribe(s, &s.connSubs, PathConnections, fn, func(snap *Snapshot) { fn(snap.Connections) })
}

// SubscribeNetworkStatus registers fn for every networkStatus delivery.
func (s *Store) SubscribeNetworkStatus(fn NetworkStatusFunc) (Unsubscribe, error) {
	return subscribe(s, &s.statusSubs, PathNetworkStatus, fn, func(snap *Snapshot) { fn(snap.NetworkStatus) })
}

// OnFireTriggered registers fn for fire-triggered events. There is no
// initial delivery.
func (s *Store) OnFireTriggered(fn FireFunc) (Unsubscribe, error) {
	return subscribe(s, &s.fireSubs, "", fn, nil)
}

func subscribe[F any](s *Store, l *listeners[F], path string, fn F, initial func(*Snapshot)) (Unsubscribe, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil, ErrNotStarted
	}

	id, e := l.add(fn)

	if initial != nil && s.loaded[path] {
		snap := s.snap.Load()

		s.enqueue(func() {
			if e.active.Load() {
				initial(snap)
			}
		})
	}
	s.mu.Unlock()

	s.drain()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			l.remove(id)
			s.mu.Unlock()
		})
	}, nil
}
