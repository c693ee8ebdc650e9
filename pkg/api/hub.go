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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/insight"
	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

// Event types pushed to operator consoles.
const (
	EventSnapshot     = "snapshot"
	EventFleet        = "fleet"
	EventPrompt       = "prompt"
	EventPromptClosed = "prompt_closed"
	EventNotification = "notification"
	EventCue          = "cue"
	EventInsights     = "insights"
)

var ErrHubBusy = errors.New("event hub is busy")

const (
	broadcastBuffer = 256
	clientBuffer    = 64
)

// stickyOrder is the replay order for late-joining consoles.
var stickyOrder = []string{EventSnapshot, EventFleet, EventInsights, EventPrompt}

// Event is one websocket message.
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

type outbound struct {
	typ    string
	data   []byte
	sticky bool
	clear  string
}

// Hub fans events out to connected consoles. Sticky events (the latest
// snapshot, fleet, insights and open prompt) are replayed to new clients.
// Publishing never blocks; events are dropped when the hub falls behind.
type Hub struct {
	clients    map[*Client]struct{}
	sticky     map[string][]byte
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}
	log        logrus.FieldLogger
	now        func() time.Time
	onClients  func(int)
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithClientCounter reports the connected console count after each change.
func WithClientCounter(fn func(int)) HubOption {
	return func(h *Hub) {
		h.onClients = fn
	}
}

func WithHubClock(now func() time.Time) HubOption {
	return func(h *Hub) {
		h.now = now
	}
}

func NewHub(log logrus.FieldLogger, opts ...HubOption) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		sticky:     make(map[string][]byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, broadcastBuffer),
		done:       make(chan struct{}),
		log:        logger.OrDiscard(log).WithField("component", "hub"),
		now:        time.Now,
		onClients:  func(int) {},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Run owns the client set until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}

			return nil

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.replay(c)
			h.log.WithField("remote", c.remote).Debug("Console connected")
			h.onClients(len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.WithField("remote", c.remote).Debug("Console disconnected")
				h.onClients(len(h.clients))
			}

		case msg := <-h.broadcast:
			if msg.clear != "" {
				delete(h.sticky, msg.clear)
			}

			if msg.sticky {
				h.sticky[msg.typ] = msg.data
			}

			if msg.data == nil {
				continue
			}

			for c := range h.clients {
				select {
				case c.send <- msg.data:
				default:
					h.log.WithField("remote", c.remote).Warn("Console send buffer full, disconnecting")
					h.drop(c)
					h.onClients(len(h.clients))
				}
			}
		}
	}
}

func (h *Hub) replay(c *Client) {
	for _, typ := range stickyOrder {
		data, ok := h.sticky[typ]
		if !ok {
			continue
		}

		select {
		case c.send <- data:
		default:
			return
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) publish(typ string, payload any, sticky bool, clear string) error {
	data, err := json.Marshal(Event{Type: typ, Payload: payload, At: h.now()})
	if err != nil {
		h.log.WithError(err).WithField("type", typ).Error("Failed to marshal event")

		return err
	}

	select {
	case h.broadcast <- outbound{typ: typ, data: data, sticky: sticky, clear: clear}:
		return nil
	default:
		h.log.WithField("type", typ).Warn("Hub busy, dropping event")

		return ErrHubBusy
	}
}

// PublishSnapshot pushes the mirrored dashboard state.
func (h *Hub) PublishSnapshot(snap *store.Snapshot) {
	_ = h.publish(EventSnapshot, snap, true, "")
}

// PublishFleet pushes the fleet summary.
func (h *Hub) PublishFleet(summary models.FleetSummary) {
	_ = h.publish(EventFleet, summary, true, "")
}

// PublishInsights pushes fresh advisor output.
func (h *Hub) PublishInsights(ins *insight.Insights) {
	_ = h.publish(EventInsights, ins, true, "")
}

// Open shows the decision prompt on every console.
func (h *Hub) Open(p models.Prompt) {
	_ = h.publish(EventPrompt, p, true, "")
}

// Close hides the decision prompt.
func (h *Hub) Close(promptID string) {
	_ = h.publish(EventPromptClosed, map[string]string{"id": promptID}, false, EventPrompt)
}

// Notify pushes a transient notification.
func (h *Hub) Notify(ctx context.Context, n models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return h.publish(EventNotification, n, false, "")
}

// Play asks consoles to sound the alarm for sev.
func (h *Hub) Play(sev models.Severity) {
	_ = h.publish(EventCue, map[string]models.Severity{"severity": sev}, false, "")
}
