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

// Package fleet pkg/fleet/fleet.go
package fleet

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/logger"
	"github.com/mfreeman451/perimeter/pkg/models"
)

const defaultWatchBuffer = 16

// StatusChange is published on every unit status transition.
type StatusChange struct {
	UnitID string            `json:"unitId"`
	From   models.UnitStatus `json:"from"`
	To     models.UnitStatus `json:"to"`
	At     time.Time         `json:"at"`
}

// DefaultUnits returns the standard four-unit fleet.
func DefaultUnits() []models.FleetUnit {
	return []models.FleetUnit{
		{ID: "drone1", Name: "Eagle Eye Alpha", Status: models.UnitOnStation, Battery: 95, SignalStrength: 98,
			Location: "Sector A - Perimeter", Type: "Surveillance"},
		{ID: "drone2", Name: "Shadow Hawk Beta", Status: models.UnitMaintenance, Battery: 45, SignalStrength: 0,
			Location: "Hangar Bay 2", Type: "Reconnaissance"},
		{ID: "drone3", Name: "Stealth Raven Gamma", Status: models.UnitMaintenance, Battery: 32, SignalStrength: 0,
			Location: "Maintenance Bay", Type: "Stealth"},
		{ID: "drone4", Name: "Thunder Bird Delta", Status: models.UnitMaintenance, Battery: 18, SignalStrength: 0,
			Location: "Repair Station", Type: "Combat"},
	}
}

func validStatus(s models.UnitStatus) bool {
	switch s {
	case models.UnitOnStation, models.UnitCharging, models.UnitMaintenance, models.UnitDeployed, models.UnitOnMission:
		return true
	default:
		return false
	}
}

// Registry owns the status of every responding unit. Status changes are
// announced on watcher channels rather than broadcast by name.
type Registry struct {
	log logrus.FieldLogger
	now func() time.Time

	mu       sync.RWMutex
	order    []string
	units    map[string]models.FleetUnit
	watchers map[chan StatusChange]struct{}
}

// NewRegistry builds a registry over units, preserving their order.
func NewRegistry(units []models.FleetUnit, log logrus.FieldLogger) *Registry {
	r := &Registry{
		log:      logger.OrDiscard(log).WithField("component", "fleet"),
		now:      time.Now,
		units:    make(map[string]models.FleetUnit, len(units)),
		watchers: make(map[chan StatusChange]struct{}),
	}

	for _, u := range units {
		if _, dup := r.units[u.ID]; !dup {
			r.order = append(r.order, u.ID)
		}

		r.units[u.ID] = u
	}

	return r
}

// Unit returns one unit by id.
func (r *Registry) Unit(id string) (models.FleetUnit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.units[id]

	return u, ok
}

// Units returns every unit in registration order.
func (r *Registry) Units() []models.FleetUnit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.FleetUnit, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.units[id])
	}

	return out
}

// SetStatus moves a unit to status and returns the previous one. Setting
// the current status again is a no-op and publishes nothing.
func (r *Registry) SetStatus(id string, status models.UnitStatus) (models.UnitStatus, error) {
	if !validStatus(status) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	r.mu.Lock()

	u, ok := r.units[id]
	if !ok {
		r.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrUnknownUnit, id)
	}

	prev := u.Status
	if prev == status {
		r.mu.Unlock()
		return prev, nil
	}

	u.Status = status
	r.units[id] = u

	change := StatusChange{UnitID: id, From: prev, To: status, At: r.now()}

	for ch := range r.watchers {
		select {
		case ch <- change:
		default:
			r.log.WithField("unit_id", id).Warn("Fleet watcher is full, dropping status change")
		}
	}

	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"unit_id": id,
		"from":    prev,
		"to":      status,
	}).Info("Unit status changed")

	return prev, nil
}

// Watch returns a channel of status changes and a func that closes it.
// Slow readers lose changes once the buffer fills.
func (r *Registry) Watch(buffer int) (<-chan StatusChange, func()) {
	if buffer <= 0 {
		buffer = defaultWatchBuffer
	}

	ch := make(chan StatusChange, buffer)

	r.mu.Lock()
	r.watchers[ch] = struct{}{}
	r.mu.Unlock()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.watchers, ch)
			r.mu.Unlock()
			close(ch)
		})
	}
}

// Summary counts units per status.
func (r *Registry) Summary() models.FleetSummary {
	units := r.Units()

	s := models.FleetSummary{Units: units}

	for _, u := range units {
		switch u.Status {
		case models.UnitOnStation:
			s.OnStation++
		case models.UnitCharging:
			s.Charging++
		case models.UnitMaintenance:
			s.Maintenance++
		case models.UnitDeployed:
			s.Deployed++
		case models.UnitOnMission:
			s.OnMission++
		}
	}

	return s
}
