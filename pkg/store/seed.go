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

package store

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/mfreeman451/perimeter/pkg/feed"
	"github.com/mfreeman451/perimeter/pkg/models"
)

type demoNode struct {
	id      string
	sector  string
	status  models.NodeStatus
	battery int
	live    bool // signal is randomized 50-100 while online
	age     time.Duration
	loc     models.Location
	role    models.NodeRole
}

var demoNodes = []demoNode{
	{"node1", "Sector A", models.NodeOnline, 85, true, 2 * time.Minute, models.Location{Lat: 28.5500, Lng: 77.1850}, models.RoleStandard},
	{"node2", "Sector B", models.NodeOffline, 0, false, 15 * time.Minute, models.Location{Lat: 28.5500, Lng: 77.2000}, models.RoleStandard},
	{"node3", "Sector C", models.NodeOffline, 0, false, 20 * time.Minute, models.Location{Lat: 28.5350, Lng: 77.1850}, models.RoleStandard},
	{"node4", "Sector D", models.NodeOffline, 0, false, 25 * time.Minute, models.Location{Lat: 28.5350, Lng: 77.2000}, models.RoleStandard},
	{"node5", "Sector E", models.NodeOnline, 95, true, 1 * time.Minute, models.Location{Lat: 28.5425, Lng: 77.1925}, models.RoleGateway},
}

type demoAlert struct {
	id     string
	kind   models.AlertKind
	nodeID string
	age    time.Duration
	desc   string
}

var demoAlerts = []demoAlert{
	{"alert1", models.KindGun, "node1", 10 * time.Minute, "Gun Reload Detected"},
	{"alert2", models.KindFootsteps, "node2", 5 * time.Minute, "Multiple Footsteps"},
	{"alert3", models.KindMotion, "node3", 3 * time.Minute, "Motion Alert"},
	{"alert4", models.KindSuspiciousActivity, "node4", 7 * time.Minute, "Suspicious Activity"},
	{"alert5", models.KindDrone, "node5", 12 * time.Minute, "Drone Detected"},
	{"alert6", models.KindFire, "node1", 2 * time.Minute, "Fire Detected"},
}

var demoConnections = []models.NetworkConnection{
	{Source: "node1", Target: "node2", Strength: 88},
	{Source: "node2", Target: "node4", Strength: 92},
	{Source: "node4", Target: "node3", Strength: 90},
	{Source: "node3", Target: "node1", Strength: 87},
	{Source: "node1", Target: "node4", Strength: 85},
	{Source: "node2", Target: "node3", Strength: 89},
	{Source: "node5", Target: "node1", Strength: 82},
	{Source: "node5", Target: "node2", Strength: 84},
	{Source: "node5", Target: "node3", Strength: 80},
	{Source: "node5", Target: "node4", Strength: 83},
}

// the gateway is not counted
var demoNetworkStatus = models.NetworkStatus{ActiveNodes: 1, TotalNodes: 4}

// Seed writes the demo perimeter: five nodes, six alerts, ten connections
// and the network status. Existing records with the same keys are replaced;
// connections are always appended.
func (s *Store) Seed(ctx context.Context) error {
	now := s.now()

	for _, d := range demoNodes {
		signal := 0
		if d.live {
			signal = 50 + rand.IntN(51)
		}

		n := models.Node{
			ID:             d.id,
			Name:           "Node #0" + d.id[len(nodeIDPrefix):],
			Sector:         d.sector,
			Status:         d.status,
			Battery:        d.battery,
			SignalStrength: signal,
			LastActivity:   now.Add(-d.age),
			Location:       d.loc,
			Role:           d.role,
		}

		if err := s.src.Set(ctx, feed.JoinPath(PathNodes, n.ID), toNodeRecord(&n)); err != nil {
			return fmt.Errorf("%w: node %s: %w", errSeed, n.ID, err)
		}
	}

	for _, d := range demoAlerts {
		err := s.RecordAlert(ctx, models.Alert{
			ID:          d.id,
			Kind:        d.kind,
			NodeID:      d.nodeID,
			Timestamp:   now.Add(-d.age),
			Description: d.desc,
			Severity:    models.SeverityCritical,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", errSeed, err)
		}
	}

	for _, c := range demoConnections {
		if _, err := s.AddConnection(ctx, c); err != nil {
			return fmt.Errorf("%w: %w", errSeed, err)
		}
	}

	if err := s.src.Set(ctx, PathNetworkStatus, demoNetworkStatus); err != nil {
		return fmt.Errorf("%w: network status: %w", errSeed, err)
	}

	s.log.WithField("nodes", len(demoNodes)).Info("Demo data seeded")

	return nil
}

// SeedIfEmpty seeds only when the nodes collection is absent. It reports
// whether seeding happened.
func (s *Store) SeedIfEmpty(ctx context.Context) (bool, error) {
	raw, err := s.src.Get(ctx, PathNodes)
	if err != nil {
		return false, fmt.Errorf("%w: %w", errReadNodes, err)
	}

	if keys, _ := decodeCollection(raw); len(keys) > 0 {
		return false, nil
	}

	if err := s.Seed(ctx); err != nil {
		return false, err
	}

	return true, nil
}

var kindDescriptions = map[models.AlertKind][]string{
	models.KindGun:                {"Gun Reload Detected", "Gunshot Detected", "Multiple Gunshots Detected"},
	models.KindFootsteps:          {"Footsteps Detected", "Multiple Footsteps", "Heavy Footsteps Detected"},
	models.KindMotion:             {"Movement Detected", "Fast Movement Detected", "Motion Alert"},
	models.KindWhisper:            {"Whispers Detected", "Quiet Speech Detected", "Low Voice Conversation"},
	models.KindSuspiciousActivity: {"Suspicious Activity", "Unusual Pattern Detected", "Unidentified Activity"},
	models.KindDrone:              {"Drone Detected", "UAV Activity", "Aerial Vehicle Detected"},
	models.KindHelp:               {"Help Call Detected", "Distress Signal", "Emergency Request"},
	models.KindFire:               {"Fire Detected", "Smoke Detected", "Flame Detected"},
}

// RandomAlert builds a critical alert of a random kind against one of
// nodeIDs, for demos. It returns false when nodeIDs is empty.
func RandomAlert(nodeIDs []string, now time.Time, r *rand.Rand) (models.Alert, bool) {
	if len(nodeIDs) == 0 {
		return models.Alert{}, false
	}

	kind := models.KnownAlertKinds[r.IntN(len(models.KnownAlertKinds))]
	descs := kindDescriptions[kind]

	return models.Alert{
		ID:          "alert" + strconv.FormatInt(now.UnixMilli(), 10),
		Kind:        kind,
		NodeID:      nodeIDs[r.IntN(len(nodeIDs))],
		Timestamp:   now,
		Description: descs[r.IntN(len(descs))],
		Severity:    models.SeverityCritical,
	}, true
}
