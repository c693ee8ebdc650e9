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
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/feed"
	"github.com/mfreeman451/perimeter/pkg/models"
)

// nodeRecord is the wire shape of nodes/<id>; the id is the key.
type nodeRecord struct {
	Name           string                    `json:"name"`
	Sector         string                    `json:"sector"`
	Status         models.NodeStatus         `json:"status"`
	Battery        int                       `json:"battery"`
	SignalStrength int                       `json:"signalStrength"`
	LastActivity   string                    `json:"lastActivity"`
	Location       models.Location           `json:"location"`
	Role           models.NodeRole           `json:"type"`
	Alerts         map[models.AlertKind]bool `json:"alerts"`
}

// alertRecord is the wire shape of alertHistory/<id>.
type alertRecord struct {
	Type         models.AlertKind `json:"type"`
	NodeID       string           `json:"nodeId"`
	Timestamp    string           `json:"timestamp"`
	Description  string           `json:"description"`
	Severity     models.Severity  `json:"severity"`
	Acknowledged bool             `json:"acknowledged"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func clearedFlags() map[models.AlertKind]bool {
	flags := make(map[models.AlertKind]bool, len(models.KnownAlertKinds))
	for _, kind := range models.KnownAlertKinds {
		flags[kind] = false
	}

	return flags
}

func toNodeRecord(n *models.Node) nodeRecord {
	return nodeRecord{
		Name:           n.Name,
		Sector:         n.Sector,
		Status:         n.Status,
		Battery:        clampPercent(n.Battery),
		SignalStrength: clampPercent(n.SignalStrength),
		LastActivity:   formatTime(n.LastActivity),
		Location:       n.Location,
		Role:           n.Role,
		Alerts:         clearedFlags(),
	}
}

// CreateNode writes a new node. Without an id it gets "node<N+1>", where N
// is the highest numeric suffix among existing node ids. Afterwards the
// networkStatus counts are each bumped by one. All alert flags start
// cleared. Concurrent creators race and the last write wins.
func (s *Store) CreateNode(ctx context.Context, n *models.Node) (models.Node, error) {
	if n == nil {
		return models.Node{}, fmt.Errorf("%w: nil node", ErrInvalidNode)
	}

	node := *n

	if node.ID == "" {
		id, err := s.nextNodeID(ctx)
		if err != nil {
			return models.Node{}, err
		}

		node.ID = id
	}

	if _, err := feed.SplitPath(node.ID); err != nil {
		return models.Node{}, fmt.Errorf("%w: id %q: %w", ErrInvalidNode, node.ID, err)
	}

	fillNodeDefaults(&node, s.now())

	if err := s.src.Set(ctx, feed.JoinPath(PathNodes, node.ID), toNodeRecord(&node)); err != nil {
		return models.Node{}, fmt.Errorf("%w %s: %w", errWriteNode, node.ID, err)
	}

	if err := s.bumpNetworkStatus(ctx); err != nil {
		return node, err
	}

	s.log.WithField("node_id", node.ID).Info("Node created")

	return node, nil
}

func fillNodeDefaults(n *models.Node, now time.Time) {
	if n.Name == "" {
		n.Name = defaultNodeName(n.ID)
	}

	if n.Sector == "" {
		n.Sector = defaultSector
	}

	if n.Status != models.NodeOffline {
		n.Status = models.NodeOnline
	}

	if n.Role != models.RoleGateway {
		n.Role = models.RoleStandard
	}

	if n.LastActivity.IsZero() {
		n.LastActivity = now
	}

	if n.Location == (models.Location{}) {
		n.Location = models.FallbackLocation
	}

	n.Alerts = clearedFlags()
}

func (s *Store) nextNodeID(ctx context.Context) (string, error) {
	raw, err := s.src.Get(ctx, PathNodes)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errReadNodes, err)
	}

	keys, _ := decodeCollection(raw)

	highest := 0

	for _, k := range keys {
		if n, ok := nodeSuffix(k); ok && n > highest {
			highest = n
		}
	}

	return nodeIDPrefix + strconv.Itoa(highest+1), nil
}

func (s *Store) bumpNetworkStatus(ctx context.Context) error {
	raw, err := s.src.Get(ctx, PathNetworkStatus)
	if err != nil {
		return fmt.Errorf("%w: %w", errNetworkStatus, err)
	}

	// keep any extra fields other writers put there
	current := map[string]interface{}{}
	_ = json.Unmarshal(raw, &current)

	if current == nil {
		current = map[string]interface{}{}
	}

	status := normalizeNetworkStatus(raw)
	current["activeNodes"] = status.ActiveNodes + 1
	current["totalNodes"] = status.TotalNodes + 1

	if err := s.src.Set(ctx, PathNetworkStatus, current); err != nil {
		return fmt.Errorf("%w: %w", errNetworkStatus, err)
	}

	return nil
}

// SetNodeAlertFlag writes a single alert flag under nodes/<id>/alerts.
func (s *Store) SetNodeAlertFlag(ctx context.Context, nodeID string, kind models.AlertKind, active bool) error {
	if nodeID == "" || kind == "" {
		return fmt.Errorf("%w: node id and alert kind are required", ErrInvalidNode)
	}

	path := feed.JoinPath(PathNodes, nodeID, "alerts", string(kind))

	if err := s.src.Set(ctx, path, active); err != nil {
		return fmt.Errorf("%w %s: %w", errWriteNode, path, err)
	}

	s.log.WithFields(logrus.Fields{
		"node_id": nodeID,
		"kind":    kind,
		"active":  active,
	}).Debug("Node alert flag updated")

	return nil
}

// RecordAlert upserts alertHistory/<id>. Writing the same id again
// replaces the previous record.
func (s *Store) RecordAlert(ctx context.Context, alert models.Alert) error {
	if alert.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidAlert)
	}

	if alert.Kind == "" {
		return fmt.Errorf("%w %s: missing kind", ErrInvalidAlert, alert.ID)
	}

	if alert.Timestamp.IsZero() {
		alert.Timestamp = s.now()
	}

	if !alert.Severity.Valid() {
		alert.Severity = models.SeverityInfo
	}

	if alert.Description == "" {
		alert.Description = string(alert.Kind) + " detected"
	}

	rec := alertRecord{
		Type:         alert.Kind,
		NodeID:       alert.NodeID,
		Timestamp:    formatTime(alert.Timestamp),
		Description:  alert.Description,
		Severity:     alert.Severity,
		Acknowledged: alert.Acknowledged,
	}

	if err := s.src.Set(ctx, feed.JoinPath(PathAlertHistory, alert.ID), rec); err != nil {
		return fmt.Errorf("%w %s: %w", errWriteAlert, alert.ID, err)
	}

	return nil
}

// AddConnection appends a connection under a generated key.
func (s *Store) AddConnection(ctx context.Context, conn models.NetworkConnection) (string, error) {
	if conn.Source == "" || conn.Target == "" {
		return "", fmt.Errorf("%w: source and target are required", ErrInvalidConn)
	}

	conn.Strength = clampPercent(conn.Strength)

	key, err := s.src.Push(ctx, PathConnections, conn)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errWriteConn, err)
	}

	return key, nil
}

// SetFleetActivationSignal sets activate to 1 for the external actuation
// system. A failure is logged and returned; it is never retried here.
func (s *Store) SetFleetActivationSignal(ctx context.Context) error {
	if err := s.src.Set(ctx, PathActivate, 1); err != nil {
		s.log.WithError(err).Error("Failed to set fleet activation signal")

		return fmt.Errorf("%w: %w", ErrActivation, err)
	}

	s.log.Info("Fleet activation signal set")

	return nil
}
