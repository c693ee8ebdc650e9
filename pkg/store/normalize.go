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
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mfreeman451/perimeter/pkg/models"
)

const (
	defaultPercent = 100
	defaultSector  = "Unknown Sector"
	nodeIDPrefix   = "node"
)

type record map[string]interface{}

// decodeCollection turns a feed payload into keyed records. The feed may
// deliver an object keyed by id or, for dense numeric keys, an array.
// Entries that are not objects are dropped.
func decodeCollection(raw json.RawMessage) (keys []string, recs map[string]record) {
	recs = make(map[string]record)

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, recs
	}

	switch t := v.(type) {
	case map[string]interface{}:
		for k, item := range t {
			if m, ok := item.(map[string]interface{}); ok {
				recs[k] = m
			}
		}
	case []interface{}:
		for i, item := range t {
			if m, ok := item.(map[string]interface{}); ok {
				recs[strconv.Itoa(i)] = m
			}
		}
	}

	keys = make([]string, 0, len(recs))
	for k := range recs {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys, recs
}

func (r record) str(key string) (string, bool) {
	s, ok := r[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}

	return s, true
}

func (r record) number(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}

		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// percent reads a [0,100] value. Missing or non-numeric input takes def;
// numeric input is clamped, so an explicit 0 stays 0.
func (r record) percent(key string, def int) int {
	f, ok := r.number(key)
	if !ok {
		return def
	}

	return clampPercent(int(math.Round(f)))
}

func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func (r record) count(key string) int {
	f, ok := r.number(key)
	if !ok || f < 0 {
		return 0
	}

	return int(f)
}

// timestamp accepts RFC 3339 strings and epoch milliseconds. Anything else
// yields the zero time so replays of the same record stay identical.
func (r record) timestamp(key string) time.Time {
	switch v := r[key].(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC()
			}
		}
	case float64:
		if v > 0 && !math.IsInf(v, 0) {
			return time.UnixMilli(int64(v)).UTC()
		}
	}

	return time.Time{}
}

func (r record) location(key string) models.Location {
	m, ok := r[key].(map[string]interface{})
	if !ok {
		return models.FallbackLocation
	}

	loc := record(m)

	lat, latOK := loc.number("lat")
	lng, lngOK := loc.number("lng")

	if !latOK || !lngOK || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.FallbackLocation
	}

	return models.Location{Lat: lat, Lng: lng}
}

// flagActive treats boolean true and the number 1 as an active alert flag.
func flagActive(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t == 1
	case string:
		return t == "true" || t == "1"
	default:
		return false
	}
}

func (r record) alertFlags(key string) map[models.AlertKind]bool {
	flags := make(map[models.AlertKind]bool, len(models.KnownAlertKinds))
	for _, kind := range models.KnownAlertKinds {
		flags[kind] = false
	}

	m, ok := r[key].(map[string]interface{})
	if !ok {
		return flags
	}

	for k, v := range m {
		flags[models.AlertKind(k)] = flagActive(v)
	}

	return flags
}

func defaultNodeName(id string) string {
	return "Node #" + strings.TrimPrefix(id, nodeIDPrefix)
}

func normalizeNode(id string, r record) models.Node {
	n := models.Node{
		ID:             id,
		Name:           defaultNodeName(id),
		Sector:         defaultSector,
		Status:         models.NodeOnline,
		Battery:        r.percent("battery", defaultPercent),
		SignalStrength: r.percent("signalStrength", defaultPercent),
		LastActivity:   r.timestamp("lastActivity"),
		Location:       r.location("location"),
		Role:           models.RoleStandard,
		Alerts:         r.alertFlags("alerts"),
	}

	if s, ok := r.str("name"); ok {
		n.Name = s
	}

	if s, ok := r.str("sector"); ok {
		n.Sector = s
	}

	if s, _ := r.str("status"); models.NodeStatus(s) == models.NodeOffline {
		n.Status = models.NodeOffline
	}

	if s, _ := r.str("type"); models.NodeRole(s) == models.RoleGateway {
		n.Role = models.RoleGateway
	}

	return n
}

func normalizeNodes(raw json.RawMessage) []models.Node {
	keys, recs := decodeCollection(raw)

	nodes := make([]models.Node, 0, len(keys))
	for _, k := range keys {
		nodes = append(nodes, normalizeNode(k, recs[k]))
	}

	return nodes
}

func normalizeAlert(id string, r record) models.Alert {
	a := models.Alert{
		ID:        id,
		Kind:      models.AlertKind("unknown"),
		Timestamp: r.timestamp("timestamp"),
		Severity:  models.SeverityInfo,
	}

	if s, ok := r.str("type"); ok {
		a.Kind = models.AlertKind(s)
	}

	if s, ok := r.str("nodeId"); ok {
		a.NodeID = s
	}

	a.Description = string(a.Kind) + " detected"
	if s, ok := r.str("description"); ok {
		a.Description = s
	}

	if s, _ := r.str("severity"); models.Severity(s).Valid() {
		a.Severity = models.Severity(s)
	}

	if ack, ok := r["acknowledged"].(bool); ok {
		a.Acknowledged = ack
	}

	return a
}

func normalizeAlerts(raw json.RawMessage) []models.Alert {
	keys, recs := decodeCollection(raw)

	alerts := make([]models.Alert, 0, len(keys))
	for _, k := range keys {
		alerts = append(alerts, normalizeAlert(k, recs[k]))
	}

	models.SortNewestFirst(alerts)

	return alerts
}

// normalizeConnections drops records without both endpoints and keeps one
// entry per unordered pair. Keys are time ordered, so the later write wins.
func normalizeConnections(raw json.RawMessage) []models.NetworkConnection {
	keys, recs := decodeCollection(raw)

	index := make(map[string]int, len(keys))
	conns := make([]models.NetworkConnection, 0, len(keys))

	for _, k := range keys {
		r := recs[k]

		src, srcOK := r.str("source")
		dst, dstOK := r.str("target")

		if !srcOK || !dstOK {
			continue
		}

		c := models.NetworkConnection{
			Source:   src,
			Target:   dst,
			Strength: r.percent("strength", 0),
		}

		if i, seen := index[c.PairKey()]; seen {
			conns[i] = c
			continue
		}

		index[c.PairKey()] = len(conns)
		conns = append(conns, c)
	}

	return conns
}

func normalizeNetworkStatus(raw json.RawMessage) models.NetworkStatus {
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.NetworkStatus{}
	}

	r := record(m)

	return models.NetworkStatus{
		ActiveNodes: r.count("activeNodes"),
		TotalNodes:  r.count("totalNodes"),
	}
}

// nodeSuffix returns the numeric suffix of ids shaped like "node12".
func nodeSuffix(id string) (int, bool) {
	if !strings.HasPrefix(id, nodeIDPrefix) {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimPrefix(id, nodeIDPrefix))
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}
