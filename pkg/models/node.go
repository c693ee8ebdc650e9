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

// Package models pkg/models/node.go
package models

import (
	"sort"
	"time"
)

type NodeStatus string

const (
	NodeOnline  NodeStatus = "online"
	NodeOffline NodeStatus = "offline"
)

type NodeRole string

const (
	RoleStandard NodeRole = "standard"
	RoleGateway  NodeRole = "gateway"
)

// Location is a geographic coordinate in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FallbackLocation is used for nodes that report no usable coordinate.
var FallbackLocation = Location{Lat: 21.15, Lng: 79.08}

// Node is a field sensor or gateway as seen through the nodes feed.
type Node struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Sector         string             `json:"sector"`
	Status         NodeStatus         `json:"status"`
	Battery        int                `json:"battery"`
	SignalStrength int                `json:"signalStrength"`
	LastActivity   time.Time          `json:"lastActivity"`
	Location       Location           `json:"location"`
	Role           NodeRole           `json:"type"`
	Alerts         map[AlertKind]bool `json:"alerts"`
}

// AlertActive reports whether the node currently raises the given alert kind.
func (n *Node) AlertActive(kind AlertKind) bool {
	return n.Alerts[kind]
}

// ActiveAlertKinds returns the kinds currently flagged on the node, sorted.
func (n *Node) ActiveAlertKinds() []AlertKind {
	kinds := make([]AlertKind, 0, len(n.Alerts))

	for kind, active := range n.Alerts {
		if active {
			kinds = append(kinds, kind)
		}
	}

	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

// NodeContext is the subset of a node handed to inference prompts.
type NodeContext struct {
	ID       string   `json:"id"`
	Sector   string   `json:"sector"`
	Location Location `json:"location"`
}

// NodeInfo describes the originating node of a single alert summary.
type NodeInfo struct {
	Sector  string     `json:"sector"`
	Status  NodeStatus `json:"status"`
	Battery int        `json:"battery"`
}

// NetworkConnection is an undirected link between two nodes.
type NetworkConnection struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Strength int    `json:"strength"`
}

// PairKey identifies the connection regardless of direction.
func (c NetworkConnection) PairKey() string {
	if c.Source <= c.Target {
		return c.Source + "|" + c.Target
	}

	return c.Target + "|" + c.Source
}

// NetworkStatus holds the feed-provided node counts.
type NetworkStatus struct {
	ActiveNodes int `json:"activeNodes"`
	TotalNodes  int `json:"totalNodes"`
}

// Health returns the active share of nodes as a percentage.
func (s NetworkStatus) Health() float64 {
	if s.TotalNodes <= 0 {
		return 0
	}

	return float64(s.ActiveNodes) / float64(s.TotalNodes) * 100
}
