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

package insight

import "github.com/mfreeman451/perimeter/pkg/models"

// AlertContexts joins each alert with its node's sector and location.
// Alerts whose node is unknown keep empty node fields.
func AlertContexts(alerts []models.Alert, nodes []models.Node) []models.AlertContext {
	byID := make(map[string]*models.Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	out := make([]models.AlertContext, 0, len(alerts))

	for i := range alerts {
		a := &alerts[i]
		ac := models.AlertContext{
			Kind:      a.Kind,
			NodeID:    a.NodeID,
			Timestamp: a.Timestamp,
			Severity:  a.Severity,
		}

		if n, ok := byID[a.NodeID]; ok {
			loc := n.Location
			ac.Sector = n.Sector
			ac.Location = &loc
		}

		out = append(out, ac)
	}

	return out
}

// NodeContexts projects nodes onto the fields inference prompts use.
func NodeContexts(nodes []models.Node) []models.NodeContext {
	out := make([]models.NodeContext, 0, len(nodes))

	for i := range nodes {
		out = append(out, models.NodeContext{
			ID:       nodes[i].ID,
			Sector:   nodes[i].Sector,
			Location: nodes[i].Location,
		})
	}

	return out
}

// NodeInfoFor returns the summary inputs for nodeID, or zero values.
func NodeInfoFor(nodes []models.Node, nodeID string) models.NodeInfo {
	for i := range nodes {
		if nodes[i].ID == nodeID {
			return models.NodeInfo{
				Sector:  nodes[i].Sector,
				Status:  nodes[i].Status,
				Battery: nodes[i].Battery,
			}
		}
	}

	return models.NodeInfo{Sector: "Unknown Sector"}
}

// ReportMetricsFor computes the headline numbers of a report. avgResponse
// is the mean operator decision latency in milliseconds.
func ReportMetricsFor(alerts []models.Alert, status models.NetworkStatus, avgResponse int64) models.ReportMetrics {
	m := models.ReportMetrics{
		TotalAlerts:     len(alerts),
		NodesOnline:     status.ActiveNodes,
		AvgResponseTime: avgResponse,
	}

	for i := range alerts {
		if alerts[i].Severity == models.SeverityCritical {
			m.CriticalAlerts++
		}
	}

	return m
}
