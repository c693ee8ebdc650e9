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

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/mfreeman451/perimeter/pkg/models"
)

var promptFuncs = template.FuncMap{
	"iso":  func(t time.Time) string { return t.UTC().Format("2006-01-02T15:04:05.000Z") },
	"inc":  func(i int) int { return i + 1 },
	"dflt": orDefault,
	"loc":  func(l *models.Location) string {
		if l == nil {
			return "N/A"
		}

		return fmt.Sprintf("%.4f, %.4f", l.Lat, l.Lng)
	},
	"sev":  func(s models.Severity) string { return orDefault(string(s), "unknown") },
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}

var threatTmpl = template.Must(template.New("threat").Funcs(promptFuncs).Parse(
	`You are an AI security analyst for a perimeter defense system.
Analyze the following alerts from sensor nodes and provide a comprehensive threat assessment.

ALERT DATA:
{{range $i, $a := .Alerts}}
Alert {{inc $i}}:
- Type: {{$a.Kind}}
- Node: {{$a.NodeID}} ({{dflt $a.Sector "Unknown Sector"}})
- Time: {{iso $a.Timestamp}}
- Location: {{loc $a.Location}}
- Severity: {{sev $a.Severity}}
{{end}}
NODE INFORMATION:
{{range .Nodes}}- {{.ID}}: {{.Sector}} at ({{.Location.Lat}}, {{.Location.Lng}})
{{end}}
Provide your analysis in the following JSON format (respond ONLY with valid JSON, no markdown):
{
  "threatLevel": "low|medium|high|critical",
  "summary": "Brief 2-3 sentence summary of the threat situation",
  "recommendations": ["Action 1", "Action 2", "Action 3"],
  "correlatedAlerts": ["Description of how alerts correlate"],
  "patternAnalysis": "Analysis of patterns across alerts",
  "estimatedRisk": "Risk assessment with reasoning",
  "confidence": 85
}

Consider:
1. Alert types and their severity (gun, fire, help are critical)
2. Geographic proximity of alerts
3. Temporal patterns (alerts happening close in time)
4. Potential coordinated attacks
5. False positive likelihood
6. Recommended immediate actions for perimeter defense

Respond ONLY with valid JSON, no markdown formatting, no code blocks.`))

var summaryTmpl = template.Must(template.New("summary").Funcs(promptFuncs).Parse(
	`Generate a concise, professional alert summary for a perimeter security system.

Alert Type: {{.Alert.Kind}}
Node: {{.Alert.NodeID}}
Sector: {{.Node.Sector}}
Node Status: {{.Node.Status}}
Battery: {{.Node.Battery}}%

Create a 2-3 sentence summary that:
- Describes the alert clearly
- Provides context about the location
- Indicates urgency level
- Uses professional military terminology

Keep it concise and actionable.`))

var recommendTmpl = template.Must(template.New("recommend").Funcs(promptFuncs).Parse(
	`You are a tactical decision support system for a ground control station.

CURRENT SITUATION:
- Active Alerts: {{len .Alerts}}
- Alert Types: {{.AlertKinds}}
- Network Status: {{.Network.ActiveNodes}}/{{.Network.TotalNodes}} nodes active
- Available Drones: {{.Available}}
- Drone Status: {{.FleetLine}}

Provide 3-5 immediate action recommendations in priority order.
Consider:
1. Alert severity and patterns
2. Available resources (drones, nodes)
3. Standard operating procedures for perimeter defense
4. Resource allocation efficiency

Format as a numbered list of actionable recommendations.`))

var anomalyTmpl = template.Must(template.New("anomaly").Funcs(promptFuncs).Parse(
	`Analyze if the following alert pattern is anomalous compared to normal operations.

RECENT ALERTS:
{{range .Alerts}}- {{.Kind}} at {{.NodeID}} ({{iso .Timestamp}})
{{end}}
HISTORICAL PATTERN:
{{.History}}

Determine if this is an anomaly. Consider:
- Alert frequency vs normal
- Alert types and combinations
- Geographic distribution
- Temporal clustering

Respond in JSON format (ONLY JSON, no markdown):
{
  "isAnomaly": true,
  "explanation": "Brief explanation",
  "confidence": 0,
  "suggestedActions": ["Action 1", "Action 2"]
}`))

var reportTmpl = template.Must(template.New("report").Funcs(promptFuncs).Parse(
	`Generate a professional daily intelligence report for a perimeter defense system.

STATISTICS:
- Total Alerts: {{.Metrics.TotalAlerts}}
- Critical Alerts: {{.Metrics.CriticalAlerts}}
- Nodes Online: {{.Metrics.NodesOnline}}
- Average Response Time: {{.Metrics.AvgResponseTime}}ms

ALERT BREAKDOWN:
{{range .Alerts}}- {{.Kind}} at {{.NodeID}} ({{dflt .Sector "Unknown"}})
{{end}}
Create a comprehensive report with:
1. Executive Summary
2. Alert Analysis
3. Threat Assessment
4. Recommendations
5. Network Status

Use professional military reporting format.`))

var patternsTmpl = template.Must(template.New("patterns").Funcs(promptFuncs).Parse(
	`Analyze alert patterns and trends for a perimeter defense system.

ALERTS (Last {{.Window}}):
{{range .Alerts}}- {{.Kind}} at {{.NodeID}} in {{dflt .Sector "Unknown"}} ({{iso .Timestamp}})
{{end}}
Provide analysis on:
1. Alert frequency trends
2. Most common alert types
3. Geographic hotspots
4. Temporal patterns
5. Potential security concerns

Format as a structured analysis report.`))

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder

	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w %s: %w", errRenderPrompt, t.Name(), err)
	}

	return b.String(), nil
}

func alertKinds(alerts []models.AlertContext) string {
	kinds := make([]string, 0, len(alerts))
	for i := range alerts {
		kinds = append(kinds, string(alerts[i].Kind))
	}

	return strings.Join(kinds, ", ")
}

func fleetLine(units []models.FleetUnit) (line string, available int) {
	parts := make([]string, 0, len(units))

	for i := range units {
		u := &units[i]
		if u.Status == models.UnitOnStation {
			available++
		}

		parts = append(parts, fmt.Sprintf("%s: %s (%d%% battery)", u.ID, u.Status, u.Battery))
	}

	return strings.Join(parts, ", "), available
}
