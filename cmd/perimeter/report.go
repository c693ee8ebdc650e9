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

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfreeman451/perimeter/pkg/db"
	"github.com/mfreeman451/perimeter/pkg/insight"
	"github.com/mfreeman451/perimeter/pkg/models"
)

const defaultReportSince = 24 * time.Hour

var (
	reportSince    time.Duration
	reportPatterns string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate an intelligence report from archived alerts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}

		archive, err := db.New(rt.cfg.DBPath, db.WithLogger(rt.log))
		if err != nil {
			return err
		}
		defer func() { _ = archive.Close() }()

		st, closeStore, err := rt.openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		snap := st.Snapshot()

		return writeReport(cmd.Context(), cmd.OutOrStdout(), &reportInput{
			analyst:  rt.newOrchestrator(nil),
			archive:  archive,
			nodes:    snap.Nodes,
			status:   snap.NetworkStatus,
			since:    reportSince,
			patterns: reportPatterns,
			now:      time.Now(),
		})
	},
}

func init() {
	reportCmd.Flags().DurationVar(&reportSince, "since", defaultReportSince, "How far back to read the archive")
	reportCmd.Flags().StringVar(&reportPatterns, "patterns", "", "Also analyze patterns over hour, day or week")
}

type reportAnalyst interface {
	GenerateReport(ctx context.Context, alerts []models.AlertContext, metrics models.ReportMetrics) (string, error)
	AnalyzeAlertPatterns(ctx context.Context, alerts []models.AlertContext, window models.PatternWindow) (string, error)
}

type reportArchive interface {
	RecentAlerts(ctx context.Context, since time.Time, limit int) ([]models.Alert, error)
}

type reportInput struct {
	analyst  reportAnalyst
	archive  reportArchive
	nodes    []models.Node
	status   models.NetworkStatus
	since    time.Duration
	patterns string
	now      time.Time
}

// writeReport prints the report, and the pattern analysis when asked for.
// Degraded inference still prints the default text.
func writeReport(ctx context.Context, w io.Writer, in *reportInput) error {
	// every archived alert counts towards the metrics; the analyst caps
	// how many reach the prompt
	alerts, err := in.archive.RecentAlerts(ctx, in.now.Add(-in.since), 0)
	if err != nil {
		return err
	}

	metrics := insight.ReportMetricsFor(alerts, in.status, 0)

	report, err := in.analyst.GenerateReport(ctx, insight.AlertContexts(alerts, in.nodes), metrics)
	if _, werr := fmt.Fprintf(w, "%s\n", report); werr != nil {
		return werr
	}

	if err != nil {
		fmt.Fprintf(w, "\n(report degraded: %v)\n", err)
	}

	if in.patterns == "" {
		return nil
	}

	window := models.ParsePatternWindow(in.patterns)
	windowed := insight.RecencyWindow{Window: window.Duration()}.Apply(alerts, in.now)

	text, err := in.analyst.AnalyzeAlertPatterns(ctx, insight.AlertContexts(windowed, in.nodes), window)
	if _, werr := fmt.Fprintf(w, "\nPatterns (%s):\n%s\n", window, text); werr != nil {
		return werr
	}

	if err != nil {
		fmt.Fprintf(w, "\n(pattern analysis degraded: %v)\n", err)
	}

	return nil
}
