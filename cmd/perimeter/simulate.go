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
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

const defaultSimulateInterval = 10 * time.Second

var (
	simulateInterval time.Duration
	simulateCount    int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Record random alerts against existing nodes for demos",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}

		st, closeStore, err := rt.openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		return simulate(cmd.Context(), st, rt.log, simulateInterval, simulateCount)
	},
}

func init() {
	simulateCmd.Flags().DurationVar(&simulateInterval, "interval", defaultSimulateInterval, "Delay between alerts")
	simulateCmd.Flags().IntVar(&simulateCount, "count", 0, "Stop after this many alerts (0 runs until interrupted)")
}

// alertRecorder is the part of the store the simulator drives.
type alertRecorder interface {
	Snapshot() *store.Snapshot
	RecordAlert(ctx context.Context, alert models.Alert) error
}

func simulate(ctx context.Context, st alertRecorder, log logrus.FieldLogger, interval time.Duration, count int) error {
	if interval <= 0 {
		interval = defaultSimulateInterval
	}

	r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for sent := 0; count <= 0 || sent < count; {
		nodes := st.Snapshot().Nodes

		ids := make([]string, 0, len(nodes))
		for i := range nodes {
			ids = append(ids, nodes[i].ID)
		}

		if alert, ok := store.RandomAlert(ids, time.Now(), r); ok {
			if err := st.RecordAlert(ctx, alert); err != nil {
				return err
			}

			sent++

			log.WithFields(logrus.Fields{
				"alert_id": alert.ID,
				"node_id":  alert.NodeID,
				"kind":     alert.Kind,
			}).Info("Simulated alert")
		} else {
			log.Warn("No nodes to simulate against; run seed first")
		}

		if count > 0 && sent >= count {
			break
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}

	return nil
}
