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
	"github.com/spf13/cobra"
)

var seedIfEmpty bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the demo nodes, alerts and connections to the feed",
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

		if seedIfEmpty {
			seeded, err := st.SeedIfEmpty(cmd.Context())
			if err != nil {
				return err
			}

			rt.log.WithField("seeded", seeded).Info("Seed check complete")

			return nil
		}

		if err := st.Seed(cmd.Context()); err != nil {
			return err
		}

		rt.log.Info("Demo data written")

		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedIfEmpty, "if-empty", false, "Only seed when the feed has no nodes")
}
