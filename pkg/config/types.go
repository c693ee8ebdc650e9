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

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %w", errInvalidDuration, err)
	}

	dur, err := time.ParseDuration(raw)
	if err != nil {
		var ns int64
		if nErr := node.Decode(&ns); nErr != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		dur = time.Duration(ns)
	}

	*d = Duration(dur)

	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DashboardConfig represents the configuration for the dashboard daemon.
type DashboardConfig struct {
	ListenAddr  string          `json:"listen_addr" yaml:"listen_addr" validate:"required"`
	HealthAddr  string          `json:"health_addr,omitempty" yaml:"health_addr"`
	DBPath      string          `json:"db_path" yaml:"db_path" validate:"required"`
	Retention   Duration        `json:"retention" yaml:"retention"`
	SeedIfEmpty bool            `json:"seed_if_empty" yaml:"seed_if_empty"`
	Log         LogConfig       `json:"log" yaml:"log"`
	Feed        FeedConfig      `json:"feed" yaml:"feed"`
	AI          AIConfig        `json:"ai" yaml:"ai"`
	Insight     InsightConfig   `json:"insight" yaml:"insight"`
	Dispatch    DispatchConfig  `json:"dispatch" yaml:"dispatch"`
	Webhooks    []WebhookConfig `json:"webhooks,omitempty" yaml:"webhooks" validate:"dive"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

// FeedConfig selects the realtime feed backend.
type FeedConfig struct {
	Driver         string   `json:"driver" yaml:"driver" validate:"oneof=memory nats"`
	NATSURL        string   `json:"nats_url,omitempty" yaml:"nats_url" validate:"required_if=Driver nats"`
	Bucket         string   `json:"bucket,omitempty" yaml:"bucket"`
	FireWatchNodes []string `json:"fire_watch_nodes,omitempty" yaml:"fire_watch_nodes"`
}

// AIConfig configures the generative backend. The api key is normally
// supplied through the environment rather than the file.
type AIConfig struct {
	APIKey         string   `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL        string   `json:"base_url" yaml:"base_url" validate:"omitempty,url"`
	Models         []string `json:"models" yaml:"models" validate:"min=1,dive,required"`
	MinInterval    Duration `json:"min_interval" yaml:"min_interval"`
	MaxRetries     int      `json:"max_retries" yaml:"max_retries" validate:"min=0,max=10"`
	BaseBackoff    Duration `json:"base_backoff" yaml:"base_backoff"`
	MaxBackoff     Duration `json:"max_backoff" yaml:"max_backoff"`
	RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
}

// Configured reports whether a backend credential is present.
func (c *AIConfig) Configured() bool {
	return c.APIKey != ""
}

type InsightConfig struct {
	Debounce     Duration `json:"debounce" yaml:"debounce"`
	RecentWindow Duration `json:"recent_window" yaml:"recent_window"`
	RecentLimit  int      `json:"recent_limit" yaml:"recent_limit" validate:"min=0"`
	ReportLimit  int      `json:"report_limit" yaml:"report_limit" validate:"min=0"`
}

type DispatchConfig struct {
	UnitID         string        `json:"unit_id" yaml:"unit_id" validate:"required"`
	SettleDelay    Duration      `json:"settle_delay" yaml:"settle_delay"`
	MinCueSeverity string        `json:"min_cue_severity" yaml:"min_cue_severity" validate:"oneof=info warning critical"`
	Breaker        BreakerConfig `json:"breaker" yaml:"breaker"`
}

type BreakerConfig struct {
	MaxFailures uint32   `json:"max_failures" yaml:"max_failures"`
	OpenTimeout Duration `json:"open_timeout" yaml:"open_timeout"`
}

// WebhookConfig represents a webhook notification configuration.
type WebhookConfig struct {
	Enabled  bool     `json:"enabled" yaml:"enabled"`
	URL      string   `json:"url" yaml:"url" validate:"omitempty,url"`
	Cooldown Duration `json:"cooldown" yaml:"cooldown"`
	Template string   `json:"template,omitempty" yaml:"template"`
	Headers  []Header `json:"headers,omitempty" yaml:"headers"`
}

// Header represents a custom HTTP header.
type Header struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}
