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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mfreeman451/perimeter/pkg/llm"
	"github.com/mfreeman451/perimeter/pkg/ratelimit"
)

const (
	DefaultListenAddr     = ":8090"
	DefaultHealthAddr     = ":50060"
	DefaultDBPath         = "/var/lib/perimeter/perimeter.db"
	DefaultRetention      = 7 * 24 * time.Hour
	DefaultBucket         = "perimeter"
	DefaultAIBaseURL      = llm.DefaultBaseURL
	DefaultMinInterval    = ratelimit.DefaultInterval
	DefaultMaxRetries     = llm.DefaultMaxRetries
	DefaultBaseBackoff    = llm.DefaultBaseBackoff
	DefaultMaxBackoff     = llm.DefaultMaxBackoff
	DefaultRequestTimeout = 60 * time.Second
	DefaultDebounce       = 3 * time.Second
	DefaultRecentWindow   = time.Hour
	DefaultRecentLimit    = 15
	DefaultReportLimit    = 20
	DefaultUnitID         = "drone1"
	DefaultSettleDelay    = 2 * time.Second
	DefaultCueSeverity    = "warning"
	DefaultBreakerFails   = 3
	DefaultBreakerTimeout = 30 * time.Second

	envPrefix = "PERIMETER_"
)

var errInvalidConfig = errors.New("invalid configuration")

// DefaultModels returns a copy of the client's fallback order.
func DefaultModels() []string {
	return llm.DefaultPolicy().Models
}

// NewDashboardConfig returns a configuration with every default applied.
func NewDashboardConfig() *DashboardConfig {
	cfg := &DashboardConfig{AI: AIConfig{MaxRetries: -1}}
	cfg.ApplyDefaults()

	return cfg
}

func setDuration(d *Duration, def time.Duration) {
	if *d <= 0 {
		*d = Duration(def)
	}
}

func setString(s *string, def string) {
	if *s == "" {
		*s = def
	}
}

// ApplyDefaults fills every zero-valued field.
func (c *DashboardConfig) ApplyDefaults() {
	setString(&c.ListenAddr, DefaultListenAddr)
	setString(&c.HealthAddr, DefaultHealthAddr)
	setString(&c.DBPath, DefaultDBPath)
	setDuration(&c.Retention, DefaultRetention)

	setString(&c.Log.Level, "info")
	setString(&c.Log.Format, "text")

	setString(&c.Feed.Driver, "memory")
	setString(&c.Feed.Bucket, DefaultBucket)

	setString(&c.AI.BaseURL, DefaultAIBaseURL)

	if len(c.AI.Models) == 0 {
		c.AI.Models = DefaultModels()
	}

	setDuration(&c.AI.MinInterval, DefaultMinInterval)
	setDuration(&c.AI.BaseBackoff, DefaultBaseBackoff)
	setDuration(&c.AI.MaxBackoff, DefaultMaxBackoff)
	setDuration(&c.AI.RequestTimeout, DefaultRequestTimeout)

	// zero retries is a valid setting, negative means unset
	if c.AI.MaxRetries < 0 {
		c.AI.MaxRetries = DefaultMaxRetries
	}

	setDuration(&c.Insight.Debounce, DefaultDebounce)
	setDuration(&c.Insight.RecentWindow, DefaultRecentWindow)

	if c.Insight.RecentLimit == 0 {
		c.Insight.RecentLimit = DefaultRecentLimit
	}

	if c.Insight.ReportLimit == 0 {
		c.Insight.ReportLimit = DefaultReportLimit
	}

	setString(&c.Dispatch.UnitID, DefaultUnitID)
	setDuration(&c.Dispatch.SettleDelay, DefaultSettleDelay)
	setString(&c.Dispatch.MinCueSeverity, DefaultCueSeverity)

	if c.Dispatch.Breaker.MaxFailures == 0 {
		c.Dispatch.Breaker.MaxFailures = DefaultBreakerFails
	}

	setDuration(&c.Dispatch.Breaker.OpenTimeout, DefaultBreakerTimeout)
}

// Validate checks struct tags and the cross-field duration constraints.
func (c *DashboardConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", errInvalidConfig, err)
	}

	if c.AI.BaseBackoff > c.AI.MaxBackoff {
		return fmt.Errorf("%w: ai.base_backoff %s exceeds ai.max_backoff %s",
			errInvalidConfig, c.AI.BaseBackoff.Std(), c.AI.MaxBackoff.Std())
	}

	for i := range c.Webhooks {
		if c.Webhooks[i].Enabled && c.Webhooks[i].URL == "" {
			return fmt.Errorf("%w: webhooks[%d] is enabled without a url", errInvalidConfig, i)
		}
	}

	return nil
}

// ApplyEnv overrides file values with PERIMETER_* environment variables.
func (c *DashboardConfig) ApplyEnv(env *EnvLoader) error {
	c.ListenAddr = env.GetString("LISTEN_ADDR", c.ListenAddr)
	c.HealthAddr = env.GetString("HEALTH_ADDR", c.HealthAddr)
	c.DBPath = env.GetString("DB_PATH", c.DBPath)
	c.Log.Level = env.GetString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = env.GetString("LOG_FORMAT", c.Log.Format)
	c.Feed.Driver = env.GetString("FEED_DRIVER", c.Feed.Driver)
	c.Feed.NATSURL = env.GetString("NATS_URL", c.Feed.NATSURL)
	c.Feed.Bucket = env.GetString("FEED_BUCKET", c.Feed.Bucket)
	c.SeedIfEmpty = env.GetBool("SEED_IF_EMPTY", c.SeedIfEmpty)

	c.AI.APIKey = env.GetString("AI_API_KEY", c.AI.APIKey)
	if c.AI.APIKey == "" {
		c.AI.APIKey = env.Lookup("GEMINI_API_KEY")
	}

	c.AI.BaseURL = env.GetString("AI_BASE_URL", c.AI.BaseURL)

	if models := env.GetString("AI_MODELS", ""); models != "" {
		c.AI.Models = splitList(models)
	}

	debounce, err := env.GetDuration("DEBOUNCE", c.Insight.Debounce.Std())
	if err != nil {
		return fmt.Errorf("%w: PERIMETER_DEBOUNCE: %w", errInvalidDuration, err)
	}

	c.Insight.Debounce = Duration(debounce)

	return nil
}

// Load reads path (when non-empty), applies the environment and defaults,
// and validates the result.
func Load(path string, env *EnvLoader) (*DashboardConfig, error) {
	cfg := &DashboardConfig{AI: AIConfig{MaxRetries: -1}}

	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if env != nil {
		if err := cfg.ApplyEnv(env); err != nil {
			return nil, err
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
