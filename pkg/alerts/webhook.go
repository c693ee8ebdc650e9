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

package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/config"
	"github.com/mfreeman451/perimeter/pkg/logger"
)

var (
	ErrWebhookDisabled   = errors.New("webhook alerter is disabled")
	ErrWebhookCooldown   = errors.New("alert is within cooldown period")
	errInvalidJSON       = errors.New("invalid JSON generated")
	errWebhookStatus     = errors.New("webhook returned non-2xx status")
	errTemplateParse     = errors.New("template parsing failed")
	errTemplateExecution = errors.New("template execution failed")
)

const defaultWebhookTimeout = 10 * time.Second

type AlertLevel string

const (
	Info    AlertLevel = "info"
	Warning AlertLevel = "warning"
	Error   AlertLevel = "error"
)

type WebhookAlert struct {
	Level     AlertLevel     `json:"level"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	NodeID    string         `json:"node_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

type WebhookAlerter struct {
	config         config.WebhookConfig
	tmpl           *template.Template
	tmplErr        error
	client         *http.Client
	log            logrus.FieldLogger
	now            func() time.Time
	lastAlertTimes map[string]time.Time
	mu             sync.Mutex
	bufferPool     *sync.Pool
}

// WebhookOption configures a WebhookAlerter.
type WebhookOption func(*WebhookAlerter)

func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *WebhookAlerter) {
		if c != nil {
			w.client = c
		}
	}
}

func WithWebhookLogger(log logrus.FieldLogger) WebhookOption {
	return func(w *WebhookAlerter) {
		w.log = logger.OrDiscard(log).WithField("component", "webhook")
	}
}

func WithWebhookClock(now func() time.Time) WebhookOption {
	return func(w *WebhookAlerter) {
		w.now = now
	}
}

// NewWebhookAlerter builds an alerter for cfg. A template of "discord" selects
// DiscordTemplate; any other non-empty template is parsed as given.
func NewWebhookAlerter(cfg config.WebhookConfig, opts ...WebhookOption) *WebhookAlerter {
	w := &WebhookAlerter{
		config:         cfg,
		client:         &http.Client{Timeout: defaultWebhookTimeout},
		log:            logger.Discard().WithField("component", "webhook"),
		now:            time.Now,
		lastAlertTimes: make(map[string]time.Time),
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}

	for _, opt := range opts {
		opt(w)
	}

	source := cfg.Template
	if strings.EqualFold(source, DiscordTemplateName) {
		source = DiscordTemplate
	}

	if source != "" {
		w.tmpl, w.tmplErr = template.New("webhook").Funcs(w.getTemplateFuncs()).Parse(source)
		if w.tmplErr != nil {
			w.tmplErr = fmt.Errorf("%w: %w", errTemplateParse, w.tmplErr)
			w.log.WithError(w.tmplErr).WithField("url", cfg.URL).Error("Invalid webhook template")
		}
	}

	return w
}

func (w *WebhookAlerter) IsEnabled() bool {
	return w.config.Enabled && w.config.URL != ""
}

func (w *WebhookAlerter) getTemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"json": func(v interface{}) (string, error) {
			buf := w.bufferPool.Get().(*bytes.Buffer)
			buf.Reset()
			defer w.bufferPool.Put(buf)

			enc := json.NewEncoder(buf)
			if err := enc.Encode(v); err != nil {
				return "", fmt.Errorf("JSON marshaling failed: %w", err)
			}

			return strings.TrimSpace(buf.String()), nil
		},
	}
}

func (w *WebhookAlerter) Alert(ctx context.Context, alert *WebhookAlert) error {
	if !w.IsEnabled() {
		w.log.WithField("title", alert.Title).Debug("Webhook alerter disabled, skipping alert")

		return ErrWebhookDisabled
	}

	if err := w.checkCooldown(alert.Title); err != nil {
		return err
	}

	if alert.Timestamp == "" {
		alert.Timestamp = w.now().UTC().Format(time.RFC3339)
	}

	payload, err := w.preparePayload(alert)
	if err != nil {
		return fmt.Errorf("failed to prepare payload: %w", err)
	}

	return w.sendRequest(ctx, payload)
}

// checkCooldown suppresses repeats of the same title inside the cooldown.
func (w *WebhookAlerter) checkCooldown(alertTitle string) error {
	cooldown := w.config.Cooldown.Std()
	if cooldown <= 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()

	lastAlertTime, exists := w.lastAlertTimes[alertTitle]
	if exists && now.Sub(lastAlertTime) < cooldown {
		w.log.WithField("title", alertTitle).Debug("Alert is within cooldown period, skipping")

		return ErrWebhookCooldown
	}

	w.lastAlertTimes[alertTitle] = now

	return nil
}

func (w *WebhookAlerter) preparePayload(alert *WebhookAlert) ([]byte, error) {
	if w.tmplErr != nil {
		return nil, w.tmplErr
	}

	if w.tmpl == nil {
		return json.Marshal(alert)
	}

	buf := w.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer w.bufferPool.Put(buf)

	if err := w.tmpl.Execute(buf, map[string]interface{}{
		"alert": alert,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", errTemplateExecution, err)
	}

	if !json.Valid(buf.Bytes()) {
		return nil, errInvalidJSON
	}

	return append([]byte(nil), buf.Bytes()...), nil
}

func (w *WebhookAlerter) sendRequest(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	w.setHeaders(req)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			w.log.WithError(err).Warn("Failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return fmt.Errorf("%w: status=%d body=%s", errWebhookStatus, resp.StatusCode, body)
	}

	return nil
}

func (w *WebhookAlerter) setHeaders(req *http.Request) {
	hasContentType := false

	for _, header := range w.config.Headers {
		if strings.EqualFold(header.Key, "content-type") {
			hasContentType = true
		}

		req.Header.Set(header.Key, header.Value)
	}

	if !hasContentType {
		req.Header.Set("Content-Type", "application/json")
	}
}
