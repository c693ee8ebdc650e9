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

package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/mfreeman451/perimeter/pkg/logger"
)

// DefaultBaseURL is the OpenAI-compatible endpoint of the Gemini API.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

const defaultRequestTimeout = 30 * time.Second

// OpenAIBackend calls an OpenAI-compatible chat completions endpoint.
type OpenAIBackend struct {
	client  *openai.Client
	timeout time.Duration
	log     logrus.FieldLogger
}

// BackendConfig configures an OpenAIBackend.
type BackendConfig struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	HTTPClient     *http.Client
}

// NewOpenAIBackend returns ErrNotConfigured when no API key is set.
func NewOpenAIBackend(cfg BackendConfig, log logrus.FieldLogger) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	oc := openai.DefaultConfig(cfg.APIKey)

	oc.BaseURL = cfg.BaseURL
	if oc.BaseURL == "" {
		oc.BaseURL = DefaultBaseURL
	}

	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	l := logger.OrDiscard(log).WithField("component", "llm")
	l.WithFields(logrus.Fields{"base_url": oc.BaseURL, "configured": true}).Info("Initializing generative backend")

	return &OpenAIBackend{
		client:  openai.NewClientWithConfig(oc),
		timeout: timeout,
		log:     l,
	}, nil
}

// Generate sends the prompt as a single user message.
func (b *OpenAIBackend) Generate(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return Response{}, wrapBackendError(req.Model, err)
	}

	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("%w: model %s", ErrEmptyResponse, req.Model)
	}

	b.log.WithFields(logrus.Fields{
		"model":         req.Model,
		"finish_reason": resp.Choices[0].FinishReason,
	}).Debug("Received generated text")

	return Response{Text: resp.Choices[0].Message.Content}, nil
}

// wrapBackendError attaches the matching sentinel so callers can use errors.Is.
func wrapBackendError(model string, err error) error {
	code, ok := statusCode(err)
	if !ok {
		return fmt.Errorf("model %s: %w", model, err)
	}

	switch code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: model %s: %w", ErrThrottled, model, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: model %s: %w", ErrModelUnavailable, model, err)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	default:
		return fmt.Errorf("model %s: %w", model, err)
	}
}
