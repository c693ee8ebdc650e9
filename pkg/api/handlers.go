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

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mfreeman451/perimeter/pkg/dispatch"
	"github.com/mfreeman451/perimeter/pkg/fleet"
	"github.com/mfreeman451/perimeter/pkg/llm"
	"github.com/mfreeman451/perimeter/pkg/models"
	"github.com/mfreeman451/perimeter/pkg/store"
)

const (
	maxBodyBytes           = 1 << 20
	defaultDeploymentLimit = 50
)

var (
	errUnavailable = errors.New("not available")
	errNotFound    = errors.New("not found")
)

type createNodeRequest struct {
	ID             string          `json:"id"`
	Name           string          `json:"name" validate:"required"`
	Sector         string          `json:"sector"`
	Status         string          `json:"status" validate:"omitempty,oneof=online offline"`
	Battery        int             `json:"battery" validate:"gte=0,lte=100"`
	SignalStrength int             `json:"signalStrength" validate:"gte=0,lte=100"`
	Location       models.Location `json:"location"`
	Role           string          `json:"type"`
}

type createAlertRequest struct {
	ID          string `json:"id"`
	Kind        string `json:"type" validate:"required"`
	NodeID      string `json:"nodeId"`
	Description string `json:"description"`
	Severity    string `json:"severity" validate:"omitempty,oneof=info warning critical"`
}

type connectionRequest struct {
	Source   string `json:"source" validate:"required"`
	Target   string `json:"target" validate:"required,nefield=Source"`
	Strength int    `json:"strength" validate:"gte=0,lte=100"`
}

type alertFlagRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// degradation tells the operator a default stood in for model output.
// A rate-limited backend gets its own flag and message so the client can
// ask the operator to wait instead of reporting a failure.
type degradation struct {
	Degraded    bool   `json:"degraded"`
	RateLimited bool   `json:"rateLimited,omitempty"`
	Message     string `json:"message,omitempty"`
}

func degradationFor(err error) degradation {
	if err == nil {
		return degradation{}
	}

	if errors.Is(err, llm.ErrRateLimited) {
		return degradation{Degraded: true, RateLimited: true, Message: llm.RateLimitedMessage}
	}

	return degradation{Degraded: true}
}

type textResponse struct {
	Text string `json:"text"`
	degradation
}

func (s *APIServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("Error encoding response")
	}
}

func (s *APIServer) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *APIServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, err)

		return false
	}

	if err := s.validate.Struct(v); err != nil {
		s.writeError(w, http.StatusBadRequest, err)

		return false
	}

	return true
}

func (s *APIServer) getNodes(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg.State.Snapshot().Nodes)
}

func (s *APIServer) getNode(w http.ResponseWriter, r *http.Request) {
	nodeID := mux.Vars(r)["id"]

	node, ok := s.cfg.State.Snapshot().Node(nodeID)
	if !ok {
		s.writeError(w, http.StatusNotFound, errNotFound)

		return
	}

	s.writeJSON(w, http.StatusOK, node)
}

func (s *APIServer) createNode(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if !s.decode(w, r, &req) {
		return
	}

	node, err := s.cfg.State.CreateNode(r.Context(), &models.Node{
		ID:             req.ID,
		Name:           req.Name,
		Sector:         req.Sector,
		Status:         models.NodeStatus(req.Status),
		Battery:        req.Battery,
		SignalStrength: req.SignalStrength,
		Location:       req.Location,
		Role:           models.NodeRole(req.Role),
	})
	if err != nil {
		s.writeError(w, statusFor(err), err)

		return
	}

	s.writeJSON(w, http.StatusCreated, node)
}

func (s *APIServer) setNodeAlertFlag(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req alertFlagRequest
	if !s.decode(w, r, &req) {
		return
	}

	if _, ok := s.cfg.State.Snapshot().Node(vars["id"]); !ok {
		s.writeError(w, http.StatusNotFound, errNotFound)

		return
	}

	err := s.cfg.State.SetNodeAlertFlag(r.Context(), vars["id"], models.AlertKind(vars["kind"]), *req.Active)
	if err != nil {
		s.writeError(w, statusFor(err), err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) getAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.cfg.State.Snapshot().Alerts

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, errors.New("invalid limit"))

			return
		}

		if limit < len(alerts) {
			alerts = alerts[:limit]
		}
	}

	s.writeJSON(w, http.StatusOK, alerts)
}

func (s *APIServer) createAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if !s.decode(w, r, &req) {
		return
	}

	alert := models.Alert{
		ID:          req.ID,
		Kind:        models.AlertKind(req.Kind),
		NodeID:      req.NodeID,
		Timestamp:   s.now(),
		Description: req.Description,
		Severity:    models.Severity(req.Severity),
	}

	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}

	if err := s.cfg.State.RecordAlert(r.Context(), alert); err != nil {
		s.writeError(w, statusFor(err), err)

		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{"id": alert.ID})
}

func (s *APIServer) getConnections(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg.State.Snapshot().Connections)
}

func (s *APIServer) createConnection(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if !s.decode(w, r, &req) {
		return
	}

	key, err := s.cfg.State.AddConnection(r.Context(), models.NetworkConnection(req))
	if err != nil {
		s.writeError(w, statusFor(err), err)

		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (s *APIServer) getNetworkStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg.State.Snapshot().NetworkStatus)
}

func (s *APIServer) getFleet(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg.Fleet.Summary())
}

func (s *APIServer) getSystemStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.cfg.State.Snapshot()

	s.writeJSON(w, http.StatusOK, fleet.SystemStatus(s.cfg.Fleet.Summary(), snap.NetworkStatus, snap.Alerts))
}

func (s *APIServer) getPrompt(w http.ResponseWriter, _ *http.Request) {
	p, ok := s.cfg.Dispatcher.CurrentPrompt()
	if !ok {
		w.WriteHeader(http.StatusNoContent)

		return
	}

	s.writeJSON(w, http.StatusOK, p)
}

func (s *APIServer) deploy(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Dispatcher.Deploy(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, statusFor(err), err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) dismiss(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Dispatcher.Dismiss(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, statusFor(err), err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *APIServer) getDeployments(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Archive == nil {
		s.writeError(w, http.StatusServiceUnavailable, errUnavailable)

		return
	}

	limit := defaultDeploymentLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, errors.New("invalid limit"))

			return
		}

		limit = n
	}

	deployments, err := s.cfg.Archive.Deployments(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)

		return
	}

	if deployments == nil {
		deployments = []models.Deployment{}
	}

	s.writeJSON(w, http.StatusOK, deployments)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dispatch.ErrNoPrompt), errors.Is(err, fleet.ErrUnknownUnit):
		return http.StatusNotFound
	case errors.Is(err, dispatch.ErrDeployInProgress), errors.Is(err, dispatch.ErrUnitUnavailable):
		return http.StatusConflict
	case errors.Is(err, dispatch.ErrBreakerOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, dispatch.ErrDeployFailed), errors.Is(err, store.ErrActivation):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrInvalidNode), errors.Is(err, store.ErrInvalidAlert),
		errors.Is(err, store.ErrInvalidConn):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
