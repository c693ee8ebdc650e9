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

// Package store pkg/store/interfaces.go
package store

import (
	"github.com/mfreeman451/perimeter/pkg/models"
)

// Observer receives delivery statistics. Implementations must not block.
type Observer interface {
	FeedDelivered(path string, records int)
	FireTriggered(nodeID string)
}

type (
	NodesFunc         func([]models.Node)
	AlertsFunc        func([]models.Alert)
	ConnectionsFunc   func([]models.NetworkConnection)
	NetworkStatusFunc func(models.NetworkStatus)
	FireFunc          func(models.FireEvent)
)

// Unsubscribe removes a listener. Calling it more than once is harmless.
type Unsubscribe func()
