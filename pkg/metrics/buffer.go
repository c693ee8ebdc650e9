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

package metrics

import (
	"sync"
	"time"

	"github.com/mfreeman451/perimeter/pkg/models"
)

// DefaultResponseWindow is the number of decisions kept for the average.
const DefaultResponseWindow = 100

// responsePoint is the packed form kept in the ring.
type responsePoint struct {
	timestamp    int64
	responseTime int64
	decision     models.PromptDecision
}

// RingBuffer keeps the most recent operator decision latencies.
type RingBuffer struct {
	mu     sync.RWMutex
	points []responsePoint
	pos    int64
	size   int64
}

// NewBuffer creates a ResponseStore holding size points.
func NewBuffer(size int) ResponseStore {
	if size <= 0 {
		size = DefaultResponseWindow
	}

	return &RingBuffer{
		points: make([]responsePoint, size),
		size:   int64(size),
	}
}

// AddResponse appends p, overwriting the oldest point once full.
func (b *RingBuffer) AddResponse(p models.ResponsePoint) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.pos % b.size
	b.points[idx] = responsePoint{
		timestamp:    p.Timestamp.UnixNano(),
		responseTime: p.ResponseTime,
		decision:     p.Decision,
	}
	b.pos++
}

// Points returns the stored points, newest first.
func (b *RingBuffer) Points() []models.ResponsePoint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := b.filled()
	points := make([]models.ResponsePoint, 0, n)

	for i := int64(0); i < n; i++ {
		idx := (b.pos - i - 1 + b.size) % b.size
		p := b.points[idx]

		points = append(points, models.ResponsePoint{
			Timestamp:    time.Unix(0, p.timestamp),
			ResponseTime: p.responseTime,
			Decision:     p.decision,
		})
	}

	return points
}

// Last returns the newest point, or nil when empty.
func (b *RingBuffer) Last() *models.ResponsePoint {
	points := b.Points()
	if len(points) == 0 {
		return nil
	}

	return &points[0]
}

// AverageResponseTime is the mean latency in milliseconds, 0 when empty.
func (b *RingBuffer) AverageResponseTime() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := b.filled()
	if n == 0 {
		return 0
	}

	var sum int64

	for i := int64(0); i < n; i++ {
		sum += b.points[i].responseTime
	}

	return sum / n
}

func (b *RingBuffer) filled() int64 {
	if b.pos < b.size {
		return b.pos
	}

	return b.size
}
