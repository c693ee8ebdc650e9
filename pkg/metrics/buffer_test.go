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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/perimeter/pkg/models"
)

func TestRingBuffer(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		b := NewBuffer(3)

		assert.Empty(t, b.Points())
		assert.Nil(t, b.Last())
		assert.Zero(t, b.AverageResponseTime())
	})

	t.Run("newest first and wraps", func(t *testing.T) {
		b := NewBuffer(3)

		for i := 1; i <= 5; i++ {
			b.AddResponse(models.ResponsePoint{
				Timestamp:    start.Add(time.Duration(i) * time.Second),
				ResponseTime: int64(i * 1000),
				Decision:     models.DecisionDeploy,
			})
		}

		points := b.Points()
		require.Len(t, points, 3)
		assert.Equal(t, int64(5000), points[0].ResponseTime)
		assert.Equal(t, int64(3000), points[2].ResponseTime)
		assert.True(t, points[0].Timestamp.Equal(start.Add(5*time.Second)))

		last := b.Last()
		require.NotNil(t, last)
		assert.Equal(t, int64(5000), last.ResponseTime)

		// Average over 3, 4 and 5 seconds.
		assert.Equal(t, int64(4000), b.AverageResponseTime())
	})

	t.Run("non-positive size falls back to default", func(t *testing.T) {
		b := NewBuffer(0).(*RingBuffer)
		assert.Equal(t, int64(DefaultResponseWindow), b.size)
	})

	t.Run("concurrent access", func(t *testing.T) {
		b := NewBuffer(50)

		var wg sync.WaitGroup

		const goroutines = 10

		const iterations = 100

		for i := 0; i < goroutines; i++ {
			wg.Add(1)

			go func(id int) {
				defer wg.Done()

				for j := 0; j < iterations; j++ {
					b.AddResponse(models.ResponsePoint{Timestamp: time.Now(), ResponseTime: int64(id*1000 + j)})
					_ = b.AverageResponseTime()
				}
			}(i)
		}

		wg.Wait()
		assert.Len(t, b.Points(), 50)
	})
}

func BenchmarkRingBuffer(b *testing.B) {
	buffer := NewBuffer(1000)
	now := time.Now()

	b.Run("Add", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			buffer.AddResponse(models.ResponsePoint{Timestamp: now, ResponseTime: int64(i)})
		}
	})

	b.Run("Points", func(b *testing.B) {
		for i := 0; i < 1000; i++ {
			buffer.AddResponse(models.ResponsePoint{Timestamp: now, ResponseTime: int64(i)})
		}

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = buffer.Points()
		}
	})
}
