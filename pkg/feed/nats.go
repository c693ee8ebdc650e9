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

package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const keySeparator = "."

// NATSConfig selects the server and key-value bucket backing the feed.
type NATSConfig struct {
	URL    string
	Bucket string
}

// NATSSource is a Source backed by a JetStream key-value bucket. Feed paths
// map to keys by replacing "/" with "."; every subscription keeps a local
// mirror of the bucket rebuilt from the watch stream.
type NATSSource struct {
	nc     *nats.Conn
	kv     nats.KeyValue
	log    logrus.FieldLogger
	newKey func() string

	mu       sync.Mutex
	watchers map[*natsWatch]struct{}
	closed   bool
}

type natsWatch struct {
	watcher nats.KeyWatcher
	done    chan struct{}
	once    sync.Once
}

func (w *natsWatch) stop() {
	w.once.Do(func() {
		close(w.done)
		_ = w.watcher.Stop()
	})
}

// NewNATSSource connects to NATS and opens (or creates) the bucket.
func NewNATSSource(cfg NATSConfig, log logrus.FieldLogger) (*NATSSource, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("perimeter-feed"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNATSConnect, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("%w: %w", ErrNATSConnect, err)
	}

	kv, err := js.KeyValue(cfg.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      cfg.Bucket,
			Description: "perimeter realtime feed",
			History:     1,
		})
	}

	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("%w %s: %w", ErrBucket, cfg.Bucket, err)
	}

	return newNATSSourceWithKV(nc, kv, log), nil
}

func newNATSSourceWithKV(nc *nats.Conn, kv nats.KeyValue, log logrus.FieldLogger) *NATSSource {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &NATSSource{
		nc:       nc,
		kv:       kv,
		log:      log.WithField("component", "feed.nats"),
		newKey:   newPushKey,
		watchers: make(map[*natsWatch]struct{}),
	}
}

func toKey(segs []string) string {
	return strings.Join(segs, keySeparator)
}

func fromKey(key string) []string {
	return strings.Split(key, keySeparator)
}

func decodeEntry(data []byte) interface{} {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}

	return v
}

func (n *NATSSource) Subscribe(path string, fn func(json.RawMessage)) (Unsubscribe, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, ErrClosed
	}

	watcher, err := n.kv.WatchAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errWatchFailed, err)
	}

	w := &natsWatch{watcher: watcher, done: make(chan struct{})}
	n.watchers[w] = struct{}{}

	go n.run(w, segs, fn)

	return func() {
		w.stop()

		n.mu.Lock()
		delete(n.watchers, w)
		n.mu.Unlock()
	}, nil
}

func (n *NATSSource) run(w *natsWatch, segs []string, fn func(json.RawMessage)) {
	var (
		mirror interface{}
		last   json.RawMessage
		ready  bool
	)

	deliver := func() {
		payload := encode(getValue(mirror, segs))
		if last != nil && bytes.Equal(payload, last) {
			return
		}

		last = payload

		select {
		case <-w.done:
		default:
			fn(payload)
		}
	}

	for {
		select {
		case <-w.done:
			return
		case entry, ok := <-w.watcher.Updates():
			if !ok {
				return
			}

			// nil marks the end of the initial replay
			if entry == nil {
				ready = true
				deliver()

				continue
			}

			keySegs := fromKey(entry.Key())
			if !overlaps(segs, keySegs) {
				continue
			}

			switch entry.Operation() {
			case nats.KeyValueDelete, nats.KeyValuePurge:
				mirror = setValue(mirror, keySegs, nil)
			default:
				mirror = setValue(mirror, keySegs, decodeEntry(entry.Value()))
			}

			if ready {
				deliver()
			}
		}
	}
}

func (n *NATSSource) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	entries, err := n.entriesUnder(segs)
	if err != nil {
		return nil, err
	}

	var tree interface{}
	for _, e := range entries {
		tree = setValue(tree, fromKey(e.Key()), decodeEntry(e.Value()))
	}

	return encode(getValue(tree, segs)), nil
}

// entriesUnder returns the live entries at or below segs, and any ancestor
// entries that may contain them, in revision order.
func (n *NATSSource) entriesUnder(segs []string) ([]nats.KeyValueEntry, error) {
	keys, err := n.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReadFailed, err)
	}

	entries := make([]nats.KeyValueEntry, 0, len(keys))

	for _, key := range keys {
		if !overlaps(segs, fromKey(key)) {
			continue
		}

		entry, err := n.kv.Get(key)
		if errors.Is(err, nats.ErrKeyNotFound) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errReadFailed, key, err)
		}

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Revision() < entries[j].Revision() })

	return entries, nil
}

func (n *NATSSource) Set(ctx context.Context, path string, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	segs, err := SplitPath(path)
	if err != nil {
		return err
	}

	if len(segs) == 0 {
		return fmt.Errorf("%w: cannot replace the bucket root", ErrInvalidPath)
	}

	// descendants go first so watchers never see them layered over the new value
	if err := n.deleteDescendants(segs); err != nil {
		return err
	}

	key := toKey(segs)

	if value == nil {
		if err := n.kv.Delete(key); err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s: %w", errDeleteFailed, key, err)
		}

		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeValue, err)
	}

	if _, err := n.kv.Put(key, data); err != nil {
		return fmt.Errorf("%w: %s: %w", errWriteFailed, key, err)
	}

	return nil
}

func (n *NATSSource) deleteDescendants(segs []string) error {
	keys, err := n.kv.Keys()
	if errors.Is(err, nats.ErrNoKeysFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: %w", errReadFailed, err)
	}

	prefix := toKey(segs) + keySeparator

	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		if err := n.kv.Delete(key); err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s: %w", errDeleteFailed, key, err)
		}
	}

	return nil
}

func (n *NATSSource) Push(ctx context.Context, path string, value interface{}) (string, error) {
	key := n.newKey()

	if err := n.Set(ctx, JoinPath(path, key), value); err != nil {
		return "", err
	}

	return key, nil
}

func (n *NATSSource) Close() error {
	n.mu.Lock()
	n.closed = true
	watchers := n.watchers
	n.watchers = make(map[*natsWatch]struct{})
	n.mu.Unlock()

	for w := range watchers {
		w.stop()
	}

	if n.nc != nil {
		n.nc.Close()
	}

	n.log.Debug("feed connection closed")

	return nil
}
