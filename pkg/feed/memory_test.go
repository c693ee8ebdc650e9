package feed

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []string
}

func (r *recorder) fn(raw json.RawMessage) {
	r.got = append(r.got, string(raw))
}

func TestMemorySource_SubscribeDeliversInitialAndChanges(t *testing.T) {
	ctx := context.Background()
	src := NewMemorySource()

	require.NoError(t, src.Set(ctx, "nodes/node1", map[string]interface{}{"name": "Node #01"}))

	rec := &recorder{}
	unsub, err := src.Subscribe("nodes", rec.fn)
	require.NoError(t, err)

	require.NoError(t, src.Set(ctx, "nodes/node1/alerts/fire", true))
	require.NoError(t, src.Set(ctx, "networkStatus", map[string]int{"activeNodes": 1}))

	require.Len(t, rec.got, 2, "unrelated paths must not trigger a delivery")
	assert.JSONEq(t, `{"node1":{"name":"Node #01"}}`, rec.got[0])
	assert.JSONEq(t, `{"node1":{"name":"Node #01","alerts":{"fire":true}}}`, rec.got[1])

	unsub()
	unsub()

	require.NoError(t, src.Set(ctx, "nodes/node2", map[string]string{"name": "x"}))
	assert.Len(t, rec.got, 2)
}

func TestMemorySource_AbsentPathIsNull(t *testing.T) {
	src := NewMemorySource()

	rec := &recorder{}
	_, err := src.Subscribe("alertHistory", rec.fn)
	require.NoError(t, err)

	require.Len(t, rec.got, 1)
	assert.Equal(t, "null", rec.got[0])

	raw, err := src.Get(context.Background(), "networkStatus")
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestMemorySource_IdenticalWriteIsNotRedelivered(t *testing.T) {
	ctx := context.Background()
	src := NewMemorySource()

	rec := &recorder{}
	_, err := src.Subscribe("activate", rec.fn)
	require.NoError(t, err)

	require.NoError(t, src.Set(ctx, "activate", 1))
	require.NoError(t, src.Set(ctx, "activate", 1))

	assert.Equal(t, []string{"null", "1"}, rec.got)
}

func TestMemorySource_DeleteCollapsesEmptyParents(t *testing.T) {
	ctx := context.Background()
	src := NewMemorySource()

	require.NoError(t, src.Set(ctx, "connections/a", map[string]int{"strength": 1}))
	require.NoError(t, src.Set(ctx, "connections/a", nil))

	raw, err := src.Get(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestMemorySource_PushGeneratesOrderedKeys(t *testing.T) {
	ctx := context.Background()
	src := NewMemorySource()

	k1, err := src.Push(ctx, "connections", map[string]string{"source": "node1"})
	require.NoError(t, err)

	k2, err := src.Push(ctx, "connections", map[string]string{"source": "node2"})
	require.NoError(t, err)

	assert.NotEqual(t, k1, k2)
	assert.Less(t, k1, k2)

	raw, err := src.Get(ctx, "connections")
	require.NoError(t, err)

	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Len(t, got, 2)
	assert.Equal(t, "node2", got[k2]["source"])
}

func TestMemorySource_ReentrantWriteFromCallback(t *testing.T) {
	ctx := context.Background()
	src := NewMemorySource()

	var order []string

	_, err := src.Subscribe("a", func(raw json.RawMessage) {
		order = append(order, "a:"+string(raw))

		if string(raw) == "1" {
			require.NoError(t, src.Set(ctx, "b", 2))
		}
	})
	require.NoError(t, err)

	_, err = src.Subscribe("b", func(raw json.RawMessage) {
		order = append(order, "b:"+string(raw))
	})
	require.NoError(t, err)

	require.NoError(t, src.Set(ctx, "a", 1))

	assert.Equal(t, []string{"a:null", "b:null", "a:1", "b:2"}, order)
}

func TestMemorySource_ClosedRejectsUse(t *testing.T) {
	src := NewMemorySource()
	require.NoError(t, src.Close())

	_, err := src.Subscribe("nodes", func(json.RawMessage) {})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, src.Set(context.Background(), "nodes/x", 1), ErrClosed)
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path    string
		want    []string
		wantErr bool
	}{
		{path: "", want: nil},
		{path: "/nodes/node1/", want: []string{"nodes", "node1"}},
		{path: "alertHistory/0190-abc", want: []string{"alertHistory", "0190-abc"}},
		{path: "nodes/node.1", wantErr: true},
		{path: "nodes//x", wantErr: true},
		{path: "nodes/*", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := SplitPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNATSKeyMapping(t *testing.T) {
	segs := []string{"nodes", "node1", "alerts", "fire"}

	assert.Equal(t, "nodes.node1.alerts.fire", toKey(segs))
	assert.Equal(t, segs, fromKey(toKey(segs)))
	assert.True(t, overlaps([]string{"nodes"}, segs))
	assert.True(t, overlaps(segs, []string{"nodes"}))
	assert.False(t, overlaps([]string{"alertHistory"}, segs))

	assert.Equal(t, true, decodeEntry([]byte("true")))
	assert.Equal(t, "not json", decodeEntry([]byte("not json")))
}
