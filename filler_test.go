// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiller_Fill(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reg := prometheus.NewRegistry()

	f := Filler[string]{
		Logger:  slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Metrics: NewMetrics(reg),
	}

	existing := blogTree()
	newRoot := existing.Clone()
	var fc fetchCounter

	res := f.Fill(newRoot, existing, Path("blog", "post-1", "comments"), fc.start)
	require.False(t, res.Bailed())
	assert.Equal(t, 1, fc.calls)

	res = f.Fill(newRoot, existing, SegmentPath{{Slot: "modal", Segment: StaticSegment("login")}}, fc.start)
	require.True(t, res.Bailed())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.Metrics.fillTotal.WithLabelValues("filled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.Metrics.fillTotal.WithLabelValues("bail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.Metrics.fetchStarted))

	count, err := testutil.GatherAndCount(reg, "navcache_fill_depth")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	logs := buf.String()
	assert.Contains(t, logs, "navcache: fill")
	assert.Contains(t, logs, "path=/blog/post-1/comments")
	assert.Contains(t, logs, "bail=true")
	assert.Contains(t, logs, "fetches=1")
}

func TestFiller_ZeroValue(t *testing.T) {
	t.Parallel()

	var f Filler[string]
	existing := blogTree()
	var fc fetchCounter

	res := f.Fill(existing.Clone(), existing, Path("blog", "post-2"), fc.start)
	assert.False(t, res.Bailed())
	assert.Equal(t, 1, fc.calls)
}

func TestFiller_FillAll(t *testing.T) {
	t.Parallel()

	existing := blogTree()
	var f Filler[string]

	perPath := map[string]int{}
	start := func(p SegmentPath) FetchFunc[string] {
		return func() *Fetch[string] {
			perPath[p.String()]++
			return NewFetch[string]()
		}
	}

	t.Run("all", func(t *testing.T) {
		newRoot := existing.Clone()
		paths := []SegmentPath{
			Path("blog", "post-1", "comments"),
			Path("blog", "post-2"),
			Path("blog", "post-1", "comments"),
		}

		res := f.FillAll(newRoot, existing, paths, start)
		require.False(t, res.Bailed())
		assert.Equal(t, map[string]int{"/blog/post-1/comments": 1, "/blog/post-2": 1}, perPath)
		assert.Len(t, newRoot.Frontier(), 2)
	})

	t.Run("stop at bail", func(t *testing.T) {
		clear(perPath)

		newRoot := existing.Clone()
		paths := []SegmentPath{
			Path("blog", "post-2"),
			{{Slot: "modal", Segment: StaticSegment("login")}},
			Path("about"),
		}

		res := f.FillAll(newRoot, existing, paths, start)
		require.True(t, res.Bailed())
		assert.Equal(t, map[string]int{"/blog/post-2": 1}, perPath)

		_, ok := newRoot.Lookup(Path("about"))
		assert.False(t, ok, "paths after the bail are not filled")
	})
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	t.Parallel()

	m := NewMetrics(nil)
	m.observe(Result{Bail: true}, 2, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fillTotal.WithLabelValues("bail")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.observe(Result{}, 1, 1) })
}
