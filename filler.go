// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"io"
	"log/slog"
)

// Filler drives [FillWithData] for the navigation code,
// with logging and metrics.
//
// The zero value is ready to use. A Filler may be shared, the tree it
// fills must not: every new tree has a single writer.
type Filler[V any] struct {
	// Logger receives a debug record per fill, nil discards.
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *Metrics

	// BailOnParallelRoutes is passed to FillWithData.
	BailOnParallelRoutes bool
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (f *Filler[V]) logger() *slog.Logger {
	if f.Logger == nil {
		return discardLogger
	}
	return f.Logger
}

// Fill fills newRoot from existing along path, see [FillWithData].
func (f *Filler[V]) Fill(newRoot, existing *Node[V], path SegmentPath, startFetch FetchFunc[V]) Result {
	fetches := 0
	counted := func() *Fetch[V] {
		fetches++
		return startFetch()
	}

	res := FillWithData(newRoot, existing, path, counted, f.BailOnParallelRoutes)

	f.Metrics.observe(res, len(path), fetches)
	f.logger().Debug("navcache: fill",
		slog.String("path", path.String()),
		slog.Bool("bail", res.Bail),
		slog.Int("fetches", fetches),
	)

	return res
}

// FillAll fills several target paths into the same new tree in
// sequence. It stops at the first bail and returns it, the paths filled
// before stay in newRoot.
//
// Each path gets its own call to startFetch at its frontier. Frontier
// nodes created for an earlier path are not fetched again.
func (f *Filler[V]) FillAll(newRoot, existing *Node[V], paths []SegmentPath, startFetch func(SegmentPath) FetchFunc[V]) Result {
	for _, path := range paths {
		if res := f.Fill(newRoot, existing, path, startFetch(path)); res.Bail {
			return res
		}
	}
	return Result{}
}
