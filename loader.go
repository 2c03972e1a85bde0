// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Transport performs the server round trip for the subtree at path of
// the route url and returns the decoded payload.
type Transport[V any] interface {
	FetchTree(ctx context.Context, url string, path SegmentPath) (V, error)
}

// TransportFunc adapts a function to a [Transport].
type TransportFunc[V any] func(ctx context.Context, url string, path SegmentPath) (V, error)

// FetchTree calls fn.
func (fn TransportFunc[V]) FetchTree(ctx context.Context, url string, path SegmentPath) (V, error) {
	return fn(ctx, url, path)
}

// DefaultFetchTimeout bounds a shared round trip of a [Loader]
// without Timeout.
const DefaultFetchTimeout = 30 * time.Second

// Loader turns a [Transport] into the [FetchFunc] consumed by the fill.
//
// Concurrent requests for the same url and path share one round trip,
// each caller still gets its own handle. The shared round trip is not
// bound to the context of any single caller, a caller whose context is
// done fails only its own handle.
type Loader[V any] struct {
	Transport Transport[V]

	// Timeout bounds the shared round trip, zero means DefaultFetchTimeout.
	Timeout time.Duration

	// Logger receives a debug record per settled fetch, nil discards.
	Logger *slog.Logger

	group singleflight.Group
}

// FetchFunc returns a FetchFunc for url and path. Each call of the
// returned function starts one fetch in its own goroutine and returns
// the pending handle. The handle fails when ctx is done first.
func (l *Loader[V]) FetchFunc(ctx context.Context, url string, path SegmentPath) FetchFunc[V] {
	return func() *Fetch[V] {
		f := NewFetch[V]()
		go l.run(ctx, f, url, path)
		return f
	}
}

// Start starts one fetch and returns its pending handle.
func (l *Loader[V]) Start(ctx context.Context, url string, path SegmentPath) *Fetch[V] {
	return l.FetchFunc(ctx, url, path)()
}

func (l *Loader[V]) timeout() time.Duration {
	if l.Timeout <= 0 {
		return DefaultFetchTimeout
	}
	return l.Timeout
}

func (l *Loader[V]) run(ctx context.Context, f *Fetch[V], url string, path SegmentPath) {
	key := url + "\x00" + path.Key()

	ch := l.group.DoChan(key, func() (any, error) {
		// keep the values of the first caller, drop its cancellation
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout())
		defer cancel()

		return l.Transport.FetchTree(shared, url, path)
	})

	log := l.Logger
	if log == nil {
		log = discardLogger
	}

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res.Err = ctx.Err()
	}

	// log before settling, waiters may return right after
	if res.Err != nil {
		log.Debug("navcache: fetch failed",
			slog.String("url", url),
			slog.String("path", path.String()),
			slog.String("token", f.Token().String()),
			slog.Any("error", res.Err),
		)
		f.Fail(res.Err)
		return
	}

	log.Debug("navcache: fetch resolved",
		slog.String("url", url),
		slog.String("path", path.String()),
		slog.String("token", f.Token().String()),
		slog.Bool("shared", res.Shared),
	)

	// Val is nil for a nil interface payload
	val, _ := res.Val.(V)
	f.Resolve(val)
}
