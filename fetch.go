// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrFetchFailed is wrapped by the error of a failed [Fetch].
	ErrFetchFailed = errors.New("navcache: fetch failed")

	// ErrPending is returned by [Fetch.Result] for an unsettled handle.
	ErrPending = errors.New("navcache: fetch pending")
)

// FetchState is the variant of a [Fetch] handle.
type FetchState uint8

const (
	Pending FetchState = iota
	Resolved
	Failed
)

func (s FetchState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("FetchState(%d)", uint8(s))
}

// Fetch is the handle of one in-flight server round trip, stored as the
// data of a DataFetch node.
//
// A Fetch starts Pending and is settled exactly once by the transport,
// either Resolved with the payload or Failed with the reason.
// Later settle calls are ignored. All methods are safe for concurrent use.
type Fetch[V any] struct {
	token uuid.UUID
	done  chan struct{}

	mu    sync.Mutex
	state FetchState
	val   V
	err   error
}

// FetchFunc starts exactly one fetch and returns its pending handle.
type FetchFunc[V any] func() *Fetch[V]

// NewFetch returns a pending handle with a fresh random token.
func NewFetch[V any]() *Fetch[V] {
	return &Fetch[V]{
		token: uuid.New(),
		done:  make(chan struct{}),
	}
}

// NewResolvedFetch returns a handle already resolved with val.
func NewResolvedFetch[V any](val V) *Fetch[V] {
	f := NewFetch[V]()
	f.Resolve(val)
	return f
}

// Token identifies the fetch, e.g. to discard superseded responses.
func (f *Fetch[V]) Token() uuid.UUID {
	return f.token
}

// State returns the current variant.
func (f *Fetch[V]) State() FetchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Resolve settles the handle with val.
// It reports false if the handle was already settled.
func (f *Fetch[V]) Resolve(val V) bool {
	return f.settle(Resolved, val, nil)
}

// Fail settles the handle with err, wrapped in [ErrFetchFailed].
// It reports false if the handle was already settled.
func (f *Fetch[V]) Fail(err error) bool {
	var zero V
	if err == nil {
		err = ErrFetchFailed
	} else {
		err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return f.settle(Failed, zero, err)
}

func (f *Fetch[V]) settle(state FetchState, val V, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Pending {
		return false
	}

	f.state, f.val, f.err = state, val, err
	close(f.done)
	return true
}

// Done returns a channel that is closed when the handle is settled.
func (f *Fetch[V]) Done() <-chan struct{} {
	return f.done
}

// Result returns the payload or the failure of a settled handle,
// or [ErrPending] while the handle is not settled.
func (f *Fetch[V]) Result() (V, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Pending {
		var zero V
		return zero, ErrPending
	}
	return f.val, f.err
}

// Wait blocks until the handle is settled or ctx is done.
func (f *Fetch[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.Result()
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// String returns the state and the token, for dumps.
func (f *Fetch[V]) String() string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s:%s", f.State(), f.token)
}
