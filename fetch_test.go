// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Pending(t *testing.T) {
	t.Parallel()

	f := NewFetch[string]()
	assert.Equal(t, Pending, f.State())
	assert.NotEqual(t, uuid.Nil, f.Token())

	_, err := f.Result()
	assert.ErrorIs(t, err, ErrPending)

	select {
	case <-f.Done():
		t.Fatal("pending fetch must not be done")
	default:
	}

	assert.NotEqual(t, f.Token(), NewFetch[string]().Token(), "tokens are unique")
}

func TestFetch_Resolve(t *testing.T) {
	t.Parallel()

	f := NewFetch[string]()
	require.True(t, f.Resolve("tree"))
	assert.False(t, f.Resolve("other"), "first settle wins")
	assert.False(t, f.Fail(errors.New("late")))

	assert.Equal(t, Resolved, f.State())
	val, err := f.Result()
	require.NoError(t, err)
	assert.Equal(t, "tree", val)

	<-f.Done()
}

func TestFetch_Fail(t *testing.T) {
	t.Parallel()

	reason := errors.New("502 bad gateway")

	f := NewFetch[string]()
	require.True(t, f.Fail(reason))
	assert.Equal(t, Failed, f.State())

	_, err := f.Result()
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, reason)

	g := NewFetch[string]()
	g.Fail(nil)
	_, err = g.Result()
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetch_Wait(t *testing.T) {
	t.Parallel()

	f := NewFetch[int]()
	go func() {
		time.Sleep(5 * time.Millisecond)
		f.Resolve(42)
	}()

	val, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewFetch[int]().Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_ConcurrentSettle(t *testing.T) {
	t.Parallel()

	f := NewFetch[int]()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Resolve(i) {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.Equal(t, Resolved, f.State())
}

func TestFetchState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "FetchState(9)", FetchState(9).String())

	var f *Fetch[int]
	assert.Equal(t, "<nil>", f.String())
	assert.Contains(t, NewResolvedFetch(1).String(), "resolved:")
}
