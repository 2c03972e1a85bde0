// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package navcache provides the client side navigation cache tree and
// its incremental fill.
//
// The cache tree mirrors the route tree of a page: every [Node] holds the
// fetch and render state of one route level, its children are partitioned
// by parallel route key (slot) into [SegmentMap]s keyed by the normalized
// [CacheKey] of the route segment.
//
// Trees are persistent. A navigation builds a new tree that shares all
// untouched nodes with the previous one and clones the nodes and maps on
// the write path only. [FillWithData] walks a target path through the
// previous tree, copies the cached prefix of the path into the new tree
// and kicks off exactly one fetch at the frontier, the deepest point
// reachable from cached data. If the previous tree can't be projected
// along the path, the fill bails and the caller falls back to an
// uncached fetch.
//
//	newRoot := existing.Clone()
//	res := navcache.FillWithData(newRoot, existing, path, startFetch, false)
//	if res.Bailed() {
//		// fetch the whole path without the cache
//	}
//
// Fetches are represented by [Fetch] handles, settled later by the
// transport, see [Loader]. A [Filler] adds logging and metrics.
//
// The fill is synchronous and not safe for concurrent writers on the same
// new tree. Published trees may be read concurrently.
package navcache
