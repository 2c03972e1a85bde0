// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

// Result is the outcome of [FillWithData].
type Result struct {
	// Bail is set when the existing tree can't be projected along the
	// path, the caller must fall back to an uncached fetch of the whole
	// remaining path.
	Bail bool
}

// Bailed reports whether the fill bailed out.
func (r Result) Bailed() bool { return r.Bail }

var bailOptimistic = Result{Bail: true}

// FillWithData kicks off a fetch based on the common layout between two
// routes and fills the new tree with a DataFetch node holding the
// in-flight fetch.
//
// newNode is the node of the tree under construction at the current
// level, existing the corresponding node of the previous tree. The path
// is consumed one element per level. Nodes and segment maps along the
// path that are still shared with the existing tree are cloned before
// they are written, the existing tree is never modified.
//
// startFetch is called at most once, at the frontier: the last path
// element, or the first level where the existing tree has no cached
// child. A divergent node at the frontier that already holds data is
// left untouched.
//
// The result bails when the existing node has no segment map for the
// slot of the current level, or when bailOnParallelRoutes is set and the
// existing node has more than one active parallel route. Nothing is
// written to newNode at that level in either case.
func FillWithData[V any](
	newNode, existing *Node[V],
	path SegmentPath,
	startFetch FetchFunc[V],
	bailOnParallelRoutes bool,
) Result {
	// the empty path has no slot to look up
	if len(path) == 0 {
		return bailOptimistic
	}

	isLastEntry := len(path) <= 1

	slot, segment := path[0].Slot, path[0].Segment
	cacheKey := CacheKeyOf(segment)

	existingChildMap, ok := existing.Slot(slot)
	if !ok || (bailOnParallelRoutes && existing.SlotCount() > 1) {
		// bailout, the existing tree has no path to the leaf node or
		// multiple parallel routes, the renderer fetches lazily
		return bailOptimistic
	}

	// copy-on-write, the map of newNode may still be the existing one
	childMap, ok := newNode.Slot(slot)
	if !ok || childMap == existingChildMap {
		childMap = existingChildMap.Clone()
		newNode.SetSlot(slot, childMap)
	}

	existingChild, _ := existingChildMap.Get(cacheKey)
	child, _ := childMap.Get(cacheKey)

	// last segment, start the fetch at this level and don't copy further down
	if isLastEntry {
		if child == nil || child.Data == nil || child == existingChild {
			childMap.Set(cacheKey, NewFetchNode(startFetch()))
		}
		return Result{}
	}

	if child == nil || existingChild == nil {
		// start the fetch where the existing tree has no data yet
		if child == nil {
			childMap.Set(cacheKey, NewFetchNode(startFetch()))
		}
		return Result{}
	}

	// clone the traversed path
	if child == existingChild {
		child = child.Clone()

		// replace kid with clone
		childMap.Set(cacheKey, child)
	}

	return FillWithData(child, existingChild, path[1:], startFetch, bailOnParallelRoutes)
}
