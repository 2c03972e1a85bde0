// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"iter"
	"slices"
)

// All returns an iterator over all descendants of n with their path
// relative to n, depth-first, slots and keys in sorted order.
// n itself is not yielded.
//
// The yielded path is reused between iterations, clone it to keep it.
func (n *Node[V]) All() iter.Seq2[SegmentPath, *Node[V]] {
	return func(yield func(SegmentPath, *Node[V]) bool) {
		if n == nil {
			return
		}
		n.allRec(make(SegmentPath, 0, 8), yield)
	}
}

// allRec, rec-descent with the current path.
func (n *Node[V]) allRec(path SegmentPath, yield func(SegmentPath, *Node[V]) bool) bool {
	for _, slot := range n.Slots() {
		m := n.slots[slot]
		for _, key := range m.Keys() {
			kid := m.items[key]
			kidPath := append(path, PathElem{Slot: slot, Segment: ParseSegment(string(key))})

			if !yield(kidPath, kid) {
				return false
			}
			if !kid.allRec(kidPath, yield) {
				return false
			}
		}
	}
	return true
}

// Frontier returns the paths of all DataFetch nodes below n,
// the places where a fetch is in flight.
func (n *Node[V]) Frontier() []SegmentPath {
	var paths []SegmentPath
	for path, kid := range n.All() {
		if kid.Status == DataFetch {
			paths = append(paths, slices.Clone(path))
		}
	}
	return paths
}

// Stats are the node counts of a tree.
type Stats struct {
	Nodes    int
	Lazy     int
	Fetching int
	Ready    int
}

// Stats counts the nodes of the tree rooted at n, n included.
func (n *Node[V]) Stats() Stats {
	var s Stats
	if n == nil {
		return s
	}

	s.add(n.Status)
	for _, kid := range n.All() {
		s.add(kid.Status)
	}
	return s
}

func (s *Stats) add(status Status) {
	s.Nodes++
	switch status {
	case Lazy:
		s.Lazy++
	case DataFetch:
		s.Fetching++
	case Ready:
		s.Ready++
	}
}
