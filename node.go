// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"fmt"
	"maps"
	"slices"
)

// Status is the fetch and render state of a [Node].
type Status uint8

const (
	// Lazy is an uninitialized frontier node, its data is fetched
	// on demand by the renderer.
	Lazy Status = iota

	// DataFetch nodes hold a fetch handle in Data, SubTree is nil.
	DataFetch

	// Ready nodes hold the rendered payload in SubTree.
	Ready
)

func (s Status) String() string {
	switch s {
	case Lazy:
		return "LAZY"
	case DataFetch:
		return "DATA_FETCH"
	case Ready:
		return "READY"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Node is a cache node of the navigation tree.
//
// The children of a node are partitioned by parallel route key (slot),
// each slot holds a [SegmentMap] keyed by [CacheKey].
//
// Nodes and segment maps are shared between the tree of a previous
// navigation and the tree under construction. Never write through a
// node or map reachable from a published tree, clone it first,
// see [Node.Clone] and [SegmentMap.Clone].
type Node[V any] struct {
	Status Status

	// Data is nil or the handle of the fetch for this subtree.
	Data *Fetch[V]

	// SubTree is the rendered payload, nil until resolved.
	SubTree *V

	slots map[string]*SegmentMap[V]
}

// NewNode returns an empty node with status.
func NewNode[V any](status Status) *Node[V] {
	return &Node[V]{Status: status}
}

// NewFetchNode returns a DataFetch frontier node holding f.
func NewFetchNode[V any](f *Fetch[V]) *Node[V] {
	return &Node[V]{Status: DataFetch, Data: f}
}

// NewReadyNode returns a Ready node with the rendered payload sub.
func NewReadyNode[V any](sub V) *Node[V] {
	return &Node[V]{Status: Ready, SubTree: &sub}
}

// Slot returns the segment map of the parallel route key.
func (n *Node[V]) Slot(key string) (*SegmentMap[V], bool) {
	if n == nil {
		return nil, false
	}
	m, ok := n.slots[key]
	return m, ok
}

// SetSlot installs m as the segment map of the parallel route key.
func (n *Node[V]) SetSlot(key string, m *SegmentMap[V]) {
	if n.slots == nil {
		n.slots = make(map[string]*SegmentMap[V], 1)
	}
	n.slots[key] = m
}

// DeleteSlot removes the parallel route key.
func (n *Node[V]) DeleteSlot(key string) {
	delete(n.slots, key)
}

// SlotCount returns the number of active parallel routes.
func (n *Node[V]) SlotCount() int {
	if n == nil {
		return 0
	}
	return len(n.slots)
}

// Slots returns the parallel route keys in sorted order.
func (n *Node[V]) Slots() []string {
	if n == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(n.slots))
}

// Clone returns a shallow copy-on-write clone of n.
//
// Status, Data and SubTree are shared, the slot table is new but
// references the same segment maps as n. Writing a child into the clone
// thus requires cloning that segment map as well.
func (n *Node[V]) Clone() *Node[V] {
	if n == nil {
		return nil
	}

	c := &Node[V]{
		Status:  n.Status,
		Data:    n.Data,
		SubTree: n.SubTree,
	}
	if len(n.slots) != 0 {
		c.slots = maps.Clone(n.slots)
	}
	return c
}

// Child returns the child for seg in the slot.
func (n *Node[V]) Child(slot string, seg Segment) (*Node[V], bool) {
	m, ok := n.Slot(slot)
	if !ok {
		return nil, false
	}
	return m.Get(CacheKeyOf(seg))
}

// Lookup walks path from n and returns the node at its end.
// The empty path returns n itself.
func (n *Node[V]) Lookup(path SegmentPath) (*Node[V], bool) {
	if n == nil {
		return nil, false
	}

	for _, elem := range path {
		kid, ok := n.Child(elem.Slot, elem.Segment)
		if !ok {
			return nil, false
		}
		n = kid
	}
	return n, true
}

// Settle turns a DataFetch node with a resolved handle into a Ready
// node with SubTree set to the payload and reports true.
// Pending and failed handles leave n unchanged.
//
// Settle writes n in place, call it only on nodes owned exclusively by
// the tree under construction.
func (n *Node[V]) Settle() bool {
	if n == nil || n.Status != DataFetch || n.Data == nil {
		return false
	}

	val, err := n.Data.Result()
	if err != nil {
		return false
	}

	n.Status = Ready
	n.SubTree = &val
	return true
}

// SegmentMap holds the children of one parallel route of a node.
//
// The pointer identity of a SegmentMap is significant: a map shared by
// reference between the existing and the new tree is not yet diverged.
type SegmentMap[V any] struct {
	items map[CacheKey]*Node[V]
}

// NewSegmentMap returns an empty segment map.
func NewSegmentMap[V any]() *SegmentMap[V] {
	return &SegmentMap[V]{}
}

// Get returns the child for key.
func (m *SegmentMap[V]) Get(key CacheKey) (*Node[V], bool) {
	if m == nil {
		return nil, false
	}
	n, ok := m.items[key]
	return n, ok
}

// Set inserts or replaces the child for key.
func (m *SegmentMap[V]) Set(key CacheKey, n *Node[V]) {
	if m.items == nil {
		m.items = make(map[CacheKey]*Node[V], 1)
	}
	m.items[key] = n
}

// Delete removes the child for key.
func (m *SegmentMap[V]) Delete(key CacheKey) {
	delete(m.items, key)
}

// Len returns the number of children.
func (m *SegmentMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.items)
}

// Keys returns the cache keys in sorted order.
func (m *SegmentMap[V]) Keys() []CacheKey {
	if m == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m.items))
}

// Clone returns a shallow copy of m, the children are shared.
func (m *SegmentMap[V]) Clone() *SegmentMap[V] {
	if m == nil {
		return nil
	}
	return &SegmentMap[V]{items: maps.Clone(m.items)}
}
