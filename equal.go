// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"github.com/gaissmai/navcache/internal/value"
)

// Equaler is a generic interface for render payloads that can decide
// their own equality logic. It can be used to override the potentially
// expensive default comparison with [reflect.DeepEqual].
type Equaler[V any] interface {
	Equal(other V) bool
}

// Equal reports whether the trees rooted at n and o are structurally
// equal: same status, same fetch handles, equal rendered payloads and
// equal children in every slot.
//
// Shared subtrees compare equal without descending.
func (n *Node[V]) Equal(o *Node[V]) bool {
	return n.equalRec(o)
}

// equalRec compares two nodes recursively.
func (n *Node[V]) equalRec(o *Node[V]) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n == o {
		return true
	}

	if n.Status != o.Status {
		return false
	}

	// fetch handles are identities, not values
	if n.Data != o.Data {
		return false
	}

	if !value.EqualPtr(n.SubTree, o.SubTree) {
		return false
	}

	if len(n.slots) != len(o.slots) {
		return false
	}

	for slot, nMap := range n.slots {
		oMap, ok := o.slots[slot]
		if !ok {
			return false
		}
		if !nMap.equalRec(oMap) {
			return false
		}
	}

	return true
}

func (m *SegmentMap[V]) equalRec(o *SegmentMap[V]) bool {
	if m == o {
		return true
	}
	if m.Len() != o.Len() {
		return false
	}

	for key, nKid := range m.items {
		oKid, ok := o.Get(key)
		if !ok {
			return false
		}

		// compare rec-descent
		if !nKid.equalRec(oKid) {
			return false
		}
	}

	return true
}
