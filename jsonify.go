// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"encoding/json"
)

// FetchElement is the JSON form of a [Fetch] handle.
type FetchElement struct {
	State string `json:"state"`
	Token string `json:"token"`
	Error string `json:"error,omitempty"`
}

// NodeElement is the JSON form of a [Node], children by slot and key.
type NodeElement[V any] struct {
	Status         string                               `json:"status"`
	Data           *FetchElement                        `json:"data,omitempty"`
	SubTree        *V                                   `json:"subTree,omitempty"`
	ParallelRoutes map[string]map[string]NodeElement[V] `json:"parallelRoutes,omitempty"`
}

// MarshalJSON dumps the tree rooted at n, slots and keys as JSON objects.
func (n *Node[V]) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.DumpElement())
}

// DumpElement returns the tree rooted at n as nested elements.
func (n *Node[V]) DumpElement() NodeElement[V] {
	elem := NodeElement[V]{
		Status:  n.Status.String(),
		SubTree: n.SubTree,
	}

	if n.Data != nil {
		elem.Data = &FetchElement{
			State: n.Data.State().String(),
			Token: n.Data.Token().String(),
		}
		if _, err := n.Data.Result(); err != nil && n.Data.State() == Failed {
			elem.Data.Error = err.Error()
		}
	}

	if len(n.slots) == 0 {
		return elem
	}

	elem.ParallelRoutes = make(map[string]map[string]NodeElement[V], len(n.slots))
	for slot, m := range n.slots {
		kids := make(map[string]NodeElement[V], m.Len())
		for key, kid := range m.items {
			kids[string(key)] = kid.DumpElement()
		}
		elem.ParallelRoutes[slot] = kids
	}

	return elem
}
