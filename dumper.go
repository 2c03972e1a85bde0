// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"fmt"
	"io"
	"strings"
)

// ##################################################
//  useful during development, debugging and testing
// ##################################################

// dumpString is just a wrapper for dump.
func (n *Node[V]) dumpString() string {
	w := new(strings.Builder)
	n.dump(w)

	return w.String()
}

// String returns the dump of the tree rooted at n.
func (n *Node[V]) String() string {
	return n.dumpString()
}

// Dump writes the tree rooted at n to w, one node per line,
// slots and keys in sorted order.
func (n *Node[V]) Dump(w io.Writer) {
	n.dump(w)
}

// dump the tree structure and all the nodes to w.
func (n *Node[V]) dump(w io.Writer) {
	if n == nil {
		return
	}

	stats := n.Stats()
	fmt.Fprintf(w, "### nodes(%d), fetching(%d), ready(%d)\n",
		stats.Nodes, stats.Fetching, stats.Ready)

	n.dumpNode(w, "/", 0)
	n.dumpRec(w, 0)
}

// dumpRec, rec-descent the tree.
func (n *Node[V]) dumpRec(w io.Writer, depth int) {
	for _, slot := range n.Slots() {
		m := n.slots[slot]
		for _, key := range m.Keys() {
			kid := m.items[key]

			label := string(key)
			if slot != ChildrenSlot {
				label = "@" + slot + ":" + label
			}

			kid.dumpNode(w, label, depth+1)
			kid.dumpRec(w, depth+1)
		}
	}
}

// dumpNode writes a single node line to w.
func (n *Node[V]) dumpNode(w io.Writer, label string, depth int) {
	indent := strings.Repeat(".", depth)

	fmt.Fprintf(w, "%s[%s] %s", indent, n.Status, label)

	if n.Data != nil {
		fmt.Fprintf(w, " data(%s)", n.Data.State())
	}

	if n.SubTree != nil {
		fmt.Fprintf(w, " subtree(%v)", *n.SubTree)
	}

	fmt.Fprintln(w)
}
