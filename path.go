// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"errors"
	"strings"
)

// ErrOddPath is returned by [ParsePath] for a flat path of odd length.
var ErrOddPath = errors.New("navcache: flat segment path has odd length")

// PathElem is one level of a [SegmentPath].
type PathElem struct {
	Slot    string
	Segment Segment
}

// SegmentPath is the walk from the root down to a target node,
// one element per tree level.
type SegmentPath []PathElem

// Path is a convenience constructor, each segment is placed in
// the implicit children slot.
func Path(segs ...string) SegmentPath {
	p := make(SegmentPath, 0, len(segs))
	for _, s := range segs {
		p = append(p, PathElem{Slot: ChildrenSlot, Segment: ParseSegment(s)})
	}
	return p
}

// ParsePath converts the flat form [slot, segment, slot, segment, ...]
// as received from the server into a SegmentPath.
func ParsePath(flat []string) (SegmentPath, error) {
	if len(flat)%2 != 0 {
		return nil, ErrOddPath
	}

	p := make(SegmentPath, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		p = append(p, PathElem{Slot: flat[i], Segment: ParseSegment(flat[i+1])})
	}
	return p, nil
}

// Flat returns the flat form of p, the inverse of [ParsePath].
func (p SegmentPath) Flat() []string {
	flat := make([]string, 0, 2*len(p))
	for _, elem := range p {
		flat = append(flat, elem.Slot, segmentString(elem.Segment))
	}
	return flat
}

// Key returns the normalized identity of the whole path.
func (p SegmentPath) Key() string {
	var sb strings.Builder
	for i, elem := range p {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(elem.Slot)
		sb.WriteByte(':')
		sb.WriteString(string(CacheKeyOf(elem.Segment)))
	}
	return sb.String()
}

// String returns the path for logging, the children slot is implicit.
func (p SegmentPath) String() string {
	var sb strings.Builder
	for _, elem := range p {
		sb.WriteByte('/')
		if elem.Slot != ChildrenSlot {
			sb.WriteByte('@')
			sb.WriteString(elem.Slot)
			sb.WriteByte(':')
		}
		sb.WriteString(segmentString(elem.Segment))
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}

func segmentString(seg Segment) string {
	if seg == nil {
		return ""
	}
	return seg.String()
}
