// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"strings"
)

// PageSegmentKey is the segment of the leaf page of a route.
// Page segments may carry the search parameters, e.g. "__PAGE__?q=1".
const PageSegmentKey = "__PAGE__"

// ChildrenSlot is the implicit parallel route key of nested layouts.
const ChildrenSlot = "children"

const keySep = "|"

// CacheKey is the normalized identity of a [Segment].
// Segment maps are keyed by CacheKey, never by the raw segment.
type CacheKey string

// Segment identifies one level of a route, either a [StaticSegment]
// or a [DynamicSegment].
type Segment interface {
	// String returns the scalar form of the segment.
	String() string

	isSegment()
}

// StaticSegment is a plain path piece, e.g. "blog" or "__PAGE__".
type StaticSegment string

func (s StaticSegment) String() string { return string(s) }

func (StaticSegment) isSegment() {}

// ParamType is the kind of a dynamic route parameter.
type ParamType string

const (
	ParamDynamic                ParamType = "d"
	ParamDynamicIntercepted     ParamType = "di"
	ParamCatchAll               ParamType = "c"
	ParamCatchAllIntercepted    ParamType = "ci"
	ParamOptionalCatchAll       ParamType = "oc"
	ParamOptionalCatchAllInterc ParamType = "oci"
)

func (p ParamType) valid() bool {
	switch p {
	case ParamDynamic, ParamDynamicIntercepted,
		ParamCatchAll, ParamCatchAllIntercepted,
		ParamOptionalCatchAll, ParamOptionalCatchAllInterc:
		return true
	}
	return false
}

// DynamicSegment is the tuple form of a dynamic route level,
// e.g. {Param: "slug", Value: "post-1", Type: "d"} for /blog/[slug].
type DynamicSegment struct {
	Param string
	Value string
	Type  ParamType
}

// String returns the scalar form "param|value|type".
// A '|' or '\' inside param or value is escaped with '\',
// so distinct segments never share a scalar form.
func (s DynamicSegment) String() string {
	return keyEscaper.Replace(s.Param) + keySep + keyEscaper.Replace(s.Value) + keySep + string(s.Type)
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, keySep, `\`+keySep)

// splitKey splits s at the unescaped separators and unescapes the parts.
func splitKey(s string) []string {
	var (
		parts []string
		sb    strings.Builder
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && i+1 < len(s):
			i++
			sb.WriteByte(s[i])
		case c == keySep[0]:
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}
	return append(parts, sb.String())
}

func (DynamicSegment) isSegment() {}

// ParseSegment returns the segment for the scalar form s.
// A string of the form "param|value|type" with a known parameter type
// is a DynamicSegment, everything else is a StaticSegment.
func ParseSegment(s string) Segment {
	parts := splitKey(s)
	if len(parts) == 3 && ParamType(parts[2]).valid() {
		return DynamicSegment{Param: parts[0], Value: parts[1], Type: ParamType(parts[2])}
	}
	return StaticSegment(s)
}

type keyOptions struct {
	withoutSearchParams bool
}

// KeyOption configures [CacheKeyOf].
type KeyOption func(*keyOptions)

// WithoutSearchParams folds all page segments into [PageSegmentKey],
// regardless of the search parameters they carry.
func WithoutSearchParams() KeyOption {
	return func(o *keyOptions) { o.withoutSearchParams = true }
}

// CacheKeyOf returns the normalized cache key of seg.
//
// CacheKeyOf is pure and total. The tuple and the scalar form of the
// same dynamic segment have the same key. A nil segment has the empty key.
func CacheKeyOf(seg Segment, opts ...KeyOption) CacheKey {
	var o keyOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch seg := seg.(type) {
	case nil:
		return ""
	case DynamicSegment:
		return CacheKey(seg.String())
	case StaticSegment:
		if o.withoutSearchParams && strings.HasPrefix(string(seg), PageSegmentKey) {
			return PageSegmentKey
		}
		return CacheKey(seg)
	default:
		return CacheKey(seg.String())
	}
}
