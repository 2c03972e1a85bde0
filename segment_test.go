// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package navcache

import (
	"testing"
)

func TestCacheKeyOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		seg  Segment
		opts []KeyOption
		want CacheKey
	}{
		{
			name: "static",
			seg:  StaticSegment("blog"),
			want: "blog",
		},
		{
			name: "dynamic tuple",
			seg:  DynamicSegment{Param: "slug", Value: "post-1", Type: ParamDynamic},
			want: "slug|post-1|d",
		},
		{
			name: "dynamic scalar",
			seg:  ParseSegment("slug|post-1|d"),
			want: "slug|post-1|d",
		},
		{
			name: "catch all",
			seg:  DynamicSegment{Param: "parts", Value: "a/b", Type: ParamCatchAll},
			want: "parts|a/b|c",
		},
		{
			name: "separator in value",
			seg:  DynamicSegment{Param: "q", Value: "a|b", Type: ParamDynamic},
			want: `q|a\|b|d`,
		},
		{
			name: "backslash in value",
			seg:  DynamicSegment{Param: "q", Value: `a\`, Type: ParamDynamic},
			want: `q|a\\|d`,
		},
		{
			name: "page with search params",
			seg:  StaticSegment(`__PAGE__?{"q":"1"}`),
			want: `__PAGE__?{"q":"1"}`,
		},
		{
			name: "page without search params",
			seg:  StaticSegment(`__PAGE__?{"q":"1"}`),
			opts: []KeyOption{WithoutSearchParams()},
			want: PageSegmentKey,
		},
		{
			name: "nil",
			seg:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		if got := CacheKeyOf(tt.seg, tt.opts...); got != tt.want {
			t.Errorf("%s, want %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestCacheKeyOf_Distinct(t *testing.T) {
	t.Parallel()

	segs := []Segment{
		StaticSegment("blog"),
		StaticSegment("post-1"),
		DynamicSegment{Param: "slug", Value: "post-1", Type: ParamDynamic},
		DynamicSegment{Param: "slug", Value: "post-1", Type: ParamCatchAll},
		DynamicSegment{Param: "id", Value: "post-1", Type: ParamDynamic},
		StaticSegment(PageSegmentKey),

		// separator inside param or value
		DynamicSegment{Param: "a|b", Value: "c", Type: ParamDynamic},
		DynamicSegment{Param: "a", Value: "b|c", Type: ParamDynamic},
		DynamicSegment{Param: `a\`, Value: "b", Type: ParamDynamic},
		DynamicSegment{Param: "a", Value: `\b`, Type: ParamDynamic},
	}

	seen := make(map[CacheKey]Segment)
	for _, seg := range segs {
		key := CacheKeyOf(seg)
		if prev, ok := seen[key]; ok {
			t.Fatalf("%#v and %#v normalize to the same key %q", prev, seg, key)
		}
		seen[key] = seg
	}
}

func TestParseSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Segment
	}{
		{"blog", StaticSegment("blog")},
		{"slug|x|oc", DynamicSegment{Param: "slug", Value: "x", Type: ParamOptionalCatchAll}},
		{`q|a\|b|d`, DynamicSegment{Param: "q", Value: "a|b", Type: ParamDynamic}},

		// unknown type or wrong arity stays static
		{"a|b|zz", StaticSegment("a|b|zz")},
		{"a|b", StaticSegment("a|b")},
		{`a\|b|c`, StaticSegment(`a\|b|c`)},
	}

	for _, tt := range tests {
		if got := ParseSegment(tt.in); got != tt.want {
			t.Errorf("ParseSegment(%q), want %#v, got %#v", tt.in, tt.want, got)
		}
	}
}

func TestParseSegment_RoundTrip(t *testing.T) {
	t.Parallel()

	segs := []DynamicSegment{
		{Param: "id", Value: "7", Type: ParamDynamicIntercepted},
		{Param: "a|b", Value: "c", Type: ParamDynamic},
		{Param: "a", Value: "b|c", Type: ParamCatchAll},
		{Param: `x\`, Value: `\|\`, Type: ParamOptionalCatchAll},
		{Param: "", Value: "", Type: ParamDynamic},
	}

	for _, seg := range segs {
		if got := ParseSegment(seg.String()); got != Segment(seg) {
			t.Errorf("round trip of %#v via %q, got %#v", seg, seg.String(), got)
		}
	}
}
