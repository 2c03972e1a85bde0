// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"braces.dev/errtrace"
	"github.com/gaissmai/navcache"
	"gopkg.in/yaml.v3"
)

// fixture is the YAML input of navfill.
//
//	url: /blog/post-1/comments
//	existing:
//	  subtree: root
//	  slots:
//	    children:
//	      blog: {subtree: blog}
//	paths:
//	  - [children, blog, children, post-1]
type fixture struct {
	URL      string     `yaml:"url"`
	Existing nodeSpec   `yaml:"existing"`
	Paths    [][]string `yaml:"paths"`
}

// nodeSpec describes one cache node, children by slot and segment.
type nodeSpec struct {
	// Status is ready (default), lazy or fetch.
	Status  string                         `yaml:"status"`
	SubTree *string                        `yaml:"subtree"`
	Slots   map[string]map[string]nodeSpec `yaml:"slots"`
}

func loadFixture(name string) (*fixture, error) {
	buf, err := os.ReadFile(name)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	var fx fixture
	if err := yaml.Unmarshal(buf, &fx); err != nil {
		return nil, errtrace.Wrap(fmt.Errorf("parse %s: %w", name, err))
	}
	if fx.URL == "" {
		fx.URL = "/"
	}
	return &fx, nil
}

func (fx *fixture) segmentPaths() ([]navcache.SegmentPath, error) {
	paths := make([]navcache.SegmentPath, 0, len(fx.Paths))
	for i, flat := range fx.Paths {
		p, err := navcache.ParsePath(flat)
		if err != nil {
			return nil, errtrace.Wrap(fmt.Errorf("path #%d: %w", i, err))
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// build returns the cache tree described by ns.
func (ns nodeSpec) build() (*navcache.Node[string], error) {
	var n *navcache.Node[string]

	switch ns.Status {
	case "", "ready":
		n = navcache.NewNode[string](navcache.Ready)
	case "lazy":
		n = navcache.NewNode[string](navcache.Lazy)
	case "fetch":
		n = navcache.NewFetchNode(navcache.NewFetch[string]())
	default:
		return nil, errtrace.Errorf("unknown status %q", ns.Status)
	}
	n.SubTree = ns.SubTree

	for slot, kids := range ns.Slots {
		m := navcache.NewSegmentMap[string]()
		for seg, kid := range kids {
			kn, err := kid.build()
			if err != nil {
				return nil, errtrace.Wrap(fmt.Errorf("%s/%s: %w", slot, seg, err))
			}
			m.Set(navcache.CacheKeyOf(navcache.ParseSegment(seg)), kn)
		}
		n.SetSlot(slot, m)
	}

	return n, nil
}
