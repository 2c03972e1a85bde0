// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// navfill fills a navigation cache tree from a YAML fixture and prints
// the resulting tree.
//
//	navfill [-debug] [-bail-parallel] [-settle] [-json] fixture.yaml
//
// All flags may be set from the environment with the NAVFILL_ prefix,
// e.g. NAVFILL_DEBUG=true, or from a config file given with -config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"braces.dev/errtrace"
	"github.com/gaissmai/navcache"
	"github.com/peterbourgon/ff/v3"
)

func main() {
	cmd := mainCmd{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// params holds all arguments for navfill.
type params struct {
	Debug        bool
	BailParallel bool
	Settle       bool
	JSON         bool
	Timeout      time.Duration

	Fixture string
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	log *slog.Logger
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	opts, err := cmd.parseParams(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(cmd.Stderr, err)
		return 2
	}

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	cmd.log = slog.New(slog.NewTextHandler(cmd.Stderr, &slog.HandlerOptions{Level: level}))

	if err := cmd.run(opts); err != nil {
		cmd.log.Error("navfill failed", slog.Any("error", err))
		return 1
	}
	return 0
}

func (cmd *mainCmd) parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("navfill", flag.ContinueOnError)
	fs.SetOutput(cmd.Stderr)

	var p params
	fs.BoolVar(&p.Debug, "debug", false, "log every fill and fetch")
	fs.BoolVar(&p.BailParallel, "bail-parallel", false, "bail when a level has more than one parallel route")
	fs.BoolVar(&p.Settle, "settle", false, "wait for the fetches and settle the frontier nodes")
	fs.BoolVar(&p.JSON, "json", false, "print the tree as JSON")
	fs.DurationVar(&p.Timeout, "timeout", 5*time.Second, "upper bound for settling the fetches")
	_ = fs.String("config", "", "config file (optional)")

	err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("NAVFILL"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errtrace.New("please provide exactly one fixture file")
	}
	p.Fixture = fs.Arg(0)

	return &p, nil
}

func (cmd *mainCmd) run(opts *params) error {
	fx, err := loadFixture(opts.Fixture)
	if err != nil {
		return errtrace.Wrap(err)
	}

	existing, err := fx.Existing.build()
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("existing tree: %w", err))
	}

	paths, err := fx.segmentPaths()
	if err != nil {
		return errtrace.Wrap(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	loader := &navcache.Loader[string]{
		Transport: navcache.TransportFunc[string](fakeTransport),
		Logger:    cmd.log,
	}
	filler := navcache.Filler[string]{
		Logger:               cmd.log,
		BailOnParallelRoutes: opts.BailParallel,
	}

	// fetches started by this run, their nodes are owned by newRoot
	started := make(map[*navcache.Fetch[string]]struct{})

	newRoot := existing.Clone()
	res := filler.FillAll(newRoot, existing, paths, func(p navcache.SegmentPath) navcache.FetchFunc[string] {
		fetch := loader.FetchFunc(ctx, fx.URL, p)
		return func() *navcache.Fetch[string] {
			f := fetch()
			started[f] = struct{}{}
			return f
		}
	})
	if res.Bailed() {
		fmt.Fprintln(cmd.Stdout, "bail: the cached tree can't serve this navigation, fetch it uncached")
		return nil
	}

	if opts.Settle {
		if err := settleFrontier(ctx, newRoot, started); err != nil {
			return errtrace.Wrap(err)
		}
	}

	if opts.JSON {
		buf, err := newRoot.MarshalJSON()
		if err != nil {
			return errtrace.Wrap(err)
		}
		fmt.Fprintln(cmd.Stdout, string(buf))
		return nil
	}

	newRoot.Dump(cmd.Stdout)
	return nil
}

// settleFrontier waits for the started fetches below root and settles
// their nodes in place. DataFetch nodes still shared with the existing
// tree hold other handles and are skipped.
func settleFrontier(ctx context.Context, root *navcache.Node[string], started map[*navcache.Fetch[string]]struct{}) error {
	for _, path := range root.Frontier() {
		n, _ := root.Lookup(path)
		if _, ok := started[n.Data]; !ok {
			continue
		}
		if _, err := n.Data.Wait(ctx); err != nil {
			return errtrace.Wrap(fmt.Errorf("fetch %v: %w", path, err))
		}
		n.Settle()
	}
	return nil
}

// fakeTransport answers every request with the rendered path.
func fakeTransport(_ context.Context, url string, path navcache.SegmentPath) (string, error) {
	if strings.Contains(url, "/error") {
		return "", errtrace.New("server error")
	}
	return "rendered " + path.String(), nil
}
