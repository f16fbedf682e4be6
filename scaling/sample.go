// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scaling reduces repeated timing samples of parallel
// benchmark runs into scaling metrics: mean execution time and its
// spread, speedup, parallel efficiency, communication overhead, and
// the overhead of one deployment configuration relative to another.
//
// The reduction happens in two pure passes. Ingest folds raw samples
// into groups keyed by configuration label and ConfigKey; Aggregate
// reduces each group to an AggregatedPoint. Derived metrics are
// computed on demand from aggregated points.
//
// Errors that affect a single group (a workload size with no data, a
// point with zero duration) never abort a batch. Analyze returns them
// as a list alongside whatever results could be computed.
package scaling

import "fmt"

// DefaultConfig is the configuration label given to samples that
// don't carry one. Input with a single deployment configuration uses
// only this label.
const DefaultConfig = "default"

// A Sample is one raw measurement of a benchmark run.
type Sample struct {
	// Procs is the number of processes the run used.
	Procs int
	// Elems is the number of elements each process worked on.
	Elems int

	// Config is the deployment configuration label, such as
	// "1_node" or "2_nodes". Empty means DefaultConfig.
	Config string

	// Wall, User and Sys are the wall-clock, user CPU and system
	// CPU times of the run, in seconds.
	Wall, User, Sys float64

	// Source optionally records where the sample was read from.
	// It is used only in error messages.
	Source Source
}

// A Source identifies the input record a Sample came from.
type Source struct {
	File string
	Line int
}

func (s Source) String() string {
	if s.File == "" && s.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// Key returns the ConfigKey of s.
func (s *Sample) Key() ConfigKey {
	return ConfigKey{s.Procs, s.Elems}
}

// Label returns the configuration label of s, substituting
// DefaultConfig for the empty label.
func (s *Sample) Label() string {
	if s.Config == "" {
		return DefaultConfig
	}
	return s.Config
}

// A ConfigKey identifies one experimental condition within a
// configuration label.
type ConfigKey struct {
	Procs int // process count
	Elems int // elements per process
}

func (k ConfigKey) String() string {
	return fmt.Sprintf("procs=%d elems=%d", k.Procs, k.Elems)
}
