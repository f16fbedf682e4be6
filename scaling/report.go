// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaling

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alitto/pond"
)

// Options configures Analyze.
type Options struct {
	// Elems restricts the derived series to these workload sizes.
	// If empty, every workload size present in a configuration
	// gets a series. A requested size with no data produces a
	// *MissingBaselineError in Report.Errors.
	Elems []int

	// Base and Compare are the configuration labels of the
	// cross-configuration comparison. If both are empty and the
	// input has exactly two labels, the first label in ascending
	// order is the base. Otherwise no comparison is made.
	Base, Compare string

	// Workers bounds how many configurations are derived
	// concurrently. Values below 2 derive them one at a time.
	// The Report is the same for any number of workers.
	Workers int
}

// A Report is the result of analyzing a batch of samples.
type Report struct {
	// Aggregated holds every aggregated point of the batch.
	Aggregated Aggregated

	// Configs holds the derived metrics of each configuration,
	// in ascending label order.
	Configs []*ConfigReport

	// Cross is the cross-configuration comparison, or nil.
	Cross *CrossReport

	// Errors lists problems local to one series or point. Each is
	// a *MissingBaselineError or a *GroupError. The affected
	// series is omitted or the affected value is NaN; everything
	// else in the Report is unaffected.
	Errors []error
}

// A ConfigReport holds the derived metrics of one configuration.
type ConfigReport struct {
	Config string
	Points map[ConfigKey]AggregatedPoint
	// Series holds one series per workload size, in ascending
	// order of workload size.
	Series []*Series

	errs []error
}

// A Series holds the derived metrics of one workload size within one
// configuration, in ascending order of process count.
type Series struct {
	Config string
	Elems  int
	Base   ConfigKey // baseline point of the series
	Points []DerivedPoint
}

// Ideal returns the speedup of perfect linear scaling at procs
// relative to the series baseline.
func (s *Series) Ideal(procs int) float64 {
	return float64(procs) / float64(s.Base.Procs)
}

// A DerivedPoint is an aggregated point together with the metrics
// derived from it. Undefined metrics are NaN.
type DerivedPoint struct {
	Procs int
	AggregatedPoint

	Speedup       float64
	EfficiencyPct float64
	OverheadPct   float64
}

// A CrossReport compares the points two configurations have in common.
type CrossReport struct {
	Base, Compare string
	// Points are in ascending order of workload size, then
	// process count.
	Points []CrossPoint
}

// A CrossPoint compares one ConfigKey across two configurations.
type CrossPoint struct {
	Key           ConfigKey
	Base, Compare AggregatedPoint
	OverheadPct   float64
}

// Analyze ingests samples, aggregates them, and derives every series
// of every configuration, plus the cross-configuration comparison
// selected by opts.
//
// Analyze fails only if a sample is invalid (see Ingest) or opts names
// an unknown configuration. Problems confined to one series or point
// are reported in Report.Errors.
func Analyze(samples []Sample, opts Options) (*Report, error) {
	g, err := Ingest(samples)
	if err != nil {
		return nil, err
	}
	agg := Aggregate(g)
	labels := agg.Labels()

	base, compare, err := crossLabels(agg, labels, opts)
	if err != nil {
		return nil, err
	}

	r := &Report{Aggregated: agg, Configs: make([]*ConfigReport, len(labels))}
	elems := normalizeElems(opts.Elems)
	derive := func(i int) {
		r.Configs[i] = deriveConfig(labels[i], agg[labels[i]], elems)
	}
	if opts.Workers > 1 && len(labels) > 1 {
		pool := pond.New(opts.Workers, len(labels))
		for i := range labels {
			i := i
			pool.Submit(func() { derive(i) })
		}
		pool.StopAndWait()
	} else {
		for i := range labels {
			derive(i)
		}
	}
	for _, c := range r.Configs {
		r.Errors = append(r.Errors, c.errs...)
		c.errs = nil
	}

	if base != "" {
		var errs []error
		r.Cross, errs = deriveCross(base, compare, agg, elems)
		r.Errors = append(r.Errors, errs...)
	}
	return r, nil
}

// Config returns the report for the named configuration, or nil.
func (r *Report) Config(label string) *ConfigReport {
	for _, c := range r.Configs {
		if c.Config == label {
			return c
		}
	}
	return nil
}

// SeriesFor returns the series for workload size elems, or nil.
func (c *ConfigReport) SeriesFor(elems int) *Series {
	for _, s := range c.Series {
		if s.Elems == elems {
			return s
		}
	}
	return nil
}

func crossLabels(agg Aggregated, labels []string, opts Options) (base, compare string, err error) {
	base, compare = opts.Base, opts.Compare
	if base == "" && compare == "" {
		if len(labels) == 2 {
			return labels[0], labels[1], nil
		}
		return "", "", nil
	}
	if base == "" || compare == "" {
		return "", "", errors.New("cross-config comparison needs both a base and a compare configuration")
	}
	if base == compare {
		return "", "", fmt.Errorf("cannot compare configuration %q with itself", base)
	}
	for _, l := range []string{base, compare} {
		if _, ok := agg[l]; !ok {
			return "", "", fmt.Errorf("unknown configuration %q", l)
		}
	}
	return base, compare, nil
}

func normalizeElems(elems []int) []int {
	if len(elems) == 0 {
		return nil
	}
	out := append([]int(nil), elems...)
	sort.Ints(out)
	j := 0
	for i, e := range out {
		if i == 0 || e != out[j-1] {
			out[j] = e
			j++
		}
	}
	return out[:j]
}

func deriveConfig(label string, points map[ConfigKey]AggregatedPoint, elems []int) *ConfigReport {
	c := &ConfigReport{Config: label, Points: points}
	if elems == nil {
		elems = Workloads(points)
	}
	for _, e := range elems {
		speedups, err := ComputeSpeedup(points, e)
		if err != nil {
			c.errs = append(c.errs, &MissingBaselineError{Config: label, Elems: e})
			continue
		}
		base, _ := Baseline(points, e)
		s := &Series{Config: label, Elems: e, Base: base}
		for _, procs := range ProcCounts(points, e) {
			key := ConfigKey{procs, e}
			p := points[key]
			d := DerivedPoint{Procs: procs, AggregatedPoint: p, Speedup: speedups[procs]}
			if err := SpeedupErr(d.Speedup); err != nil {
				c.errs = append(c.errs, &GroupError{Config: label, Key: key, Err: err})
			}
			d.EfficiencyPct = ComputeEfficiency(d.Speedup, procs)
			d.OverheadPct, err = ComputeOverhead(p)
			if err != nil {
				c.errs = append(c.errs, &GroupError{Config: label, Key: key, Err: err})
			}
			s.Points = append(s.Points, d)
		}
		c.Series = append(c.Series, s)
	}
	return c
}

func deriveCross(base, compare string, agg Aggregated, elems []int) (*CrossReport, []error) {
	cr := &CrossReport{Base: base, Compare: compare}
	want := make(map[int]bool)
	for _, e := range elems {
		want[e] = true
	}
	a, b := agg[base], agg[compare]
	var keys []ConfigKey
	for k := range a {
		if len(want) > 0 && !want[k.Elems] {
			continue
		}
		if _, ok := b[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Elems != keys[j].Elems {
			return keys[i].Elems < keys[j].Elems
		}
		return keys[i].Procs < keys[j].Procs
	})
	var errs []error
	for _, k := range keys {
		pa, pb := a[k], b[k]
		ov, err := ComputeCrossConfigOverhead(pa, pb)
		if err != nil {
			errs = append(errs, &GroupError{Config: base + "/" + compare, Key: k, Err: err})
		}
		cr.Points = append(cr.Points, CrossPoint{Key: k, Base: pa, Compare: pb, OverheadPct: ov})
	}
	return cr, errs
}
