// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaling

import (
	"math"
	"sort"
)

// Baseline returns the point speedups for workload size elems are
// measured against: the one with the smallest process count present
// in points. It reports false if points has no point for elems.
//
// The baseline is chosen by explicit comparison, so a missing
// single-process run simply moves the baseline to the next smallest
// process count.
func Baseline(points map[ConfigKey]AggregatedPoint, elems int) (ConfigKey, bool) {
	var base ConfigKey
	found := false
	for k := range points {
		if k.Elems != elems {
			continue
		}
		if !found || k.Procs < base.Procs {
			base, found = k, true
		}
	}
	return base, found
}

// ProcCounts returns the process counts present in points for
// workload size elems, in ascending order.
func ProcCounts(points map[ConfigKey]AggregatedPoint, elems int) []int {
	var procs []int
	for k := range points {
		if k.Elems == elems {
			procs = append(procs, k.Procs)
		}
	}
	sort.Ints(procs)
	return procs
}

// Workloads returns the distinct workload sizes present in points, in
// ascending order.
func Workloads(points map[ConfigKey]AggregatedPoint) []int {
	seen := make(map[int]bool)
	var elems []int
	for k := range points {
		if !seen[k.Elems] {
			seen[k.Elems] = true
			elems = append(elems, k.Elems)
		}
	}
	sort.Ints(elems)
	return elems
}

// ComputeSpeedup returns, for every process count with a point for
// workload size elems, the ratio of the baseline mean wall time to
// that point's mean wall time. The speedup at the baseline process
// count is exactly 1 unless the baseline took no time at all.
//
// A point with zero mean wall time has an undefined speedup, which is
// reported as NaN; see SpeedupErr. If the baseline itself has zero
// mean wall time, every speedup of the series is undefined. If there
// is no point for elems at all, ComputeSpeedup returns a
// *MissingBaselineError.
func ComputeSpeedup(points map[ConfigKey]AggregatedPoint, elems int) (map[int]float64, error) {
	base, ok := Baseline(points, elems)
	if !ok {
		return nil, &MissingBaselineError{Elems: elems}
	}
	baseWall := points[base].MeanWall
	speedups := make(map[int]float64)
	for k, p := range points {
		if k.Elems != elems {
			continue
		}
		if p.MeanWall == 0 || baseWall == 0 {
			speedups[k.Procs] = math.NaN()
			continue
		}
		speedups[k.Procs] = baseWall / p.MeanWall
	}
	return speedups, nil
}

// SpeedupErr returns a *DivisionError if speedup is undefined because
// the point or its baseline has zero mean wall time.
func SpeedupErr(speedup float64) error {
	if math.IsNaN(speedup) {
		return &DivisionError{"speedup", ErrZeroDuration}
	}
	return nil
}

// ComputeEfficiency returns the parallel efficiency, in percent, of a
// run on procs processes that achieved the given speedup. 100 means
// perfect linear scaling. The result is not clamped: super-linear
// speedup yields an efficiency above 100.
func ComputeEfficiency(speedup float64, procs int) float64 {
	return 100 * speedup / float64(procs)
}

// ComputeOverhead returns the share of p's wall time spent in system
// time, in percent. If p has zero mean wall time, the overhead is
// undefined: ComputeOverhead returns NaN and a *DivisionError
// wrapping ErrZeroDuration.
func ComputeOverhead(p AggregatedPoint) (float64, error) {
	if p.MeanWall == 0 {
		return math.NaN(), &DivisionError{"overhead", ErrZeroDuration}
	}
	return 100 * p.MeanSys / p.MeanWall, nil
}

// ComputeCrossConfigOverhead returns how much longer, in percent, the
// run measured by b took than the run measured by a with the same
// ConfigKey in another configuration. For example, a may be a
// single-node run and b a multi-node run; the result is then the cost
// of the network. A negative result means b was faster.
//
// If a has zero mean wall time, ComputeCrossConfigOverhead returns
// NaN and a *DivisionError wrapping ErrZeroDuration.
func ComputeCrossConfigOverhead(a, b AggregatedPoint) (float64, error) {
	if a.MeanWall == 0 {
		return math.NaN(), &DivisionError{"cross-config overhead", ErrZeroDuration}
	}
	return 100 * (b.MeanWall - a.MeanWall) / a.MeanWall, nil
}
