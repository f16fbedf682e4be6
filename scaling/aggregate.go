// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaling

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// Times holds the raw measurements of one group, in input order.
type Times struct {
	Wall, User, Sys []float64
}

// Grouped maps a configuration label and ConfigKey to the raw times
// of every sample sharing them.
type Grouped map[string]map[ConfigKey]*Times

// Labels returns the configuration labels of g in ascending order.
func (g Grouped) Labels() []string {
	return sortedLabels(g)
}

// Ingest groups samples by configuration label and ConfigKey.
// Grouping does not depend on the order of samples.
//
// If any sample has a non-positive process count or workload size,
// or a negative or non-finite time, Ingest returns a
// *ValidationError identifying the first such sample and no groups.
func Ingest(samples []Sample) (Grouped, error) {
	g := make(Grouped)
	for i := range samples {
		s := &samples[i]
		if err := validate(i, s); err != nil {
			return nil, err
		}
		label := s.Label()
		byKey := g[label]
		if byKey == nil {
			byKey = make(map[ConfigKey]*Times)
			g[label] = byKey
		}
		t := byKey[s.Key()]
		if t == nil {
			t = new(Times)
			byKey[s.Key()] = t
		}
		t.Wall = append(t.Wall, s.Wall)
		t.User = append(t.User, s.User)
		t.Sys = append(t.Sys, s.Sys)
	}
	return g, nil
}

func validate(i int, s *Sample) error {
	bad := func(field, msg string) error {
		return &ValidationError{Index: i, Source: s.Source, Field: field, Msg: msg}
	}
	if s.Procs <= 0 {
		return bad("process count", "must be positive")
	}
	if s.Elems <= 0 {
		return bad("elements per process", "must be positive")
	}
	for _, f := range []struct {
		name string
		val  float64
	}{{"wall time", s.Wall}, {"user time", s.User}, {"sys time", s.Sys}} {
		switch {
		case math.IsNaN(f.val) || math.IsInf(f.val, 0):
			return bad(f.name, "must be finite")
		case f.val < 0:
			return bad(f.name, "must not be negative")
		}
	}
	return nil
}

// An AggregatedPoint summarizes the samples of one group.
type AggregatedPoint struct {
	N int // number of samples

	MeanWall   float64
	StdDevWall float64 // population standard deviation
	MinWall    float64
	MaxWall    float64

	MeanUser float64
	MeanSys  float64
}

// Aggregated maps a configuration label and ConfigKey to the
// aggregated point of that group.
type Aggregated map[string]map[ConfigKey]AggregatedPoint

// Labels returns the configuration labels of a in ascending order.
func (a Aggregated) Labels() []string {
	return sortedLabels(a)
}

// Aggregate reduces every group of g to an AggregatedPoint.
//
// The values of each group are sorted before they are reduced, so
// the result is bit-for-bit identical for any permutation of the
// input samples and across repeated calls.
func Aggregate(g Grouped) Aggregated {
	a := make(Aggregated, len(g))
	for label, byKey := range g {
		points := make(map[ConfigKey]AggregatedPoint, len(byKey))
		for k, t := range byKey {
			if len(t.Wall) == 0 {
				continue
			}
			points[k] = reduce(t)
		}
		a[label] = points
	}
	return a
}

func reduce(t *Times) AggregatedPoint {
	wall := sorted(t.Wall)
	p := AggregatedPoint{
		N:          len(wall),
		MeanWall:   stats.Mean(wall),
		StdDevWall: popStdDev(wall),
		MeanUser:   stats.Mean(sorted(t.User)),
		MeanSys:    stats.Mean(sorted(t.Sys)),
	}
	p.MinWall, p.MaxWall = stats.Bounds(wall)
	return p
}

// popStdDev returns the population standard deviation of xs.
// stats.Variance is the sample variance, so rescale by (n-1)/n.
func popStdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	v := stats.Variance(xs) * float64(n-1) / float64(n)
	return math.Sqrt(v)
}

func sorted(xs []float64) []float64 {
	ys := append([]float64(nil), xs...)
	sort.Float64s(ys)
	return ys
}

func sortedLabels[V any](m map[string]V) []string {
	labels := make([]string, 0, len(m))
	for l := range m {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
