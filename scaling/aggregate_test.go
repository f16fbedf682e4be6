// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaling

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func s(procs, elems int, wall, user, sys float64) Sample {
	return Sample{Procs: procs, Elems: elems, Wall: wall, User: user, Sys: sys}
}

func sc(config string, procs, elems int, wall float64) Sample {
	return Sample{Procs: procs, Elems: elems, Config: config, Wall: wall}
}

func TestIngestValidation(t *testing.T) {
	for _, test := range []struct {
		name   string
		sample Sample
		field  string
	}{
		{"zero procs", s(0, 1000, 1, 1, 1), "process count"},
		{"negative procs", s(-2, 1000, 1, 1, 1), "process count"},
		{"zero elems", s(1, 0, 1, 1, 1), "elements per process"},
		{"negative wall", s(1, 1000, -1, 1, 1), "wall time"},
		{"negative user", s(1, 1000, 1, -0.5, 1), "user time"},
		{"negative sys", s(1, 1000, 1, 1, -1e-9), "sys time"},
		{"NaN wall", s(1, 1000, math.NaN(), 1, 1), "wall time"},
		{"Inf sys", s(1, 1000, 1, 1, math.Inf(1)), "sys time"},
	} {
		t.Run(test.name, func(t *testing.T) {
			bad := test.sample
			bad.Source = Source{"results.csv", 7}
			g, err := Ingest([]Sample{s(1, 1000, 1, 1, 1), bad})
			if g != nil {
				t.Errorf("want no groups on error, got %v", g)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want *ValidationError, got %v", err)
			}
			if verr.Index != 1 || verr.Field != test.field {
				t.Errorf("want index 1 field %q, got index %d field %q", test.field, verr.Index, verr.Field)
			}
			if want := "results.csv:7: invalid " + test.field; !strings.HasPrefix(err.Error(), want) {
				t.Errorf("error %q does not start with %q", err, want)
			}
		})
	}
}

func TestIngestGroups(t *testing.T) {
	g, err := Ingest([]Sample{
		s(2, 1000, 6, 5, 1),
		sc("2_nodes", 2, 1000, 7),
		s(1, 1000, 10, 8, 1),
		s(2, 1000, 6.5, 5, 1.5),
		{Procs: 2, Elems: 1000, Config: DefaultConfig, Wall: 5.5},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := Grouped{
		DefaultConfig: {
			{1, 1000}: {Wall: []float64{10}, User: []float64{8}, Sys: []float64{1}},
			{2, 1000}: {Wall: []float64{6, 6.5, 5.5}, User: []float64{5, 5, 0}, Sys: []float64{1, 1.5, 0}},
		},
		"2_nodes": {
			{2, 1000}: {Wall: []float64{7}, User: []float64{0}, Sys: []float64{0}},
		},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("Ingest mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2_nodes", DefaultConfig}, g.Labels()); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}
}

func mustAggregate(t *testing.T, samples []Sample) Aggregated {
	t.Helper()
	g, err := Ingest(samples)
	if err != nil {
		t.Fatal(err)
	}
	return Aggregate(g)
}

func TestAggregateSingleSample(t *testing.T) {
	a := mustAggregate(t, []Sample{s(1, 1000, 10.0, 8.0, 1.0)})
	want := AggregatedPoint{N: 1, MeanWall: 10, StdDevWall: 0, MinWall: 10, MaxWall: 10, MeanUser: 8, MeanSys: 1}
	if diff := cmp.Diff(want, a[DefaultConfig][ConfigKey{1, 1000}]); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	ov, err := ComputeOverhead(a[DefaultConfig][ConfigKey{1, 1000}])
	if err != nil || ov != 10 {
		t.Errorf("ComputeOverhead = %v, %v; want 10, nil", ov, err)
	}
}

func TestAggregateStats(t *testing.T) {
	walls := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	var samples []Sample
	for i, w := range walls {
		samples = append(samples, s(4, 500, w, float64(i), 0.5))
	}
	got := mustAggregate(t, samples)[DefaultConfig][ConfigKey{4, 500}]
	want := AggregatedPoint{N: 8, MeanWall: 5, StdDevWall: 2, MinWall: 2, MaxWall: 9, MeanUser: 3.5, MeanSys: 0.5}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatePermutationInvariant(t *testing.T) {
	var samples []Sample
	for i := 0; i < 40; i++ {
		// Values that don't sum exactly, so summation order
		// would show up in the low bits.
		w := 0.1 + float64(i)*0.37/3
		samples = append(samples, s(1+i%3, 1000, w, w/3, w/7))
	}
	want := mustAggregate(t, samples)

	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]Sample(nil), samples...)
		r.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		// No tolerance: results must be bit-identical.
		if diff := cmp.Diff(want, mustAggregate(t, shuffled)); diff != "" {
			t.Fatalf("trial %d: aggregate depends on input order (-want +got):\n%s", trial, diff)
		}
	}
}

func TestAggregateIdempotent(t *testing.T) {
	samples := []Sample{s(1, 10, 0.3, 0.1, 0.2), s(1, 10, 0.7, 0.2, 0.1), s(1, 10, 1.1, 0.3, 0.3)}
	g, err := Ingest(samples)
	if err != nil {
		t.Fatal(err)
	}
	first, second := Aggregate(g), Aggregate(g)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Aggregate differs (-first +second):\n%s", diff)
	}
}

func TestStdDevZeroIffIdentical(t *testing.T) {
	for _, test := range []struct {
		walls []float64
		zero  bool
	}{
		{[]float64{3.25}, true},
		{[]float64{3.25, 3.25, 3.25}, true},
		{[]float64{0, 0}, true},
		{[]float64{3.25, 3.25, 3.2500000000000004}, false},
		{[]float64{1, 2}, false},
	} {
		var samples []Sample
		for _, w := range test.walls {
			samples = append(samples, s(1, 1, w, 0, 0))
		}
		p := mustAggregate(t, samples)[DefaultConfig][ConfigKey{1, 1}]
		if p.StdDevWall < 0 {
			t.Errorf("%v: negative stddev %v", test.walls, p.StdDevWall)
		}
		if (p.StdDevWall == 0) != test.zero {
			t.Errorf("%v: stddev = %v, want zero=%v", test.walls, p.StdDevWall, test.zero)
		}
	}
}
