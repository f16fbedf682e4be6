// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaling_test

import (
	"fmt"
	"log"

	"github.com/scalestat/scalestat/scaling"
)

func ExampleAnalyze() {
	samples := []scaling.Sample{
		{Procs: 1, Elems: 1000, Wall: 8, User: 6, Sys: 1},
		{Procs: 2, Elems: 1000, Wall: 4, User: 3, Sys: 1},
		{Procs: 4, Elems: 1000, Wall: 2, User: 1.5, Sys: 1},
	}
	r, err := scaling.Analyze(samples, scaling.Options{})
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range r.Config(scaling.DefaultConfig).Series {
		for _, p := range s.Points {
			fmt.Printf("elems=%d procs=%d wall=%.1fs speedup=%.2f efficiency=%.0f%% overhead=%.1f%%\n",
				s.Elems, p.Procs, p.MeanWall, p.Speedup, p.EfficiencyPct, p.OverheadPct)
		}
	}
	// Output:
	// elems=1000 procs=1 wall=8.0s speedup=1.00 efficiency=100% overhead=12.5%
	// elems=1000 procs=2 wall=4.0s speedup=2.00 efficiency=100% overhead=25.0%
	// elems=1000 procs=4 wall=2.0s speedup=4.00 efficiency=100% overhead=50.0%
}

func ExampleComputeCrossConfigOverhead() {
	single := scaling.AggregatedPoint{N: 1, MeanWall: 5}
	multi := scaling.AggregatedPoint{N: 1, MeanWall: 6}
	ov, err := scaling.ComputeCrossConfigOverhead(single, multi)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.0f%%\n", ov)
	// Output: 20%
}
