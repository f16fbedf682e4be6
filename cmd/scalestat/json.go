// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"
	"math"

	"github.com/scalestat/scalestat/scaling"
)

// JSON output. Undefined metrics are null.

type jsonReport struct {
	Configs []jsonConfig `json:"configs"`
	Cross   *jsonCross   `json:"cross,omitempty"`
	Errors  []string     `json:"errors,omitempty"`
}

type jsonConfig struct {
	Config string       `json:"config"`
	Series []jsonSeries `json:"series"`
}

type jsonSeries struct {
	Elems     int         `json:"elems"`
	BaseProcs int         `json:"base_procs"`
	Points    []jsonPoint `json:"points"`
}

type jsonPoint struct {
	Procs         int      `json:"procs"`
	N             int      `json:"n"`
	MeanWall      float64  `json:"mean_wall"`
	StdDevWall    float64  `json:"stddev_wall"`
	MinWall       float64  `json:"min_wall"`
	MaxWall       float64  `json:"max_wall"`
	MeanUser      float64  `json:"mean_user"`
	MeanSys       float64  `json:"mean_sys"`
	Speedup       *float64 `json:"speedup"`
	Ideal         float64  `json:"ideal_speedup"`
	EfficiencyPct *float64 `json:"efficiency_pct"`
	OverheadPct   *float64 `json:"overhead_pct"`
}

type jsonCross struct {
	Base    string           `json:"base"`
	Compare string           `json:"compare"`
	Points  []jsonCrossPoint `json:"points"`
}

type jsonCrossPoint struct {
	Elems       int      `json:"elems"`
	Procs       int      `json:"procs"`
	BaseWall    float64  `json:"base_wall"`
	CompareWall float64  `json:"compare_wall"`
	OverheadPct *float64 `json:"overhead_pct"`
}

func formatJSON(w io.Writer, r *scaling.Report) error {
	out := jsonReport{Configs: []jsonConfig{}}
	for _, c := range r.Configs {
		jc := jsonConfig{Config: c.Config, Series: []jsonSeries{}}
		for _, s := range c.Series {
			js := jsonSeries{Elems: s.Elems, BaseProcs: s.Base.Procs}
			for _, p := range s.Points {
				js.Points = append(js.Points, jsonPoint{
					Procs:         p.Procs,
					N:             p.N,
					MeanWall:      p.MeanWall,
					StdDevWall:    p.StdDevWall,
					MinWall:       p.MinWall,
					MaxWall:       p.MaxWall,
					MeanUser:      p.MeanUser,
					MeanSys:       p.MeanSys,
					Speedup:       defined(p.Speedup),
					Ideal:         s.Ideal(p.Procs),
					EfficiencyPct: defined(p.EfficiencyPct),
					OverheadPct:   defined(p.OverheadPct),
				})
			}
			jc.Series = append(jc.Series, js)
		}
		out.Configs = append(out.Configs, jc)
	}
	if cr := r.Cross; cr != nil {
		jx := &jsonCross{Base: cr.Base, Compare: cr.Compare, Points: []jsonCrossPoint{}}
		for _, p := range cr.Points {
			jx.Points = append(jx.Points, jsonCrossPoint{
				Elems:       p.Key.Elems,
				Procs:       p.Key.Procs,
				BaseWall:    p.Base.MeanWall,
				CompareWall: p.Compare.MeanWall,
				OverheadPct: defined(p.OverheadPct),
			})
		}
		out.Cross = jx
	}
	for _, err := range r.Errors {
		out.Errors = append(out.Errors, err.Error())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(out)
}

// defined returns a pointer to v, or nil if v is NaN.
func defined(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
