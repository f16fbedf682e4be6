// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaling

import "github.com/aclements/go-gg/table"

// Column names of the tables returned by Report.Table and
// Report.CrossTable.
const (
	ColConfig     = "config"
	ColElems      = "elems"
	ColProcs      = "procs"
	ColN          = "n"
	ColWall       = "mean wall"
	ColWallStdDev = "stddev wall"
	ColWallMin    = "min wall"
	ColWallMax    = "max wall"
	ColUser       = "mean user"
	ColSys        = "mean sys"
	ColSpeedup    = "speedup"
	ColIdeal      = "ideal speedup"
	ColEfficiency = "efficiency %"
	ColOverhead   = "overhead %"

	ColBaseWall    = "base wall"
	ColCompareWall = "compare wall"
)

// Table returns the derived series of r as a single table with one
// row per point, ordered by configuration, workload size and process
// count. This is the form plotting layers consume.
func (r *Report) Table() *table.Table {
	var (
		config                        []string
		elems, procs, n               []int
		wall, sd, lo, hi, user, sys   []float64
		speedup, ideal, eff, overhead []float64
	)
	for _, c := range r.Configs {
		for _, s := range c.Series {
			for _, p := range s.Points {
				config = append(config, c.Config)
				elems = append(elems, s.Elems)
				procs = append(procs, p.Procs)
				n = append(n, p.N)
				wall = append(wall, p.MeanWall)
				sd = append(sd, p.StdDevWall)
				lo = append(lo, p.MinWall)
				hi = append(hi, p.MaxWall)
				user = append(user, p.MeanUser)
				sys = append(sys, p.MeanSys)
				speedup = append(speedup, p.Speedup)
				ideal = append(ideal, s.Ideal(p.Procs))
				eff = append(eff, p.EfficiencyPct)
				overhead = append(overhead, p.OverheadPct)
			}
		}
	}
	if len(config) == 0 {
		return new(table.Table)
	}
	return new(table.Builder).
		Add(ColConfig, config).
		Add(ColElems, elems).
		Add(ColProcs, procs).
		Add(ColN, n).
		Add(ColWall, wall).
		Add(ColWallStdDev, sd).
		Add(ColWallMin, lo).
		Add(ColWallMax, hi).
		Add(ColUser, user).
		Add(ColSys, sys).
		Add(ColSpeedup, speedup).
		Add(ColIdeal, ideal).
		Add(ColEfficiency, eff).
		Add(ColOverhead, overhead).
		Done()
}

// CrossTable returns the cross-configuration comparison of r as a
// table with one row per compared point. It returns an empty table if
// r has no comparison.
func (r *Report) CrossTable() *table.Table {
	if r.Cross == nil || len(r.Cross.Points) == 0 {
		return new(table.Table)
	}
	var (
		elems, procs   []int
		a, b, overhead []float64
	)
	for _, p := range r.Cross.Points {
		elems = append(elems, p.Key.Elems)
		procs = append(procs, p.Key.Procs)
		a = append(a, p.Base.MeanWall)
		b = append(b, p.Compare.MeanWall)
		overhead = append(overhead, p.OverheadPct)
	}
	return new(table.Builder).
		AddConst("base", r.Cross.Base).
		AddConst("compare", r.Cross.Compare).
		Add(ColElems, elems).
		Add(ColProcs, procs).
		Add(ColBaseWall, a).
		Add(ColCompareWall, b).
		Add(ColOverhead, overhead).
		Done()
}
