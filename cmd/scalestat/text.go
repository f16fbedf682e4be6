// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/scalestat/scalestat/internal/texttab"
	"github.com/scalestat/scalestat/scaleunit"
	"github.com/scalestat/scalestat/scaling"
)

// na replaces metrics that are undefined for a point.
const na = "n/a"

func formatText(w io.Writer, r *scaling.Report) error {
	for i, c := range r.Configs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "config: %s\n", c.Config)
		if len(c.Series) == 0 {
			continue
		}
		fmt.Fprintln(w)
		if err := timeTable(c).Format(w); err != nil {
			return err
		}
		fmt.Fprintln(w)
		if err := derivedTable(c).Format(w); err != nil {
			return err
		}
	}

	if cr := r.Cross; cr != nil && len(cr.Points) > 0 {
		if len(r.Configs) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "overhead of %s relative to %s\n\n", cr.Compare, cr.Base)
		if err := crossTable(cr).Format(w); err != nil {
			return err
		}
	}
	return nil
}

// timeTable lays out the mean wall time of every point of c with
// one row per process count and one column per workload size.
func timeTable(c *scaling.ConfigReport) *texttab.Table {
	tab := new(texttab.Table)
	hdr := []string{"procs"}
	scales := make([]scaleunit.Scaler, len(c.Series))
	seen := make(map[int]bool)
	var procs []int
	for i, s := range c.Series {
		hdr = append(hdr, fmt.Sprintf("elems=%d", s.Elems))
		tab.SetAlign(i+1, texttab.Right)

		walls := make([]float64, len(s.Points))
		for j, p := range s.Points {
			walls[j] = p.MeanWall
			if !seen[p.Procs] {
				seen[p.Procs] = true
				procs = append(procs, p.Procs)
			}
		}
		scales[i] = scaleunit.CommonScale(walls, scaleunit.Time)
	}
	sort.Ints(procs)

	tab.Row(hdr...).Rule()
	for _, n := range procs {
		row := []string{strconv.Itoa(n)}
		for i, s := range c.Series {
			cell := ""
			if p, ok := c.Points[scaling.ConfigKey{Procs: n, Elems: s.Elems}]; ok {
				cell = scales[i].Format(p.MeanWall) + "s" + spread(p)
			}
			row = append(row, cell)
		}
		tab.Row(row...)
	}
	return tab
}

// spread formats the standard deviation of p's wall time relative to
// its mean.
func spread(p scaling.AggregatedPoint) string {
	if p.MeanWall == 0 {
		return ""
	}
	return fmt.Sprintf(" ± %.0f%%", 100*p.StdDevWall/p.MeanWall)
}

func derivedTable(c *scaling.ConfigReport) *texttab.Table {
	var user, sys []float64
	for _, s := range c.Series {
		for _, p := range s.Points {
			user = append(user, p.MeanUser)
			sys = append(sys, p.MeanSys)
		}
	}
	us := scaleunit.CommonScale(user, scaleunit.Time)
	ss := scaleunit.CommonScale(sys, scaleunit.Time)

	tab := new(texttab.Table)
	for col := 1; col < 8; col++ {
		tab.SetAlign(col, texttab.Right)
	}
	tab.Row("elems", "procs", "speedup", "ideal", "efficiency", "overhead", "user", "sys").Rule()
	for _, s := range c.Series {
		for _, p := range s.Points {
			tab.Row(
				strconv.Itoa(s.Elems),
				strconv.Itoa(p.Procs),
				ratio(p.Speedup),
				ratio(s.Ideal(p.Procs)),
				percent(p.EfficiencyPct),
				percent(p.OverheadPct),
				us.Format(p.MeanUser)+"s",
				ss.Format(p.MeanSys)+"s",
			)
		}
	}
	return tab
}

func crossTable(cr *scaling.CrossReport) *texttab.Table {
	var walls []float64
	for _, p := range cr.Points {
		walls = append(walls, p.Base.MeanWall, p.Compare.MeanWall)
	}
	sc := scaleunit.CommonScale(walls, scaleunit.Time)

	tab := new(texttab.Table)
	for col := 1; col < 5; col++ {
		tab.SetAlign(col, texttab.Right)
	}
	tab.Row("elems", "procs", cr.Base, cr.Compare, "overhead").Rule()
	for _, p := range cr.Points {
		ov := na
		if !math.IsNaN(p.OverheadPct) {
			ov = fmt.Sprintf("%+.1f%%", p.OverheadPct)
		}
		tab.Row(
			strconv.Itoa(p.Key.Elems),
			strconv.Itoa(p.Key.Procs),
			sc.Format(p.Base.MeanWall)+"s",
			sc.Format(p.Compare.MeanWall)+"s",
			ov,
		)
	}
	return tab
}

func ratio(v float64) string {
	if math.IsNaN(v) {
		return na
	}
	return fmt.Sprintf("%.2f", v)
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return na
	}
	return fmt.Sprintf("%.1f%%", v)
}
