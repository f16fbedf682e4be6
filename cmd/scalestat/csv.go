// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/aclements/go-gg/table"
	"github.com/scalestat/scalestat/scaleunit"
	"github.com/scalestat/scalestat/scaling"
)

// formatCSV writes the derived series of r as one CSV table and, if
// r compares two configurations, the comparison as a second table
// separated by a blank line. Undefined metrics are empty cells.
func formatCSV(w io.Writer, r *scaling.Report) error {
	if err := writeTable(w, r.Table()); err != nil {
		return err
	}
	if cross := r.CrossTable(); len(cross.Columns()) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		return writeTable(w, cross)
	}
	return nil
}

func writeTable(w io.Writer, t *table.Table) error {
	cols := t.Columns()
	if len(cols) == 0 {
		return nil
	}
	cells := make([][]string, len(cols))
	for i, name := range cols {
		c, err := formatColumn(t.Column(name))
		if err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		cells[i] = c
	}

	cw := csv.NewWriter(w)
	cw.Write(cols)
	rec := make([]string, len(cols))
	for row := 0; row < t.Len(); row++ {
		for i := range cols {
			rec[i] = cells[i][row]
		}
		cw.Write(rec)
	}
	cw.Flush()
	return cw.Error()
}

func formatColumn(s table.Slice) ([]string, error) {
	switch s := s.(type) {
	case []string:
		return s, nil
	case []int:
		out := make([]string, len(s))
		for i, v := range s {
			out[i] = strconv.Itoa(v)
		}
		return out, nil
	case []float64:
		out := make([]string, len(s))
		for i, v := range s {
			if !math.IsNaN(v) {
				out[i] = scaleunit.NoOpScaler.Format(v)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported column type %T", s)
}
