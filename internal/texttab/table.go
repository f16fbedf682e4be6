// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up many rows at once.
type Table struct {
	rows  []row
	align []Align
	cols  int
}

type row struct {
	cells []string
	rule  bool
}

// An Align specifies how a column's cells are padded to the column
// width.
type Align int

const (
	Left Align = iota
	Right
)

// Margin separates adjacent columns.
const Margin = "  "

func (a Align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if a == Right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Row appends a row of cells to table t.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, row{cells: cells})
	if len(cells) > t.cols {
		t.cols = len(cells)
	}
	return t
}

// Rule appends a horizontal rule spanning the width of table t.
func (t *Table) Rule() *Table {
	t.rows = append(t.rows, row{rule: true})
	return t
}

// SetAlign sets the alignment of column col. Columns are numbered
// starting at 0 and are left-aligned by default.
func (t *Table) SetAlign(col int, a Align) *Table {
	for len(t.align) < col+1 {
		t.align = append(t.align, Left)
	}
	t.align[col] = a
	return t
}

// Len returns the number of rows in t, including rules.
func (t *Table) Len() int {
	return len(t.rows)
}

// Format lays out table t and writes it to w. Trailing spaces are
// never printed.
func (t *Table) Format(w io.Writer) error {
	ws := make([]int, t.cols)
	for _, r := range t.rows {
		for i, c := range r.cells {
			if n := utf8.RuneCountInString(c); n > ws[i] {
				ws[i] = n
			}
		}
	}
	width := 0
	for i, cw := range ws {
		if i > 0 {
			width += len(Margin)
		}
		width += cw
	}

	var line strings.Builder
	for _, r := range t.rows {
		line.Reset()
		if r.rule {
			line.WriteString(strings.Repeat("-", width))
		}
		for i, c := range r.cells {
			if i > 0 {
				line.WriteString(Margin)
			}
			a := Left
			if i < len(t.align) {
				a = t.align[i]
			}
			line.WriteString(a.pad(c, ws[i]))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
