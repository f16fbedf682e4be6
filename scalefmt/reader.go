// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalefmt reads and writes scaling samples in CSV form.
//
// A file starts with a header row naming its columns. The required
// columns are the process count, the number of elements per process,
// and the wall-clock time. User time, system time and a
// configuration label are optional. Each column is recognized under
// several names, matched without regard to case:
//
//	process count          process_count, procs, procesos
//	elements per process   elements_per_process, elems, elem_por_proc
//	wall time              wall_time, wall, tiempo_real
//	user time              user_time, user, tiempo_user
//	system time            sys_time, sys, tiempo_sys
//	configuration label    config_label, config, configuracion
//
// Other columns are ignored. Times are in seconds.
package scalefmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/scalestat/scalestat/scaling"
)

type column int

const (
	colProcs column = iota
	colElems
	colWall
	colUser
	colSys
	colConfig
	numColumns
)

var columnNames = [numColumns]string{
	colProcs:  "process count",
	colElems:  "elements per process",
	colWall:   "wall time",
	colUser:   "user time",
	colSys:    "sys time",
	colConfig: "config label",
}

// headerAliases maps every accepted header name to its column.
var headerAliases = map[string]column{
	"process_count": colProcs,
	"procs":         colProcs,
	"procesos":      colProcs,

	"elements_per_process": colElems,
	"elems":                colElems,
	"elem_por_proc":        colElems,

	"wall_time":   colWall,
	"wall":        colWall,
	"tiempo_real": colWall,

	"user_time":   colUser,
	"user":        colUser,
	"tiempo_user": colUser,

	"sys_time":   colSys,
	"sys":        colSys,
	"tiempo_sys": colSys,

	"config_label":  colConfig,
	"config":        colConfig,
	"configuracion": colConfig,
}

// A Reader reads scaling samples from a CSV file.
//
// Its API is modeled on bufio.Scanner. To construct a new Reader,
// either call NewReader, or call Reset on a zeroed Reader.
type Reader struct {
	cr       *csv.Reader
	fileName string
	label    string
	err      error

	// index maps each column to its field index, or -1.
	index     [numColumns]int
	gotHeader bool

	sample scaling.Sample
}

// A SyntaxError represents a malformed record on a particular line of
// a samples file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// NewReader constructs a reader to parse samples from r.
// fileName is used in error messages and sample sources; it is
// purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName, "")
	return reader
}

// Reset resets the reader to begin reading from a new input.
//
// If label is not empty, it is the configuration label of every
// sample whose row doesn't carry one.
func (r *Reader) Reset(ior io.Reader, fileName, label string) {
	r.cr = csv.NewReader(ior)
	r.cr.TrimLeadingSpace = true
	r.cr.ReuseRecord = true
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.label = label
	r.err = nil
	r.gotHeader = false
	r.sample = scaling.Sample{}
}

// Scan advances the reader to the next sample and reports whether a
// sample was read. The caller should use the Sample method to get the
// sample. If Scan reaches EOF or an error occurs, it returns false,
// in which case the caller should use the Err method to check for
// errors.
//
// A record that cannot be parsed stops the scan with a *SyntaxError.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if !r.gotHeader {
		if !r.readHeader() {
			return false
		}
	}
	rec, err := r.cr.Read()
	if err != nil {
		r.setErr(err)
		return false
	}
	line, _ := r.cr.FieldPos(0)
	if err := r.parse(rec, line); err != nil {
		r.err = err
		return false
	}
	return true
}

func (r *Reader) setErr(err error) {
	var perr *csv.ParseError
	switch {
	case errors.Is(err, io.EOF):
		r.err = io.EOF
	case errors.As(err, &perr):
		r.err = &SyntaxError{r.fileName, perr.Line, perr.Err.Error()}
	default:
		r.err = err
	}
}

func (r *Reader) readHeader() bool {
	rec, err := r.cr.Read()
	if err != nil {
		r.setErr(err)
		return false
	}
	line, _ := r.cr.FieldPos(0)
	for i := range r.index {
		r.index[i] = -1
	}
	for i, name := range rec {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		col, ok := headerAliases[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if r.index[col] >= 0 {
			r.err = &SyntaxError{r.fileName, line, fmt.Sprintf("duplicate %s column %q", columnNames[col], name)}
			return false
		}
		r.index[col] = i
	}
	for _, col := range []column{colProcs, colElems, colWall} {
		if r.index[col] < 0 {
			r.err = &SyntaxError{r.fileName, line, fmt.Sprintf("missing %s column", columnNames[col])}
			return false
		}
	}
	r.gotHeader = true
	return true
}

func (r *Reader) parse(rec []string, line int) error {
	s := scaling.Sample{
		Config: r.label,
		Source: scaling.Source{File: r.fileName, Line: line},
	}
	field := func(col column) string {
		return strings.TrimSpace(rec[r.index[col]])
	}
	bad := func(col column, val string) error {
		return &SyntaxError{r.fileName, line, fmt.Sprintf("invalid %s %q", columnNames[col], val)}
	}
	var err error
	for _, c := range []struct {
		col column
		dst *int
	}{{colProcs, &s.Procs}, {colElems, &s.Elems}} {
		v := field(c.col)
		if *c.dst, err = strconv.Atoi(v); err != nil {
			return bad(c.col, v)
		}
	}
	for _, c := range []struct {
		col column
		dst *float64
	}{{colWall, &s.Wall}, {colUser, &s.User}, {colSys, &s.Sys}} {
		if r.index[c.col] < 0 {
			continue
		}
		v := field(c.col)
		if v == "" && c.col != colWall {
			continue
		}
		if *c.dst, err = strconv.ParseFloat(v, 64); err != nil {
			return bad(c.col, v)
		}
	}
	if r.index[colConfig] >= 0 {
		if v := field(colConfig); v != "" {
			s.Config = v
		}
	}
	r.sample = s
	return nil
}

// Sample returns the sample that was just read by Scan.
func (r *Reader) Sample() scaling.Sample {
	return r.sample
}

// Err returns the first non-EOF error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}

// ReadAll reads every sample from r.
func ReadAll(r io.Reader, fileName string) ([]scaling.Sample, error) {
	var samples []scaling.Sample
	reader := NewReader(r, fileName)
	for reader.Scan() {
		samples = append(samples, reader.Sample())
	}
	return samples, reader.Err()
}
