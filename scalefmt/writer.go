// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/scalestat/scalestat/scaling"
)

// Header is the header row written by Writer.
var Header = []string{"process_count", "elements_per_process", "config_label", "wall_time", "user_time", "sys_time"}

// A Writer writes scaling samples in the CSV form read by Reader.
type Writer struct {
	cw      *csv.Writer
	started bool
	rec     []string
}

// NewWriter returns a writer that writes samples to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cw: csv.NewWriter(w), rec: make([]string, len(Header))}
}

// Write writes s, preceded by the header row if this is the first
// sample. Samples with the default configuration are written with an
// empty label. Times are written in the shortest form that reads
// back as the same value.
func (w *Writer) Write(s scaling.Sample) error {
	if !w.started {
		w.started = true
		if err := w.cw.Write(Header); err != nil {
			return err
		}
	}
	label := s.Config
	if label == scaling.DefaultConfig {
		label = ""
	}
	w.rec[0] = strconv.Itoa(s.Procs)
	w.rec[1] = strconv.Itoa(s.Elems)
	w.rec[2] = label
	w.rec[3] = formatTime(s.Wall)
	w.rec[4] = formatTime(s.User)
	w.rec[5] = formatTime(s.Sys)
	return w.cw.Write(w.rec)
}

// Flush writes any buffered data to the underlying io.Writer and
// reports any error that occurred during a previous Write or Flush.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}

func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
