// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scaling

import (
	"errors"
	"fmt"
)

// ErrZeroDuration indicates a ratio could not be computed because its
// denominator is a zero mean wall time.
var ErrZeroDuration = errors.New("zero mean wall time")

// A ValidationError reports an input sample whose values are out of
// domain. It aborts the Ingest call that found it.
type ValidationError struct {
	Index  int    // index of the sample in the input batch
	Source Source // where the sample was read from, if known
	Field  string // offending field
	Msg    string
}

func (e *ValidationError) Error() string {
	pos := e.Source.String()
	if pos == "" {
		pos = fmt.Sprintf("sample %d", e.Index)
	}
	return fmt.Sprintf("%s: invalid %s: %s", pos, e.Field, e.Msg)
}

// A MissingBaselineError reports that no aggregated point exists for
// a workload size, so speedup and efficiency have no baseline.
type MissingBaselineError struct {
	Config string
	Elems  int
}

func (e *MissingBaselineError) Error() string {
	if e.Config == "" {
		return fmt.Sprintf("no baseline for elems=%d", e.Elems)
	}
	return fmt.Sprintf("%s: no baseline for elems=%d", e.Config, e.Elems)
}

// A DivisionError reports a degenerate point whose derived metric is
// undefined. The metric is reported as NaN.
type DivisionError struct {
	Op  string // "speedup", "overhead" or "cross-config overhead"
	Err error  // typically ErrZeroDuration
}

func (e *DivisionError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *DivisionError) Unwrap() error {
	return e.Err
}

// A GroupError attaches the point an error belongs to.
type GroupError struct {
	Config string
	Key    ConfigKey
	Err    error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("%s %v: %v", e.Config, e.Key, e.Err)
}

func (e *GroupError) Unwrap() error {
	return e.Err
}
