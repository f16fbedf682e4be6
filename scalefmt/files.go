// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"io"
	"os"
	"strings"

	"github.com/scalestat/scalestat/scaling"
)

// A Files reads samples from a sequence of input files.
//
// If AllowLabels is true, entries in Paths may be of the form
// label=path. The label becomes the configuration label of every
// sample read from path whose row doesn't name its own. This lets a
// single-node and a multi-node results file without a configuration
// column be compared against each other.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin.
	//
	// This is generally the desired behavior when the file list
	// comes from command-line flags.
	AllowStdin bool

	// AllowLabels indicates that configuration labels are allowed
	// in Paths.
	AllowLabels bool

	// Open opens a path for reading. If nil, os.Open is used.
	Open func(path string) (io.ReadCloser, error)

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet. Note that this distinguishes nil
	// from length 0.
	inputs []input

	reader  Reader
	file    io.ReadCloser
	isStdin bool
	err     error
}

type input struct {
	path    string
	label   string
	isStdin bool
}

// init does first-use initialization of f.
func (f *Files) init() {
	// Set f.inputs to a non-nil slice to indicate initialization
	// has happened.
	f.inputs = []input{}

	if f.AllowStdin && len(f.Paths) == 0 {
		f.inputs = append(f.inputs, input{"-", "", true})
	}
	for _, path := range f.Paths {
		label := ""
		if i := strings.Index(path, "="); f.AllowLabels && i >= 0 {
			label, path = path[:i], path[i+1:]
		}
		isStdin := f.AllowStdin && path == "-"
		f.inputs = append(f.inputs, input{path, label, isStdin})
	}
}

// Scan advances the reader to the next sample in the sequence of
// files and reports whether a sample was read. The caller should use
// the Sample method to get the sample. If Scan reaches the end of the
// file sequence, or if an I/O or syntax error occurs, it returns
// false. In this case, the caller should use the Err method to check
// for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}

	if f.inputs == nil {
		f.init()
	}

	for {
		if f.file == nil {
			// Open the next file.
			if len(f.inputs) == 0 {
				// We're out of inputs.
				return false
			}
			inp := f.inputs[0]
			f.inputs = f.inputs[1:]

			if inp.isStdin {
				f.isStdin, f.file = true, os.Stdin
			} else {
				open := f.Open
				if open == nil {
					open = openFile
				}
				file, err := open(inp.path)
				if err != nil {
					f.err = err
					return false
				}
				f.isStdin, f.file = false, file
			}

			f.reader.Reset(f.file, inp.path, inp.label)
		}

		// Try to get the next sample.
		if f.reader.Scan() {
			return true
		}
		err := f.reader.Err()
		if err != nil {
			f.err = err
			f.close()
			break
		}
		// Just an EOF. Close this file and open the next.
		f.close()
	}
	// We're out of files.
	return false
}

func openFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (f *Files) close() {
	if !f.isStdin {
		f.file.Close()
	}
	f.file = nil
}

// Sample returns the sample that was just read by Scan.
func (f *Files) Sample() scaling.Sample {
	return f.reader.Sample()
}

// Err returns the error that stopped Scan, if any.
// If Scan stopped because it read each file to completion,
// or if Scan has not yet returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}

// ReadAll reads every sample from every file of f.
func (f *Files) ReadAll() ([]scaling.Sample, error) {
	var samples []scaling.Sample
	for f.Scan() {
		samples = append(samples, f.Sample())
	}
	return samples, f.Err()
}
