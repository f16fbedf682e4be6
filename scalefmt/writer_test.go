// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalefmt

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/scalestat/scalestat/scaling"
)

func TestWriter(t *testing.T) {
	samples := []scaling.Sample{
		{Procs: 1, Elems: 1000, Wall: 10, User: 8, Sys: 1},
		{Procs: 2, Elems: 1000, Config: "2_nodes", Wall: 1.0 / 3, User: 1e-7},
		{Procs: 4, Elems: 10, Config: scaling.DefaultConfig, Wall: 2.5},
		{Procs: 8, Elems: 10, Config: "a, \"quoted\" label", Wall: 1},
	}
	var buf strings.Builder
	w := NewWriter(&buf)
	for _, s := range samples {
		if err := w.Write(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	want := `process_count,elements_per_process,config_label,wall_time,user_time,sys_time
1,1000,,10,8,1
2,1000,2_nodes,0.3333333333333333,1e-07,0
4,10,,2.5,0,0
8,10,"a, ""quoted"" label",1,0,0
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	// What Writer writes, Reader reads back unchanged.
	got, err := ReadAll(strings.NewReader(buf.String()), "out.csv")
	if err != nil {
		t.Fatal(err)
	}
	samples[2].Config = ""
	if diff := cmp.Diff(samples, got, cmpopts.IgnoreFields(scaling.Sample{}, "Source")); diff != "" {
		t.Errorf("read back mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterEmpty(t *testing.T) {
	var buf strings.Builder
	if err := NewWriter(&buf).Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("want no output, got %q", buf.String())
	}
}
