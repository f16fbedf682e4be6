// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scalestat/scalestat/internal/diff"
	"github.com/scalestat/scalestat/scalefmt"
	"github.com/scalestat/scalestat/storage/db"
)

func TestText(t *testing.T) {
	// Repeated runs, two workload sizes, user and sys times.
	golden(t, "single", "single.csv")
	// Two configurations are compared automatically.
	golden(t, "multi", "multi.csv")
	// Labels supply the configuration of files without one.
	golden(t, "multi", "1_node=node1.csv", "2_nodes=node2.csv")
	golden(t, "multiReversed", "-base", "2_nodes", "-compare", "1_node", "multi.csv")
}

func TestElems(t *testing.T) {
	// A requested size with no data is a warning, not an error.
	golden(t, "elems", "-elems", "3000,2000", "single.csv")
}

func TestZero(t *testing.T) {
	// A run that took no time leaves its metrics undefined.
	golden(t, "zero", "zero.csv")
	golden(t, "zeroJSON", "-format", "json", "zero.csv")
}

func TestCSV(t *testing.T) {
	golden(t, "singleCSV", "-format", "csv", "single.csv")
	golden(t, "multiCSV", "-format", "csv", "multi.csv")
}

func TestJSON(t *testing.T) {
	golden(t, "multiJSON", "-format", "json", "multi.csv")
}

func TestWorkers(t *testing.T) {
	// The output doesn't depend on parallelism.
	golden(t, "multi", "-j", "1", "multi.csv")
	golden(t, "multi", "-j", "8", "multi.csv")
}

func TestUpload(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "archive.db")
	d, err := db.OpenSQL("sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}
	samples, err := scalefmt.ReadAll(mustOpen(t, "testdata/single.csv"), "single.csv")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	u, err := d.NewUpload(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := u.InsertSamples(ctx, samples); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}

	golden(t, "single", "-dsn", dsn, "-upload", u.ID)

	var out bytes.Buffer
	err = scalestat(&out, io.Discard, []string{"-dsn", dsn, "-upload", "99"})
	if !errors.Is(err, db.ErrNoUpload) {
		t.Errorf("unknown upload: got %v, want %v", err, db.ErrNoUpload)
	}
}

func TestErrors(t *testing.T) {
	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")

	for _, test := range []struct {
		args []string
		want string
	}{
		{[]string{"-format", "html", "single.csv"}, "-format must be text, csv, or json"},
		{[]string{"-elems", "10,x", "single.csv"}, `bad -elems size "x"`},
		{[]string{"-elems", "0", "single.csv"}, `bad -elems size "0"`},
		{[]string{"-base", "1_node", "multi.csv"}, "cross-config comparison needs both a base and a compare configuration"},
		{[]string{"-base", "1_node", "-compare", "1_node", "multi.csv"}, `cannot compare configuration "1_node" with itself`},
		{[]string{"-base", "1_node", "-compare", "4_nodes", "multi.csv"}, `unknown configuration "4_nodes"`},
		{[]string{"-upload", "1"}, "-upload and -dsn must be used together"},
		{[]string{"-dsn", "x.db", "-upload", "1", "single.csv"}, "no input files allowed with -upload"},
		{[]string{"missing.csv"}, "open missing.csv: "},
	} {
		var out bytes.Buffer
		err := scalestat(&out, io.Discard, test.args)
		if err == nil {
			t.Errorf("scalestat %s: got success, want error %q", strings.Join(test.args, " "), test.want)
			continue
		}
		if !strings.HasPrefix(err.Error(), test.want) {
			t.Errorf("scalestat %s: got error %q, want %q", strings.Join(test.args, " "), err, test.want)
		}
		if out.Len() != 0 {
			t.Errorf("scalestat %s: unexpected output on error:\n%s", strings.Join(test.args, " "), out.String())
		}
	}
}

func golden(t *testing.T, name string, args ...string) {
	t.Helper()
	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")

	// Get the scalestat output.
	var got, gotErr bytes.Buffer
	t.Logf("scalestat %s", strings.Join(args, " "))
	if err := scalestat(&got, &gotErr, args); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	// Compare to the golden output.
	compare(t, name, "stdout", got.Bytes())
	compare(t, name, "stderr", gotErr.Bytes())
}

func compare(t *testing.T, name, sub string, got []byte) {
	t.Helper()

	wantPath := name + "." + sub
	want, err := os.ReadFile(wantPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Treat a missing file as empty.
			want = nil
		} else {
			t.Fatal(err)
		}
	}

	d := diff.Diff(string(want), string(got))
	if d == "" {
		return
	}
	t.Errorf("%s differs:\n%s", wantPath, d)

	// Write a "got" file for reference.
	gotPath := name + ".got-" + sub
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}
}

func mustOpen(t *testing.T, name string) io.Reader {
	t.Helper()
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}
