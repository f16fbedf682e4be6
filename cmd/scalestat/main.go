// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scalestat computes scaling metrics of parallel benchmark runs.
//
// Usage:
//
//	scalestat [flags] [label=]results.csv...
//
// Each input file is a CSV file with a header row and one row per
// timed run: the process count, the elements per process, the wall
// time and, optionally, the user and system time in seconds and a
// configuration label. See package scalestat/scalefmt for the
// accepted column names. A path of the form s3://bucket/key reads the
// file from Amazon S3 using the default AWS credentials.
//
// For each configuration, scalestat groups repeated runs by process
// count and workload size and prints the mean wall time with its
// spread. For each workload size, it derives the speedup over the
// run with the fewest processes, the parallel efficiency, and the
// share of wall time spent in the system (communication overhead).
//
// If the input has exactly two configurations, for example runs on a
// single node and on two nodes, scalestat also prints how much longer
// the second configuration took for each shared process count and
// workload size. The -base and -compare flags select the pair
// explicitly.
//
// A label=path argument assigns label as the configuration of every
// row of path that doesn't name one. This compares files that don't
// carry a configuration column:
//
//	scalestat 1_node=single.csv 2_nodes=multi.csv
//
// Problems with a single point, such as a run that took no time, are
// printed as warnings and leave the affected values as n/a.
//
// With -dsn and -upload, scalestat reads the samples of an upload
// stored by scalesave instead of reading files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/scalestat/scalestat/internal/objstore"
	"github.com/scalestat/scalestat/scalefmt"
	"github.com/scalestat/scalestat/scaling"
	"github.com/scalestat/scalestat/storage/db"
	_ "github.com/scalestat/scalestat/storage/db/sqlite3"
)

func main() {
	log.SetPrefix("scalestat: ")
	log.SetFlags(0)

	if err := scalestat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func scalestat(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("scalestat", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage: scalestat [flags] [label=]results.csv...

Scalestat computes speedup, parallel efficiency and overhead from
repeated timings of parallel benchmark runs.

`)
		flags.PrintDefaults()
	}
	flagFormat := flags.String("format", "text", "print results in `format`:\n  text - plain text\n  csv  - comma-separated values (warnings will be written to stderr)\n  json - JSON")
	flagBase := flags.String("base", "", "compare configuration `label` to -compare")
	flagCompare := flags.String("compare", "", "configuration `label` compared against -base")
	flagElems := flags.String("elems", "", "restrict output to these comma-separated workload `sizes`")
	flagJobs := flags.Int("j", runtime.GOMAXPROCS(0), "derive up to `n` configurations in parallel")
	flagDriver := flags.String("driver", "sqlite3", "database `driver` of -dsn: sqlite3 or mysql")
	flagDSN := flags.String("dsn", "", "read samples from the archive at data source `name`")
	flagUpload := flags.String("upload", "", "read samples of upload `id` from -dsn")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var format func(io.Writer, *scaling.Report) error
	switch *flagFormat {
	default:
		return fmt.Errorf("-format must be text, csv, or json")
	case "text":
		format = formatText
	case "csv":
		format = formatCSV
	case "json":
		format = formatJSON
	}

	elems, err := parseElems(*flagElems)
	if err != nil {
		return err
	}

	var samples []scaling.Sample
	if *flagUpload != "" || *flagDSN != "" {
		if *flagUpload == "" || *flagDSN == "" {
			return fmt.Errorf("-upload and -dsn must be used together")
		}
		if flags.NArg() > 0 {
			return fmt.Errorf("no input files allowed with -upload")
		}
		samples, err = loadUpload(*flagDriver, *flagDSN, *flagUpload)
	} else {
		var opener objstore.Opener
		files := scalefmt.Files{Paths: flags.Args(), AllowStdin: true, AllowLabels: true, Open: opener.Open}
		samples, err = files.ReadAll()
	}
	if err != nil {
		return err
	}

	r, err := scaling.Analyze(samples, scaling.Options{
		Elems:   elems,
		Base:    *flagBase,
		Compare: *flagCompare,
		Workers: *flagJobs,
	})
	if err != nil {
		return err
	}

	if err := format(w, r); err != nil {
		return err
	}

	// Report per-point problems.
	for _, err := range r.Errors {
		fmt.Fprintf(wErr, "warning: %s\n", err)
	}
	return nil
}

func parseElems(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var elems []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad -elems size %q", f)
		}
		elems = append(elems, n)
	}
	return elems, nil
}

func loadUpload(driver, dsn, id string) ([]scaling.Sample, error) {
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer d.Close()
	samples, err := d.Samples(context.Background(), id)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", id, err)
	}
	return samples, nil
}
