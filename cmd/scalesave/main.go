// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scalesave archives scaling measurements in a SQL database.
//
// Usage:
//
//	scalesave [-driver name] [-dsn source] [-v] [label=]results.csv...
//	scalesave [-driver name] [-dsn source] -list [-n count]
//	scalesave [-driver name] [-dsn source] -delete id
//	scalesave [-driver name] [-dsn source] -export id
//
// Each input file is a CSV file in the format read by scalestat,
// either local or in Amazon S3 (s3://bucket/key).
// Scalesave validates every sample of every file and, if all of them
// are valid, stores them as a single upload and prints its ID. The
// upload can then be analyzed with
//
//	scalestat -dsn source -upload id
//
// With -list, scalesave prints the most recent uploads instead. With
// -delete, it removes an upload and its samples. With -export, it
// writes the samples of an upload to standard output as a CSV file
// that scalestat and scalesave can read back.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/schollz/progressbar/v3"
	"github.com/scalestat/scalestat/internal/objstore"
	"github.com/scalestat/scalestat/internal/texttab"
	"github.com/scalestat/scalestat/scalefmt"
	"github.com/scalestat/scalestat/scaling"
	"github.com/scalestat/scalestat/storage/db"
	_ "github.com/scalestat/scalestat/storage/db/sqlite3"
)

func main() {
	log.SetPrefix("scalesave: ")
	log.SetFlags(0)

	if err := scalesave(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func scalesave(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("scalesave", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `Usage of scalesave:
	scalesave [flags] [label=]results.csv...
	scalesave [flags] -list
	scalesave [flags] -delete id
	scalesave [flags] -export id
`)
		flags.PrintDefaults()
	}
	driver := flags.String("driver", "sqlite3", "database `driver`: sqlite3 or mysql")
	dsn := flags.String("dsn", "scalestat.db", "store samples in the database at data source `name`")
	verbose := flags.Bool("v", false, "show progress and print verbose log messages")
	list := flags.Bool("list", false, "list recent uploads")
	limit := flags.Int("n", 20, "list at most `count` uploads (0 for all)")
	del := flags.String("delete", "", "delete upload `id`")
	export := flags.String("export", "", "write the samples of upload `id` as CSV")
	if err := flags.Parse(args); err != nil {
		return err
	}
	modes := 0
	for _, set := range []bool{*list, *del != "", *export != ""} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("-list, -delete and -export are mutually exclusive")
	}
	if modes > 0 && flags.NArg() > 0 {
		return fmt.Errorf("no input files allowed with -list, -delete or -export")
	}
	if modes == 0 && flags.NArg() == 0 {
		return fmt.Errorf("no files to upload")
	}

	start := time.Now()
	var batches []batch
	var n int
	if modes == 0 {
		var err error
		batches, n, err = readBatches(flags.Args())
		if err != nil {
			return err
		}
	}

	d, err := db.OpenSQL(*driver, *dsn)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer d.Close()
	ctx := context.Background()

	switch {
	case *list:
		return listUploads(ctx, w, d, *limit)
	case *del != "":
		if err := d.DeleteUpload(ctx, *del); err != nil {
			return fmt.Errorf("upload %s: %w", *del, err)
		}
		return nil
	case *export != "":
		return exportUpload(ctx, w, d, *export)
	}

	var bar *progressbar.ProgressBar
	if *verbose {
		bar = progressbar.NewOptions64(int64(n),
			progressbar.OptionSetWriter(wErr),
			progressbar.OptionSetDescription("Saving samples:"),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(wErr) }),
		)
	}
	u, err := d.NewUpload(ctx)
	if err != nil {
		return err
	}
	for _, b := range batches {
		if err := u.InsertSamples(ctx, b.samples); err != nil {
			err = fmt.Errorf("%s: %w", b.file, err)
			// Earlier batches are already committed.
			if derr := d.DeleteUpload(ctx, u.ID); derr != nil {
				err = errors.Join(err, fmt.Errorf("partial upload %s not removed: %w", u.ID, derr))
			}
			return err
		}
		if bar != nil {
			bar.Add(len(b.samples))
		}
	}

	if *verbose {
		fmt.Fprintf(wErr, "%d sample%s from %d file%s saved in %.2f seconds.\n", n, plural(n), len(batches), plural(len(batches)), time.Since(start).Seconds())
	}
	fmt.Fprintln(w, u.ID)
	return nil
}

// A batch holds the samples of one input file.
type batch struct {
	file    string
	samples []scaling.Sample
}

// readBatches reads every sample of paths and validates all of them
// together. It returns the samples grouped by input file and the
// total number of samples.
func readBatches(paths []string) ([]batch, int, error) {
	var opener objstore.Opener
	files := scalefmt.Files{Paths: paths, AllowStdin: true, AllowLabels: true, Open: opener.Open}
	var batches []batch
	var all []scaling.Sample
	for files.Scan() {
		s := files.Sample()
		if len(batches) == 0 || batches[len(batches)-1].file != s.Source.File {
			batches = append(batches, batch{file: s.Source.File})
		}
		b := &batches[len(batches)-1]
		b.samples = append(b.samples, s)
		all = append(all, s)
	}
	if err := files.Err(); err != nil {
		return nil, 0, err
	}
	if len(all) == 0 {
		return nil, 0, fmt.Errorf("no samples in %s", strings.Join(paths, ", "))
	}
	if _, err := scaling.Ingest(all); err != nil {
		return nil, 0, err
	}
	return batches, len(all), nil
}

func listUploads(ctx context.Context, w io.Writer, d *db.DB, limit int) error {
	uploads, err := d.ListUploads(ctx, limit)
	if err != nil {
		return err
	}
	tab := new(texttab.Table)
	tab.SetAlign(0, texttab.Right).SetAlign(2, texttab.Right)
	tab.Row("id", "created", "samples", "configs").Rule()
	for _, u := range uploads {
		tab.Row(u.ID, u.Created.Format(time.RFC3339), fmt.Sprint(u.Count), strings.Join(u.Configs, ","))
	}
	return tab.Format(w)
}

func exportUpload(ctx context.Context, w io.Writer, d *db.DB, id string) error {
	samples, err := d.Samples(ctx, id)
	if err != nil {
		return fmt.Errorf("upload %s: %w", id, err)
	}
	sw := scalefmt.NewWriter(w)
	for _, s := range samples {
		if err := sw.Write(s); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
