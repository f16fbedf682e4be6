// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package objstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestParseURL(t *testing.T) {
	for _, test := range []struct {
		path        string
		bucket, key string
		ok          bool
	}{
		{"s3://results/run1/single.csv", "results", "run1/single.csv", true},
		{"s3://results/x", "results", "x", true},
		{"s3://results/", "", "", false},
		{"s3://results", "", "", false},
		{"s3:///key", "", "", false},
		{"results/single.csv", "", "", false},
		{"S3://results/x", "", "", false},
	} {
		bucket, key, ok := ParseURL(test.path)
		if bucket != test.bucket || key != test.key || ok != test.ok {
			t.Errorf("ParseURL(%q) = %q, %q, %v; want %q, %q, %v", test.path, bucket, key, ok, test.bucket, test.key, test.ok)
		}
	}
}

type fakeS3 map[string]string

func (f fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(data))}, nil
}

func TestOpen(t *testing.T) {
	o := &Opener{client: fakeS3{"results/single.csv": "procs,elems,wall\n1,10,2\n"}}

	rc, err := o.Open("s3://results/single.csv")
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "procs,elems,wall\n1,10,2\n" {
		t.Errorf("got %q", data)
	}

	if _, err := o.Open("s3://results/missing.csv"); err == nil || err.Error() != "open s3://results/missing.csv: NoSuchKey" {
		t.Errorf("missing object: got %v", err)
	}
	if _, err := o.Open("s3://results"); err == nil || !strings.Contains(err.Error(), "want s3://bucket/key") {
		t.Errorf("bad URL: got %v", err)
	}
}

func TestOpenLocal(t *testing.T) {
	// Local files never need a client.
	var o Opener
	path := filepath.Join(t.TempDir(), "local.csv")
	if err := os.WriteFile(path, []byte("x"), 0666); err != nil {
		t.Fatal(err)
	}
	rc, err := o.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	rc.Close()
	if o.client != nil {
		t.Errorf("client created for a local file")
	}

	_, err = o.Open(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want %v", err, os.ErrNotExist)
	}
}
