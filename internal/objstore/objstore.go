// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package objstore opens input files that may live in Amazon S3.
//
// A path of the form s3://bucket/key names an S3 object. Any other
// path is a local file.
package objstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const scheme = "s3://"

// ParseURL splits an s3://bucket/key path into its bucket and key.
// It reports false if path is not an S3 URL or lacks either part.
func ParseURL(path string) (bucket, key string, ok bool) {
	rest, ok := strings.CutPrefix(path, scheme)
	if !ok {
		return "", "", false
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// getObjectAPI is the subset of *s3.Client used by Opener.
type getObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// An Opener opens local files and S3 objects. The S3 client is
// created from the default AWS configuration the first time an S3
// path is opened, so reading only local files never touches AWS.
//
// The zero Opener is ready to use.
type Opener struct {
	// Context is used for S3 requests. If nil,
	// context.Background is used.
	Context context.Context

	once   sync.Once
	client getObjectAPI
	err    error
}

// Open opens path for reading.
func (o *Opener) Open(path string) (io.ReadCloser, error) {
	if !strings.HasPrefix(path, scheme) {
		return os.Open(path)
	}
	bucket, key, ok := ParseURL(path)
	if !ok {
		return nil, fmt.Errorf("open %s: want s3://bucket/key", path)
	}
	ctx := o.Context
	if ctx == nil {
		ctx = context.Background()
	}
	o.once.Do(func() {
		if o.client != nil {
			return
		}
		cfg, err := config.LoadDefaultConfig(ctx, config.WithEC2IMDSRegion())
		if err != nil {
			o.err = fmt.Errorf("load AWS configuration: %w", err)
			return
		}
		o.client = s3.NewFromConfig(cfg)
	})
	if o.err != nil {
		return nil, o.err
	}
	resp, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return resp.Body, nil
}
