/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3cache provides an implementation of httpcache.Cache that stores
 * session blobs in Amazon S3 so that a stateless process (e.g. the Discord
 * interaction server) can pick up a game where the last request left it.
 */
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const DefaultPrefix = "sessions"

// Cache objects store and retrieve data using Amazon S3.
type Cache struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is initialized in Init() from the default Config; callers may
	// replace it with their own.
	Client *s3.Client

	bucketName string

	// prefix namespaces object keys so several leagues can share a bucket
	prefix string

	// gzip entries in Set and gunzip in Get; object keys get a ".gz" suffix
	gzip bool

	logErrors bool

	ctx context.Context
}

// Options configure New. A zero Prefix uses DefaultPrefix.
type Options struct {
	Bucket    string
	Prefix    string
	Gzip      bool
	LogErrors bool
}

func (c *Cache) Get(key string) ([]byte, bool) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.ObjectKey(key)),
	}

	resp, err := c.Client.GetObject(c.ctx, input)
	if err != nil {
		if c.logErrors && !isNotFound(err) {
			log.Printf("s3cache.get: failed to get object %v%v: %v",
				*input.Bucket, *input.Key, err)
		}
		return nil, false
	}
	defer resp.Body.Close()

	rdr := resp.Body
	if c.gzip {
		rdr, err = gzip.NewReader(rdr)
		if err != nil {
			if c.logErrors {
				log.Printf("s3cache.get: failed to open compressed object %v%v: %v",
					*input.Bucket, *input.Key, err)
			}
			return nil, false
		}
		defer rdr.Close()
	}
	data, err := io.ReadAll(rdr)
	if err != nil && c.logErrors {
		log.Printf("s3cache.get: failed to read object %v%v: %v",
			*input.Bucket, *input.Key, err)
	}

	return data, err == nil
}

// no such key just indicates a miss
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) &&
		(apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound")
}

func (c *Cache) encode(data []byte) (io.Reader, error) {
	if !c.gzip {
		return bytes.NewReader(data), nil
	}
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return &buf, nil
}

// Set stores the provided data in the cache under the given key.
func (c *Cache) Set(key string, data []byte) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(c.ObjectKey(key)),
		ContentType: aws.String("application/json"),
	}
	body, err := c.encode(data)
	if err != nil {
		if c.logErrors {
			log.Printf("s3cache.set: failed to encode %v%v: %v",
				*input.Bucket, *input.Key, err)
		}
		return
	}
	input.Body = body
	if c.gzip {
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := c.Client.PutObject(c.ctx, input); err != nil && c.logErrors {
		log.Printf("s3cache.set: put failed for %v%v: %v", *input.Bucket,
			*input.Key, err)
	}
}

func (c *Cache) Delete(key string) {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.ObjectKey(key)),
	}

	if _, err := c.Client.DeleteObject(c.ctx, input); err != nil && c.logErrors {
		log.Printf("s3cache.delete: delete failed for %v%v: %v",
			*input.Bucket, *input.Key, err)
	}
}

// ObjectKey maps a cache key to its S3 object key: the prefix followed by
// the md5 of the cache key.
func (c *Cache) ObjectKey(key string) string {
	h := md5.New()
	io.WriteString(h, key)
	objKey := fmt.Sprintf("%v/%v", c.prefix, hex.EncodeToString(h.Sum(nil)))
	if c.gzip {
		objKey += ".gz"
	}

	return objKey
}

// New returns a Cache over opts.Bucket. Callers must invoke Init() on the
// returned Cache before use.
func New(ctx context.Context, opts Options) *Cache {
	prefix := strings.Trim(opts.Prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{
		ctx:        ctx,
		bucketName: opts.Bucket,
		prefix:     prefix,
		gzip:       opts.Gzip,
		logErrors:  opts.LogErrors,
	}
}

// Init loads the default AWS configuration (environment, then shared config
// and credentials files) and verifies the bucket is readable and listable.
func (c *Cache) Init() error {
	var err error
	c.Config, err = config.LoadDefaultConfig(c.ctx)
	if err != nil {
		return fmt.Errorf("s3cache.init: failed to load AWS config: %w", err)
	}
	c.Client = s3.NewFromConfig(c.Config)

	if _, err = c.Client.HeadBucket(c.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucketName),
	}); err != nil {
		return fmt.Errorf("s3cache.init: head bucket failed for %s: %w",
			c.bucketName, err)
	}

	if _, err = c.Client.ListObjectsV2(c.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucketName),
		Prefix:  aws.String(c.prefix + "/"),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("s3cache.init: list objects failed for %s: %w",
			c.bucketName, err)
	}

	return nil
}
