// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package s3 is the S3 snapshot backend, for stores shared between hosts or
// CI runs. Addressing mirrors the filesystem layout: one key prefix per
// resource, one timestamp-named object per snapshot, reports beneath a
// parallel reports/ prefix.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	awsx "github.com/hexilium/swagger-api-compare/internal/aws"
	"github.com/hexilium/swagger-api-compare/internal/differ"
	"github.com/hexilium/swagger-api-compare/internal/document"
	"github.com/hexilium/swagger-api-compare/internal/log"
	"github.com/hexilium/swagger-api-compare/internal/store"
)

const (
	snapshotExt = ".json"
	reportsDir  = "reports"
)

// Client is the slice of the S3 API the backend needs. Satisfied by
// *s3.Client; tests substitute a fake.
type Client interface {
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, opts ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, opts ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3v2.HeadObjectInput, opts ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3v2.ListObjectsV2Input, opts ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error)
}

// Backend stores snapshots under s3://bucket/prefix.
type Backend struct {
	client Client
	bucket string
	prefix string
	locks  store.KeyedMutex
}

// Option customizes a Backend.
type Option func(*newOptions)

type newOptions struct {
	client Client
	aws    []awsx.Option
}

// WithClient injects a pre-built client (tests, custom endpoints).
func WithClient(c Client) Option {
	return func(o *newOptions) { o.client = c }
}

// WithProfile routes through to the AWS shared config profile.
func WithProfile(profile string) Option {
	return func(o *newOptions) { o.aws = append(o.aws, awsx.WithProfile(profile)) }
}

// WithRegion routes through to the AWS region override.
func WithRegion(region string) Option {
	return func(o *newOptions) { o.aws = append(o.aws, awsx.WithRegion(region)) }
}

// ParseURL splits an s3://bucket/prefix spec. ok is false for any other
// scheme.
func ParseURL(spec string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(spec, "s3://")
	if !found || rest == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.TrimSuffix(prefix, "/"), bucket != ""
}

// New opens an S3-backed store.
func New(ctx context.Context, bucket, prefix string, opts ...Option) (*Backend, error) {
	var o newOptions
	for _, opt := range opts {
		opt(&o)
	}

	client := o.client
	if client == nil {
		cfg, err := awsx.LoadConfig(ctx, o.aws...)
		if err != nil {
			return nil, store.Failure("init", bucket, err)
		}
		client = awsx.NewS3(cfg)
	}

	log.Debugf("s3 store opened: bucket=%s prefix=%s", bucket, prefix)
	return &Backend{client: client, bucket: bucket, prefix: prefix}, nil
}

// Save implements store.Store.
func (b *Backend) Save(ctx context.Context, key string, doc *document.Document, at time.Time) (*store.Snapshot, error) {
	unlock := b.locks.Lock(key)
	defer unlock()

	at = store.Truncate(at)
	objKey := b.snapshotKey(key, at)

	if exists, err := b.exists(ctx, key, objKey); err != nil {
		return nil, err
	} else if exists {
		return nil, store.ErrDuplicateTimestamp
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	if err := b.put(ctx, key, objKey, body); err != nil {
		return nil, err
	}
	log.Debugf("snapshot saved: key=%s stamp=%s", key, store.FormatStamp(at))

	return &store.Snapshot{Resource: key, Timestamp: at, Content: doc}, nil
}

// SaveReport implements store.Store.
func (b *Backend) SaveReport(ctx context.Context, key string, report differ.Report, at time.Time) error {
	unlock := b.locks.Lock(key)
	defer unlock()

	at = store.Truncate(at)
	objKey := b.reportKey(key, at)

	if exists, err := b.exists(ctx, key, objKey); err != nil {
		return err
	} else if exists {
		return store.ErrDuplicateTimestamp
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	return b.put(ctx, key, objKey, body)
}

// QueryLatest implements store.Store.
func (b *Backend) QueryLatest(ctx context.Context, key string, start, end *time.Time) (*store.Snapshot, error) {
	unlock := b.locks.Lock(key)
	defer unlock()

	stamps, err := b.scan(ctx, key)
	if err != nil {
		return nil, err
	}

	var latest time.Time
	found := false
	for _, t := range stamps {
		if !store.InRange(t, start, end) {
			continue
		}
		if !found || t.After(latest) {
			latest = t
			found = true
		}
	}
	if !found {
		return nil, nil
	}

	doc, err := b.load(ctx, key, latest)
	if err != nil {
		return nil, err
	}
	return &store.Snapshot{Resource: key, Timestamp: latest, Content: doc}, nil
}

// Load implements store.Store.
func (b *Backend) Load(ctx context.Context, key string, at time.Time) (*document.Document, error) {
	unlock := b.locks.Lock(key)
	defer unlock()

	return b.load(ctx, key, store.Truncate(at))
}

// List implements store.Store.
func (b *Backend) List(ctx context.Context, key string) ([]store.Snapshot, error) {
	unlock := b.locks.Lock(key)
	defer unlock()

	stamps, err := b.scan(ctx, key)
	if err != nil {
		return nil, err
	}

	snaps := make([]store.Snapshot, 0, len(stamps))
	for _, t := range stamps {
		snaps = append(snaps, store.Snapshot{Resource: key, Timestamp: t})
	}
	// ListObjectsV2 returns ascending key order; stamps sort with it.
	for i, j := 0, len(snaps)-1; i < j; i, j = i+1, j-1 {
		snaps[i], snaps[j] = snaps[j], snaps[i]
	}
	return snaps, nil
}

// String implements store.Store.
func (b *Backend) String() string {
	return "s3://" + path.Join(b.bucket, b.prefix)
}

func (b *Backend) snapshotKey(key string, at time.Time) string {
	return path.Join(b.prefix, key, store.FormatStamp(at)+snapshotExt)
}

func (b *Backend) reportKey(key string, at time.Time) string {
	return path.Join(b.prefix, key, reportsDir, store.FormatStamp(at)+snapshotExt)
}

func (b *Backend) exists(ctx context.Context, key, objKey string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket: awsv2.String(b.bucket),
		Key:    awsv2.String(objKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, store.Failure("head", key, err)
	}
	return true, nil
}

func (b *Backend) put(ctx context.Context, key, objKey string, body []byte) error {
	_, err := b.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(b.bucket),
		Key:         awsv2.String(objKey),
		Body:        bytes.NewReader(body),
		ContentType: awsv2.String("application/json"),
	})
	if err != nil {
		return store.Failure("save", key, err)
	}
	return nil
}

func (b *Backend) load(ctx context.Context, key string, at time.Time) (*document.Document, error) {
	out, err := b.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(b.bucket),
		Key:    awsv2.String(b.snapshotKey(key, at)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, store.ErrNotFound
		}
		return nil, store.Failure("load", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, store.Failure("load", key, err)
	}

	doc, err := document.DecodeJSONBytes(body)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s@%s: %w", key, store.FormatStamp(at), err)
	}
	return doc, nil
}

// scan pages through the resource's prefix and collects parseable stamps,
// skipping the reports/ sub-prefix via the delimiter.
func (b *Backend) scan(ctx context.Context, key string) ([]time.Time, error) {
	keyPrefix := path.Join(b.prefix, key) + "/"

	var stamps []time.Time
	var token *string
	for {
		out, err := b.client.ListObjectsV2(ctx, &s3v2.ListObjectsV2Input{
			Bucket:            awsv2.String(b.bucket),
			Prefix:            awsv2.String(keyPrefix),
			Delimiter:         awsv2.String("/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, store.Failure("scan", key, err)
		}

		for _, obj := range out.Contents {
			name := strings.TrimPrefix(awsv2.ToString(obj.Key), keyPrefix)
			if !strings.HasSuffix(name, snapshotExt) {
				continue
			}
			t, err := store.ParseStamp(strings.TrimSuffix(name, snapshotExt))
			if err != nil {
				continue
			}
			stamps = append(stamps, t)
		}

		if !awsv2.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}
	return stamps, nil
}
