// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fs is the filesystem snapshot backend: one directory per resource
// key, one timestamp-named JSON file per snapshot, reports in a parallel
// reports/ subdirectory.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hexilium/swagger-api-compare/internal/differ"
	"github.com/hexilium/swagger-api-compare/internal/document"
	"github.com/hexilium/swagger-api-compare/internal/log"
	"github.com/hexilium/swagger-api-compare/internal/store"
)

const (
	snapshotExt = ".json"
	reportsDir  = "reports"
)

// Backend stores snapshots beneath a base directory.
type Backend struct {
	base       string
	passphrase string
	locks      store.KeyedMutex
}

// Option customizes a Backend.
type Option func(*Backend)

// WithPassphrase seals snapshot bodies at rest with an AES-256-GCM key
// derived from the passphrase. Reports stay clear; they carry no more than
// the documents' deltas and are meant to be grepped.
func WithPassphrase(p string) Option {
	return func(b *Backend) { b.passphrase = p }
}

// DefaultDir resolves the base store directory.
// Precedence:
//  1. SWAGCMP_STORE_DIR, if set and non-empty
//  2. os.UserCacheDir()/swagcmp
//
// Returns ("", false) if a base cannot be resolved.
func DefaultDir() (string, bool) {
	if d, ok := os.LookupEnv("SWAGCMP_STORE_DIR"); ok && d != "" {
		return d, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "swagcmp"), true
	}
	return "", false
}

// New opens (creating if needed) a filesystem store rooted at base.
func New(base string, opts ...Option) (*Backend, error) {
	b := &Backend{base: base}
	for _, opt := range opts {
		opt(b)
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return nil, store.Failure("init", base, err)
	}
	log.Debugf("fs store opened: base=%s", base)
	return b, nil
}

// Save implements store.Store.
func (b *Backend) Save(ctx context.Context, key string, doc *document.Document, at time.Time) (*store.Snapshot, error) {
	unlock := b.locks.Lock(key)
	defer unlock()

	at = store.Truncate(at)

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	if b.passphrase != "" {
		if body, err = seal(body, b.passphrase); err != nil {
			return nil, store.Failure("save", key, err)
		}
	}

	if err := b.writeNew(b.snapshotPath(key, at), key, body); err != nil {
		return nil, err
	}
	log.Debugf("snapshot saved: key=%s stamp=%s", key, store.FormatStamp(at))

	return &store.Snapshot{Resource: key, Timestamp: at, Content: doc}, nil
}

// SaveReport implements store.Store.
func (b *Backend) SaveReport(ctx context.Context, key string, report differ.Report, at time.Time) error {
	unlock := b.locks.Lock(key)
	defer unlock()

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	return b.writeNew(b.reportPath(key, store.Truncate(at)), key, body)
}

// QueryLatest implements store.Store.
func (b *Backend) QueryLatest(ctx context.Context, key string, start, end *time.Time) (*store.Snapshot, error) {
	unlock := b.locks.Lock(key)
	defer unlock()

	stamps, err := b.scan(key)
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

	doc, err := b.load(key, latest)
	if err != nil {
		return nil, err
	}
	return &store.Snapshot{Resource: key, Timestamp: latest, Content: doc}, nil
}

// Load implements store.Store.
func (b *Backend) Load(ctx context.Context, key string, at time.Time) (*document.Document, error) {
	unlock := b.locks.Lock(key)
	defer unlock()

	return b.load(key, store.Truncate(at))
}

// List implements store.Store.
func (b *Backend) List(ctx context.Context, key string) ([]store.Snapshot, error) {
	unlock := b.locks.Lock(key)
	defer unlock()

	stamps, err := b.scan(key)
	if err != nil {
		return nil, err
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].After(stamps[j]) })

	snaps := make([]store.Snapshot, len(stamps))
	for i, t := range stamps {
		snaps[i] = store.Snapshot{Resource: key, Timestamp: t}
	}
	return snaps, nil
}

// String implements store.Store.
func (b *Backend) String() string { return b.base }

func (b *Backend) snapshotPath(key string, at time.Time) string {
	return filepath.Join(b.base, key, store.FormatStamp(at)+snapshotExt)
}

func (b *Backend) reportPath(key string, at time.Time) string {
	return filepath.Join(b.base, key, reportsDir, store.FormatStamp(at)+snapshotExt)
}

// writeNew creates path with exclusive-create semantics so a concurrent or
// repeated save at the same stamp surfaces as ErrDuplicateTimestamp instead
// of silently clobbering history.
func (b *Backend) writeNew(path, key string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return store.Failure("save", key, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:mnd
	if err != nil {
		if os.IsExist(err) {
			return store.ErrDuplicateTimestamp
		}
		return store.Failure("save", key, err)
	}

	if _, err := f.Write(body); err != nil {
		f.Close()
		return store.Failure("save", key, err)
	}
	if err := f.Close(); err != nil {
		return store.Failure("save", key, err)
	}
	return nil
}

func (b *Backend) load(key string, at time.Time) (*document.Document, error) {
	body, err := os.ReadFile(b.snapshotPath(key, at))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, store.Failure("load", key, err)
	}

	if sealed(body) {
		if b.passphrase == "" {
			return nil, store.Failure("load", key, fmt.Errorf("snapshot is sealed and no passphrase is configured"))
		}
		if body, err = unseal(body, b.passphrase); err != nil {
			return nil, store.Failure("load", key, err)
		}
	}

	doc, err := document.DecodeJSONBytes(body)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s@%s: %w", key, store.FormatStamp(at), err)
	}
	return doc, nil
}

// scan collects the parseable snapshot stamps under key. A missing key
// directory is an empty history, not an error. Entries that do not parse as
// stamps are skipped, matching what prior runs of other versions may have
// left behind.
func (b *Backend) scan(key string) ([]time.Time, error) {
	entries, err := os.ReadDir(filepath.Join(b.base, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, store.Failure("scan", key, err)
	}

	var stamps []time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), snapshotExt) {
			continue
		}
		t, err := store.ParseStamp(strings.TrimSuffix(e.Name(), snapshotExt))
		if err != nil {
			continue
		}
		stamps = append(stamps, t)
	}
	return stamps, nil
}
