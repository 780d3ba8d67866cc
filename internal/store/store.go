// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hexilium/swagger-api-compare/internal/differ"
	"github.com/hexilium/swagger-api-compare/internal/document"
)

// Snapshot is one persisted document version. Content is nil on the metadata
// listings returned by List.
type Snapshot struct {
	Resource  string
	Timestamp time.Time
	Content   *document.Document
}

// Store is the snapshot persistence contract. Implementations are safe for
// concurrent use across distinct resource keys; writes within one key are
// serialized internally.
type Store interface {
	// Save persists doc under (key, at truncated to the second). It fails
	// with ErrDuplicateTimestamp when that slot is already occupied.
	Save(ctx context.Context, key string, doc *document.Document, at time.Time) (*Snapshot, error)

	// SaveReport persists a diff report in the parallel report namespace,
	// addressed by the same (key, timestamp) scheme as snapshots.
	SaveReport(ctx context.Context, key string, report differ.Report, at time.Time) error

	// QueryLatest returns the snapshot with the greatest timestamp inside
	// [start, end]; either bound may be nil for open. A (nil, nil) return
	// means no snapshot matched, which is not an error.
	QueryLatest(ctx context.Context, key string, start, end *time.Time) (*Snapshot, error)

	// Load returns the document saved at exactly (key, at), or ErrNotFound.
	Load(ctx context.Context, key string, at time.Time) (*document.Document, error)

	// List returns snapshot metadata for key, newest first.
	List(ctx context.Context, key string) ([]Snapshot, error)

	String() string
}

// DeriveKey turns a document source identifier into a store resource key: the
// second-to-last '/'-delimited segment, so
// https://petstore.swagger.io/v2/swagger.json and /specs/v2/swagger.json both
// key on "v2". Sources with fewer than two segments key on ".".
func DeriveKey(source string) string {
	parts := strings.Split(source, "/")
	if len(parts) < 2 {
		return "."
	}
	if seg := parts[len(parts)-2]; seg != "" {
		return seg
	}
	return "."
}

// KeyedMutex serializes operations per resource key. Distinct keys never
// contend.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock func.
func (m *KeyedMutex) Lock(key string) func() {
	m.mu.Lock()
	if m.locks == nil {
		m.locks = map[string]*sync.Mutex{}
	}
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
