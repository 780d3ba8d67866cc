// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexilium/swagger-api-compare/internal/differ"
	"github.com/hexilium/swagger-api-compare/internal/document"
	"github.com/hexilium/swagger-api-compare/internal/store"
)

var ctx = context.Background()

func testDoc(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.DecodeJSONBytes([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)

	doc := testDoc(t, `{"swagger":"2.0","paths":{"/pets":{}}}`)
	at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)

	snap, err := b.Save(ctx, "v2", doc, at)
	require.NoError(t, err)
	assert.Equal(t, "v2", snap.Resource)
	assert.Equal(t, at, snap.Timestamp)

	back, err := b.Load(ctx, "v2", at)
	require.NoError(t, err)
	assert.True(t, document.Equal(doc, back))
}

func TestSave_TruncatesToSecond(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)

	at := time.Date(2026, 5, 1, 10, 30, 0, 999999999, time.UTC)
	snap, err := b.Save(ctx, "v2", testDoc(t, `{}`), at)
	require.NoError(t, err)
	assert.Equal(t, at.Truncate(time.Second), snap.Timestamp)

	// Loading with the untruncated time addresses the same snapshot.
	_, err = b.Load(ctx, "v2", at)
	require.NoError(t, err)
}

func TestSave_DuplicateTimestamp(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)

	at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	_, err = b.Save(ctx, "v2", testDoc(t, `{"a":1}`), at)
	require.NoError(t, err)

	_, err = b.Save(ctx, "v2", testDoc(t, `{"a":2}`), at)
	assert.ErrorIs(t, err, store.ErrDuplicateTimestamp)

	// The original content is untouched.
	back, err := b.Load(ctx, "v2", at)
	require.NoError(t, err)
	assert.True(t, document.Equal(testDoc(t, `{"a":1}`), back))
}

func TestLoad_NotFound(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = b.Load(ctx, "missing", time.Now())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestQueryLatest(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)

	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, at := range []time.Time{t1, t2, t3} {
		_, err := b.Save(ctx, "v2", testDoc(t, fmt.Sprintf(`{"rev":%d}`, i+1)), at)
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  *time.Time
	}{
		{name: "unbounded picks newest", want: &t3},
		{name: "end bound excludes newer", end: &t2, want: &t2},
		{name: "start bound only", start: &t2, want: &t3},
		{name: "window", start: &t1, end: &t2, want: &t2},
		{name: "inclusive bounds", start: &t2, end: &t2, want: &t2},
		{name: "empty window", end: ptrTime(t1.Add(-time.Hour)), want: nil},
		{name: "start after newest", start: ptrTime(t3.Add(time.Second)), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := b.QueryLatest(ctx, "v2", tt.start, tt.end)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, snap)
				return
			}
			require.NotNil(t, snap)
			assert.Equal(t, *tt.want, snap.Timestamp)
			assert.NotNil(t, snap.Content)
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestQueryLatest_UnknownKey(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)

	// No history is not an error.
	snap, err := b.QueryLatest(ctx, "never-saved", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestList_NewestFirst(t *testing.T) {
	b, err := New(t.TempDir())
	require.NoError(t, err)

	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{t1, t2} {
		_, err := b.Save(ctx, "v2", testDoc(t, `{}`), at)
		require.NoError(t, err)
	}

	snaps, err := b.List(ctx, "v2")
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, t2, snaps[0].Timestamp)
	assert.Equal(t, t1, snaps[1].Timestamp)
}

func TestList_SkipsForeignFiles(t *testing.T) {
	base := t.TempDir()
	b, err := New(base)
	require.NoError(t, err)

	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = b.Save(ctx, "v2", testDoc(t, `{}`), at)
	require.NoError(t, err)

	// Stray files and the reports dir are ignored by scans.
	require.NoError(t, os.WriteFile(filepath.Join(base, "v2", "README.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(base, "v2", "notastamp.json"), []byte("{}"), 0o600))
	require.NoError(t, b.SaveReport(ctx, "v2", differ.Report{}, at))

	snaps, err := b.List(ctx, "v2")
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestSaveReport(t *testing.T) {
	base := t.TempDir()
	b, err := New(base)
	require.NoError(t, err)

	old := testDoc(t, `{"info":{"version":"1.0"}}`)
	new := testDoc(t, `{"info":{"version":"2.0"}}`)
	report := differ.Compare(old, new)
	require.Len(t, report, 1)

	at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, b.SaveReport(ctx, "v2", report, at))

	body, err := os.ReadFile(filepath.Join(base, "v2", "reports", "20260501103000.json"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "value-changed")
	assert.Contains(t, string(body), "info")
}

func TestSealedRoundTrip(t *testing.T) {
	base := t.TempDir()
	b, err := New(base, WithPassphrase("hunter2"))
	require.NoError(t, err)

	doc := testDoc(t, `{"swagger":"2.0","secret":"internal-host"}`)
	at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	_, err = b.Save(ctx, "v2", doc, at)
	require.NoError(t, err)

	// The on-disk body is an envelope, not the document.
	raw, err := os.ReadFile(filepath.Join(base, "v2", "20260501103000.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "encrypted_data")
	assert.NotContains(t, string(raw), "internal-host")

	back, err := b.Load(ctx, "v2", at)
	require.NoError(t, err)
	assert.True(t, document.Equal(doc, back))
}

func TestSealed_WrongPassphrase(t *testing.T) {
	base := t.TempDir()
	b, err := New(base, WithPassphrase("hunter2"))
	require.NoError(t, err)

	at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	_, err = b.Save(ctx, "v2", testDoc(t, `{}`), at)
	require.NoError(t, err)

	wrong, err := New(base, WithPassphrase("*******"))
	require.NoError(t, err)
	_, err = wrong.Load(ctx, "v2", at)
	assert.Error(t, err)

	bare, err := New(base)
	require.NoError(t, err)
	_, err = bare.Load(ctx, "v2", at)
	assert.Error(t, err)
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("SWAGCMP_STORE_DIR", "/tmp/swagcmp-test-store")
	dir, ok := DefaultDir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/swagcmp-test-store", dir)
}
