// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "petstore url",
			source: "https://petstore.swagger.io/v2/swagger.json",
			want:   "v2",
		},
		{
			name:   "file path",
			source: "/specs/billing/openapi.yaml",
			want:   "billing",
		},
		{
			name:   "relative path",
			source: "specs/swagger.json",
			want:   "specs",
		},
		{
			name:   "bare filename",
			source: "swagger.json",
			want:   ".",
		},
		{
			name:   "root file",
			source: "/swagger.json",
			want:   ".",
		},
		{
			name:   "trailing slash segments",
			source: "https://api.example.com/v1/",
			want:   "v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveKey(tt.source))
		})
	}
}

func TestStampRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)

	stamp := FormatStamp(at)
	assert.Equal(t, "20260314150926", stamp)

	back, err := ParseStamp(stamp)
	require.NoError(t, err)
	assert.Equal(t, at.Truncate(time.Second), back)
	assert.Equal(t, time.UTC, back.Location())
}

func TestFormatStamp_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	at := time.Date(2026, 1, 1, 4, 0, 0, 0, loc)
	assert.Equal(t, "20251231230000", FormatStamp(at))
}

func TestStampsSortLexicographically(t *testing.T) {
	t1 := FormatStamp(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	t2 := FormatStamp(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	t3 := FormatStamp(time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC))
	assert.Less(t, t1, t2)
	assert.Less(t, t2, t3)
}

func TestParseStamp_Invalid(t *testing.T) {
	for _, s := range []string{"", "not-a-stamp", "2026", "20261340000000"} {
		_, err := ParseStamp(s)
		assert.Error(t, err, "stamp %q", s)
	}
}

func TestInRange(t *testing.T) {
	at := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	before := at.Add(-time.Hour)
	after := at.Add(time.Hour)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  bool
	}{
		{name: "open both", want: true},
		{name: "inside", start: &before, end: &after, want: true},
		{name: "inclusive start", start: &at, want: true},
		{name: "inclusive end", end: &at, want: true},
		{name: "before start", start: &after, want: false},
		{name: "after end", end: &before, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InRange(at, tt.start, tt.end))
		})
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := Failure("save", "v2", cause)

	assert.Contains(t, err.Error(), "save")
	assert.Contains(t, err.Error(), "v2")
	assert.ErrorIs(t, err, cause)

	var se *StorageError
	require.ErrorAs(t, error(err), &se)
	assert.Equal(t, "save", se.Op)
}

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	var km KeyedMutex
	var mu sync.Mutex
	counts := map[string]int{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("a")
			defer unlock()
			mu.Lock()
			counts["a"]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counts["a"])
}
