// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import "time"

// StampLayout is the second-precision, lexicographically sortable form every
// backend uses to address snapshots. Sorting the encoded stamps as strings
// sorts the snapshots by time, so "latest" queries are a plain scan with no
// separate index.
const StampLayout = "20060102150405"

// FormatStamp encodes t for use in a storage address. Stamps are always UTC
// so stores shared between hosts order consistently.
func FormatStamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(StampLayout)
}

// ParseStamp decodes a storage stamp. Entries whose names do not parse are
// skipped by backends rather than failing a whole scan.
func ParseStamp(s string) (time.Time, error) {
	return time.ParseInLocation(StampLayout, s, time.UTC)
}

// Truncate normalizes a caller-supplied save time to stamp precision.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// InRange reports whether t satisfies the optional [start, end] bounds.
func InRange(t time.Time, start, end *time.Time) bool {
	if start != nil && t.Before(Truncate(*start)) {
		return false
	}
	if end != nil && t.After(Truncate(*end)) {
		return false
	}
	return true
}
