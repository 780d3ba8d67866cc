// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexilium/swagger-api-compare/internal/differ"
	"github.com/hexilium/swagger-api-compare/internal/document"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []Filter
	}{
		{
			name: "empty spec",
			spec: "",
			want: nil,
		},
		{
			name: "kind equals",
			spec: "kind=added",
			want: []Filter{{Key: "kind", Operand: "=", Value: "added"}},
		},
		{
			name: "path prefix",
			spec: "path^paths",
			want: []Filter{{Key: "path", Operand: "^", Value: "paths"}},
		},
		{
			name: "negated contains",
			spec: "path!~deprecated",
			want: []Filter{{Key: "path", Negate: true, Operand: "~", Value: "deprecated"}},
		},
		{
			name: "multiple comma separated",
			spec: "kind=removed, path^paths",
			want: []Filter{
				{Key: "kind", Operand: "=", Value: "removed"},
				{Key: "path", Operand: "^", Value: "paths"},
			},
		},
		{
			name: "unknown key skipped",
			spec: "bogus=1,kind=added",
			want: []Filter{{Key: "kind", Operand: "=", Value: "added"}},
		},
		{
			name: "blank entries skipped",
			spec: ",,kind=added,",
			want: []Filter{{Key: "kind", Operand: "=", Value: "added"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestBuildFilters_DelimOverride(t *testing.T) {
	t.Setenv("SWAGCMP_FILTER_DELIM", ";")
	got := BuildFilters("path~a,b;kind=added")
	require.Len(t, got, 2)
	assert.Equal(t, "a,b", got[0].Value)
}

func testReport(t *testing.T) differ.Report {
	t.Helper()
	old, err := document.DecodeJSONBytes([]byte(`{"paths":{"/a":{},"/b":{}},"info":{"version":"1.0"}}`))
	require.NoError(t, err)
	new, err := document.DecodeJSONBytes([]byte(`{"paths":{"/b":{},"/c":{}},"info":{"version":"2.0"}}`))
	require.NoError(t, err)
	return differ.Compare(old, new)
}

func TestApply(t *testing.T) {
	report := testReport(t)
	require.Len(t, report, 3)

	tests := []struct {
		name    string
		spec    string
		wantLen int
	}{
		{name: "no filters passes all", spec: "", wantLen: 3},
		{name: "kind added", spec: "kind=added", wantLen: 1},
		{name: "kind negated", spec: "kind!=added", wantLen: 2},
		{name: "path prefix", spec: "path^paths", wantLen: 2},
		{name: "path contains", spec: "path~version", wantLen: 1},
		{name: "conjunction", spec: "path^paths,kind=removed", wantLen: 1},
		{name: "nothing matches", spec: "kind=type-changed", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(report, BuildFilters(tt.spec))
			assert.Len(t, got, tt.wantLen)
		})
	}
}
