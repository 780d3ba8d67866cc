// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexilium/swagger-api-compare/internal/document"
)

var ctx = context.Background()

func TestLoad_FileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swagger.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"swagger":"2.0","info":{}}`), 0o600))

	doc, err := New(0).Load(ctx, path)
	require.NoError(t, err)
	v, ok := doc.Field("swagger")
	require.True(t, ok)
	assert.Equal(t, "2.0", v.Scalar())
}

func TestLoad_FileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openapi: 3.0.1\npaths:\n  /pets: {}\n"), 0o600))

	doc, err := New(0).Load(ctx, path)
	require.NoError(t, err)
	v, ok := doc.Field("openapi")
	require.True(t, ok)
	assert.Equal(t, "3.0.1", v.Scalar())
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := New(0).Load(ctx, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"swagger":"2.0"}`))
	}))
	defer srv.Close()

	doc, err := New(0).Load(ctx, srv.URL)
	require.NoError(t, err)
	assert.NoError(t, Validate(doc))
}

func TestLoad_HTTPYAMLContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte("openapi: 3.1.0\n"))
	}))
	defer srv.Close()

	doc, err := New(0).Load(ctx, srv.URL)
	require.NoError(t, err)
	v, _ := doc.Field("openapi")
	assert.Equal(t, "3.1.0", v.Scalar())
}

func TestLoad_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(0).Load(ctx, srv.URL)
	assert.Error(t, err)
}

func TestLoad_HTTPRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"swagger":"2.0"}`))
	}))
	defer srv.Close()

	doc, err := New(3).Load(ctx, srv.URL)
	require.NoError(t, err)
	assert.NoError(t, Validate(doc))
	assert.Equal(t, int32(3), calls.Load())
}

func TestIsYAML(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		contentType string
		body        string
		want        bool
	}{
		{name: "yaml extension", source: "spec.yaml", want: true},
		{name: "yml extension", source: "spec.yml", want: true},
		{name: "json extension", source: "spec.json", want: false},
		{name: "yaml content type", source: "http://x/spec", contentType: "application/yaml", want: true},
		{name: "json content type", source: "http://x/spec", contentType: "application/json; charset=utf-8", want: false},
		{name: "sniff object", source: "http://x/spec", body: `  {"a":1}`, want: false},
		{name: "sniff array", source: "http://x/spec", body: `[1]`, want: false},
		{name: "sniff yaml", source: "http://x/spec", body: "swagger: '2.0'", want: true},
		{name: "extension beats sniff", source: "spec.json", body: "swagger: '2.0'", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isYAML(tt.source, tt.contentType, []byte(tt.body)))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{name: "swagger 2", src: `{"swagger":"2.0"}`},
		{name: "openapi 3", src: `{"openapi":"3.0.1"}`},
		{name: "neither", src: `{"info":{}}`, wantErr: true},
		{name: "array root", src: `[]`, wantErr: true},
		{name: "scalar root", src: `"2.0"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := document.DecodeJSONBytes([]byte(tt.src))
			require.NoError(t, err)
			err = Validate(doc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
