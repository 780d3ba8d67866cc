// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hexilium/swagger-api-compare/internal/document"
	"github.com/hexilium/swagger-api-compare/internal/meta"
	"github.com/hexilium/swagger-api-compare/internal/store/fs"
)

var ctx = context.Background()

func TestOutputValidator(t *testing.T) {
	for _, v := range []string{"text", "json", "yaml"} {
		assert.NoError(t, OutputValidator(v), v)
	}
	for _, v := range []string{"", "raw", "xml", "TEXT"} {
		assert.Error(t, OutputValidator(v), v)
	}
}

// runCapture executes fn inside a throwaway command carrying the given flags
// and args, so flag-reading helpers can be exercised the way actions see them.
func runCapture(t *testing.T, flags []cli.Flag, args []string, fn func(cmd *cli.Command) error) {
	t.Helper()
	cmd := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return fn(cmd)
		},
	}
	require.NoError(t, cmd.Run(ctx, append([]string{"test"}, args...)))
}

func TestParseTimeFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    *time.Time
		wantErr bool
	}{
		{
			name:  "unset",
			value: "",
			want:  nil,
		},
		{
			name:  "stamp layout",
			value: "20260501103000",
			want:  ptrTime(time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)),
		},
		{
			name:  "date only",
			value: "2026-05-01",
			want:  ptrTime(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:  "date and time",
			value: "2026-05-01 10:30:00",
			want:  ptrTime(time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)),
		},
		{
			name:    "garbage",
			value:   "last tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args []string
			if tt.value != "" {
				args = []string{"--since", tt.value}
			}
			runCapture(t, []cli.Flag{&cli.StringFlag{Name: "since"}}, args, func(cmd *cli.Command) error {
				got, err := ParseTimeFlag(cmd, "since")
				if tt.wantErr {
					assert.Error(t, err)
					return nil
				}
				require.NoError(t, err)
				if tt.want == nil {
					assert.Nil(t, got)
				} else {
					require.NotNil(t, got)
					assert.Equal(t, *tt.want, *got)
				}
				return nil
			})
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestResourceKey(t *testing.T) {
	flags := []cli.Flag{&cli.StringFlag{Name: "resource"}}

	runCapture(t, flags, nil, func(cmd *cli.Command) error {
		assert.Equal(t, "v2", ResourceKey(cmd, "https://petstore.swagger.io/v2/swagger.json"))
		return nil
	})

	runCapture(t, flags, []string{"--resource", "billing"}, func(cmd *cli.Command) error {
		assert.Equal(t, "billing", ResourceKey(cmd, "https://petstore.swagger.io/v2/swagger.json"))
		return nil
	})
}

func TestResourceArg(t *testing.T) {
	flags := []cli.Flag{&cli.StringFlag{Name: "resource"}}

	// Bare key argument passes through.
	runCapture(t, flags, []string{"v2"}, func(cmd *cli.Command) error {
		key, err := ResourceArg(cmd)
		require.NoError(t, err)
		assert.Equal(t, "v2", key)
		return nil
	})

	// Source-shaped argument is derived.
	runCapture(t, flags, []string{"https://petstore.swagger.io/v2/swagger.json"}, func(cmd *cli.Command) error {
		key, err := ResourceArg(cmd)
		require.NoError(t, err)
		assert.Equal(t, "v2", key)
		return nil
	})

	// Flag beats argument.
	runCapture(t, flags, []string{"--resource", "billing", "v2"}, func(cmd *cli.Command) error {
		key, err := ResourceArg(cmd)
		require.NoError(t, err)
		assert.Equal(t, "billing", key)
		return nil
	})

	// Nothing to resolve.
	runCapture(t, flags, nil, func(cmd *cli.Command) error {
		_, err := ResourceArg(cmd)
		assert.Error(t, err)
		return nil
	})
}

func TestOpenStore_Filesystem(t *testing.T) {
	dir := t.TempDir()
	flags := []cli.Flag{
		&cli.StringFlag{Name: "store"},
		&cli.StringFlag{Name: "passphrase"},
		&cli.BoolFlag{Name: "seal"},
	}

	runCapture(t, flags, []string{"--store", dir}, func(cmd *cli.Command) error {
		st, err := OpenStore(ctx, cmd)
		require.NoError(t, err)
		_, ok := st.(*fs.Backend)
		assert.True(t, ok)
		assert.Equal(t, dir, st.String())
		return nil
	})
}

func TestOpenStore_DefaultsToCacheDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SWAGCMP_STORE_DIR", dir)

	flags := []cli.Flag{
		&cli.StringFlag{Name: "store"},
		&cli.StringFlag{Name: "passphrase"},
		&cli.BoolFlag{Name: "seal"},
	}

	runCapture(t, flags, nil, func(cmd *cli.Command) error {
		st, err := OpenStore(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, dir, st.String())
		return nil
	})
}

func TestGetMeta(t *testing.T) {
	m := meta.Meta{StartingDir: "/work"}
	cmd := &cli.Command{Metadata: map[string]interface{}{"meta": m}}
	assert.Equal(t, m, GetMeta(cmd))

	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))
	assert.Equal(t, meta.Meta{}, GetMeta(nil))
}

func TestInitApp(t *testing.T) {
	app, err := InitApp(ctx, []string{"swagcmp", "history"})
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "swagcmp", app.Name)

	names := map[string]bool{}
	for _, c := range app.Commands {
		names[c.Name] = true
	}
	for _, want := range []string{"check", "save", "diff", "history", "show"} {
		assert.True(t, names[want], want)
	}
}

func TestStoreRoundTripThroughCommandHelpers(t *testing.T) {
	dir := t.TempDir()
	flags := []cli.Flag{
		&cli.StringFlag{Name: "store"},
		&cli.StringFlag{Name: "passphrase"},
		&cli.BoolFlag{Name: "seal"},
	}

	runCapture(t, flags, []string{"--store", dir}, func(cmd *cli.Command) error {
		st, err := OpenStore(ctx, cmd)
		require.NoError(t, err)

		doc, err := document.DecodeJSONBytes([]byte(`{"swagger":"2.0"}`))
		require.NoError(t, err)

		at := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
		_, err = st.Save(ctx, "v2", doc, at)
		require.NoError(t, err)

		snap, err := st.QueryLatest(ctx, "v2", nil, nil)
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.Equal(t, at, snap.Timestamp)
		return nil
	})
}
