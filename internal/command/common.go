// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hexilium/swagger-api-compare/internal/loader"
	"github.com/hexilium/swagger-api-compare/internal/log"
	"github.com/hexilium/swagger-api-compare/internal/meta"
	"github.com/hexilium/swagger-api-compare/internal/store"
	"github.com/hexilium/swagger-api-compare/internal/store/fs"
	"github.com/hexilium/swagger-api-compare/internal/store/s3"
)

// stampInputLayouts are the forms accepted for --since/--until/--from/--to.
var stampInputLayouts = []string{
	store.StampLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// OpenStore resolves the snapshot store for a command. An s3://bucket/prefix
// spec selects the S3 backend; anything else is a filesystem directory,
// defaulting to the user cache dir when nothing was configured.
func OpenStore(ctx context.Context, cmd *cli.Command) (store.Store, error) {
	spec := cmd.String("store")
	if spec == "" {
		base, ok := fs.DefaultDir()
		if !ok {
			return nil, fmt.Errorf("no store configured and no user cache dir available")
		}
		spec = base
	}

	if bucket, prefix, ok := s3.ParseURL(spec); ok {
		var opts []s3.Option
		if p := cmd.String("profile"); p != "" {
			opts = append(opts, s3.WithProfile(p))
		}
		if r := cmd.String("region"); r != "" {
			opts = append(opts, s3.WithRegion(r))
		}
		return s3.New(ctx, bucket, prefix, opts...)
	}

	var opts []fs.Option
	if cmd.Bool("seal") {
		passphrase := cmd.String("passphrase")
		if passphrase == "" {
			var err error
			if passphrase, err = loader.GetPassphrase(); err != nil {
				return nil, err
			}
		}
		opts = append(opts, fs.WithPassphrase(passphrase))
	} else if p := cmd.String("passphrase"); p != "" {
		opts = append(opts, fs.WithPassphrase(p))
	}

	st, err := fs.New(spec, opts...)
	if err != nil {
		return nil, err
	}
	log.Debugf("store resolved: %s", st)
	return st, nil
}

// ResourceKey resolves the store key for a document source: the --resource
// flag when given, otherwise derived from the source identifier.
func ResourceKey(cmd *cli.Command, source string) string {
	if r := cmd.String("resource"); r != "" {
		return r
	}
	key := store.DeriveKey(source)
	log.Debugf("resource key derived: source=%s key=%s", source, key)
	return key
}

// ResourceArg resolves a resource key from a positional argument that may be
// either a bare key or a source identifier.
func ResourceArg(cmd *cli.Command) (string, error) {
	if r := cmd.String("resource"); r != "" {
		return r, nil
	}
	arg := cmd.Args().First()
	if arg == "" {
		return "", fmt.Errorf("a resource key or document source is required")
	}
	if strings.Contains(arg, "/") {
		return store.DeriveKey(arg), nil
	}
	return arg, nil
}

// ParseTimeFlag parses an optional time-valued flag. Accepts the store stamp
// form, RFC3339, and a couple of human-friendly layouts. Returns nil when the
// flag is unset.
func ParseTimeFlag(cmd *cli.Command, name string) (*time.Time, error) {
	raw := cmd.String(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range stampInputLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("failed to parse --%s value %q", name, raw)
}
