// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	yamlv2 "gopkg.in/yaml.v2"

	"github.com/hexilium/swagger-api-compare/internal/document"
	"github.com/hexilium/swagger-api-compare/internal/driller"
	"github.com/hexilium/swagger-api-compare/internal/meta"
	"github.com/hexilium/swagger-api-compare/internal/store"
)

func showCommandBuilder(m meta.Meta) *cli.Command {
	ns := "show"
	cmd := &cli.Command{
		Name:      ns,
		Usage:     "Dump one stored snapshot",
		ArgsUsage: "<resource|url|file>",
		Flags: append(NewCommonFlags(ns, m.Config.Source),
			NewPassphraseFlag(),
			NewProfileFlag(),
			NewRegionFlag(),
			&cli.StringFlag{
				Name:  "at",
				Usage: "timestamp of the snapshot to show; latest when unset",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "show only the subtree at this dotted path",
			},
		),
		Metadata: map[string]interface{}{"meta": m},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return showAction(ctx, cmd)
		},
	}
	return cmd
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	st, err := OpenStore(ctx, cmd)
	if err != nil {
		return err
	}
	key, err := ResourceArg(cmd)
	if err != nil {
		return err
	}

	var doc *document.Document
	if at := cmd.String("at"); at != "" {
		stamp, perr := store.ParseStamp(at)
		if perr != nil {
			return fmt.Errorf("failed to parse --at value %q: %w", at, perr)
		}
		if doc, err = st.Load(ctx, key, stamp); err != nil {
			return err
		}
	} else {
		snap, qerr := st.QueryLatest(ctx, key, nil, nil)
		if qerr != nil {
			return qerr
		}
		if snap == nil {
			return fmt.Errorf("no snapshots stored for %s", key)
		}
		doc = snap.Content
	}

	if path := cmd.String("path"); path != "" {
		if doc, err = driller.Drill(doc, path); err != nil {
			return err
		}
	}

	switch cmd.String("output") {
	case "yaml":
		data, merr := json.Marshal(doc)
		if merr != nil {
			return merr
		}
		var v interface{}
		if err := yamlv2.Unmarshal(data, &v); err != nil {
			return err
		}
		out, yerr := yamlv2.Marshal(v)
		if yerr != nil {
			return yerr
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
}
