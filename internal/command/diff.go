// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hexilium/swagger-api-compare/internal/differ"
	"github.com/hexilium/swagger-api-compare/internal/document"
	"github.com/hexilium/swagger-api-compare/internal/driller"
	"github.com/hexilium/swagger-api-compare/internal/filters"
	"github.com/hexilium/swagger-api-compare/internal/loader"
	"github.com/hexilium/swagger-api-compare/internal/meta"
	"github.com/hexilium/swagger-api-compare/internal/output"
	"github.com/hexilium/swagger-api-compare/internal/picker"
	"github.com/hexilium/swagger-api-compare/internal/store"
)

func diffCommandBuilder(m meta.Meta) *cli.Command {
	ns := "diff"
	cmd := &cli.Command{
		Name:      ns,
		Usage:     "Compare two stored snapshots, or a snapshot against a live document",
		ArgsUsage: "[<url|file>]",
		Flags: append(NewCommonFlags(ns, m.Config.Source),
			NewPassphraseFlag(),
			NewProfileFlag(),
			NewRegionFlag(),
			&cli.BoolFlag{
				Name:  "ascii",
				Usage: "append a unified-style ascii rendering of the changes",
			},
			&cli.BoolFlag{
				Name:    "pick",
				Aliases: []string{"p"},
				Usage:   "pick the snapshots to compare interactively",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "timestamp of the older snapshot",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "timestamp of the newer snapshot; latest when unset",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "compare only the subtree at this dotted path",
			},
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "exit 1 when differences are found",
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "only report changes matching these filter expressions",
			},
		),
		Metadata: map[string]interface{}{"meta": m},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return diffAction(ctx, cmd)
		},
	}
	return cmd
}

func diffAction(ctx context.Context, cmd *cli.Command) error {
	st, err := OpenStore(ctx, cmd)
	if err != nil {
		return err
	}
	key, err := ResourceArg(cmd)
	if err != nil {
		return err
	}

	old, new, err := resolveDiffPair(ctx, cmd, st, key)
	if err != nil {
		return err
	}

	if path := cmd.String("path"); path != "" {
		if old, err = driller.Drill(old, path); err != nil {
			return err
		}
		if new, err = driller.Drill(new, path); err != nil {
			return err
		}
	}

	report := filters.Apply(differ.Compare(old, new), filters.BuildFilters(cmd.String("filter")))
	if err := output.Report(os.Stdout, report, cmd.String("output")); err != nil {
		return err
	}
	if cmd.Bool("ascii") && !report.Empty() {
		text, err := differ.Ascii(old, new, cmd.Bool("color"))
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, text)
	}

	if cmd.Bool("exit-code") && !report.Empty() {
		return cli.Exit("", 1)
	}
	return nil
}

// resolveDiffPair works out the (older, newer) documents to compare from the
// pick/from/to flags and the optional live source argument.
func resolveDiffPair(ctx context.Context, cmd *cli.Command, st store.Store, key string) (*document.Document, *document.Document, error) {
	liveSource := ""
	if arg := cmd.Args().First(); arg != "" && cmd.String("resource") != "" {
		// With an explicit --resource the positional arg is a live source.
		liveSource = arg
	}

	if cmd.Bool("pick") {
		return pickPair(ctx, cmd, st, key, liveSource)
	}

	var old *document.Document
	var err error
	if from := cmd.String("from"); from != "" {
		at, perr := store.ParseStamp(from)
		if perr != nil {
			return nil, nil, fmt.Errorf("failed to parse --from value %q: %w", from, perr)
		}
		if old, err = st.Load(ctx, key, at); err != nil {
			return nil, nil, err
		}
	} else {
		snap, qerr := st.QueryLatest(ctx, key, nil, nil)
		if qerr != nil {
			return nil, nil, qerr
		}
		if snap == nil {
			return nil, nil, fmt.Errorf("no snapshots stored for %s", key)
		}
		old = snap.Content
	}

	if liveSource != "" {
		new, lerr := loader.New(3).Load(ctx, liveSource)
		if lerr != nil {
			return nil, nil, fmt.Errorf("failed to load %s: %w", liveSource, lerr)
		}
		return old, new, nil
	}

	if to := cmd.String("to"); to != "" {
		at, perr := store.ParseStamp(to)
		if perr != nil {
			return nil, nil, fmt.Errorf("failed to parse --to value %q: %w", to, perr)
		}
		new, lerr := st.Load(ctx, key, at)
		if lerr != nil {
			return nil, nil, lerr
		}
		return old, new, nil
	}

	snap, err := st.QueryLatest(ctx, key, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	if snap == nil {
		return nil, nil, fmt.Errorf("no snapshots stored for %s", key)
	}
	return old, snap.Content, nil
}

// pickPair drives the interactive snapshot picker. Two selections compare the
// older against the newer; one selection compares it against the live source
// when given, the latest snapshot otherwise.
func pickPair(ctx context.Context, cmd *cli.Command, st store.Store, key, liveSource string) (*document.Document, *document.Document, error) {
	snaps, err := st.List(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	if len(snaps) == 0 {
		return nil, nil, fmt.Errorf("no snapshots stored for %s", key)
	}

	picked := picker.SelectSnapshots(snaps)
	switch len(picked) {
	case 1:
		old, err := st.Load(ctx, key, picked[0].Timestamp)
		if err != nil {
			return nil, nil, err
		}
		if liveSource != "" {
			new, lerr := loader.New(3).Load(ctx, liveSource)
			if lerr != nil {
				return nil, nil, fmt.Errorf("failed to load %s: %w", liveSource, lerr)
			}
			return old, new, nil
		}
		new, err := st.Load(ctx, key, snaps[0].Timestamp)
		if err != nil {
			return nil, nil, err
		}
		return old, new, nil
	case 2:
		// List order is newest-first, so the later pick is the older side.
		a, b := picked[0], picked[1]
		if a.Timestamp.Before(b.Timestamp) {
			a, b = b, a
		}
		old, err := st.Load(ctx, key, b.Timestamp)
		if err != nil {
			return nil, nil, err
		}
		new, err := st.Load(ctx, key, a.Timestamp)
		if err != nil {
			return nil, nil, err
		}
		return old, new, nil
	default:
		return nil, nil, fmt.Errorf("pick one or two snapshots, got %d", len(picked))
	}
}
