// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hexilium/swagger-api-compare/internal/differ"
	"github.com/hexilium/swagger-api-compare/internal/filters"
	"github.com/hexilium/swagger-api-compare/internal/loader"
	"github.com/hexilium/swagger-api-compare/internal/log"
	"github.com/hexilium/swagger-api-compare/internal/meta"
	"github.com/hexilium/swagger-api-compare/internal/output"
)

func checkCommandBuilder(m meta.Meta) *cli.Command {
	ns := "check"
	cmd := &cli.Command{
		Name:      ns,
		Usage:     "Fetch a document, compare it against the latest stored snapshot, and snapshot it",
		ArgsUsage: "<url|file>",
		Flags: append(NewCommonFlags(ns, m.Config.Source),
			NewPassphraseFlag(),
			NewProfileFlag(),
			NewRegionFlag(),
			&cli.BoolFlag{
				Name:  "ascii",
				Usage: "append a unified-style ascii rendering of the changes",
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
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "compare only, do not snapshot the fetched document",
			},
			&cli.BoolFlag{
				Name:  "seal",
				Usage: "encrypt the snapshot with a passphrase",
			},
			&cli.BoolFlag{
				Name:  "save-report",
				Usage: "persist the diff report alongside the snapshot",
			},
			&cli.IntFlag{
				Name:  "retries",
				Usage: "HTTP retry attempts when fetching by URL",
				Value: 3,
			},
			&cli.StringFlag{
				Name:  "since",
				Usage: "only compare against snapshots at or after this time",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("SWAGCMP_SINCE"),
				),
			},
			&cli.StringFlag{
				Name:  "until",
				Usage: "only compare against snapshots at or before this time",
			},
		),
		Metadata: map[string]interface{}{"meta": m},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return checkAction(ctx, cmd)
		},
	}
	return cmd
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	source := cmd.Args().First()
	if source == "" {
		return fmt.Errorf("a document url or file is required")
	}

	doc, err := loader.New(cmd.Int("retries")).Load(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", source, err)
	}
	if err := loader.Validate(doc); err != nil {
		return fmt.Errorf("%s is not a swagger/openapi document: %w", source, err)
	}

	st, err := OpenStore(ctx, cmd)
	if err != nil {
		return err
	}
	key := ResourceKey(cmd, source)

	since, err := ParseTimeFlag(cmd, "since")
	if err != nil {
		return err
	}
	until, err := ParseTimeFlag(cmd, "until")
	if err != nil {
		return err
	}

	prev, err := st.QueryLatest(ctx, key, since, until)
	if err != nil {
		return err
	}

	now := time.Now()

	var report differ.Report
	if prev == nil {
		log.Infof("no prior snapshot for %s, establishing baseline", key)
	} else {
		report = filters.Apply(differ.Compare(prev.Content, doc), filters.BuildFilters(cmd.String("filter")))
		if err := output.Report(os.Stdout, report, cmd.String("output")); err != nil {
			return err
		}
		if cmd.Bool("ascii") && !report.Empty() {
			text, err := differ.Ascii(prev.Content, doc, cmd.Bool("color"))
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stdout, text)
		}
		if cmd.Bool("save-report") && !report.Empty() {
			if err := st.SaveReport(ctx, key, report, now); err != nil {
				return err
			}
		}
	}

	if !cmd.Bool("no-save") {
		snap, err := st.Save(ctx, key, doc, now)
		if err != nil {
			return err
		}
		log.Debugf("saved %s@%s", snap.Resource, snap.Timestamp.Format(time.RFC3339))
	}

	if cmd.Bool("exit-code") && !report.Empty() {
		return cli.Exit("", 1)
	}
	return nil
}
