// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hexilium/swagger-api-compare/internal/loader"
	"github.com/hexilium/swagger-api-compare/internal/meta"
	"github.com/hexilium/swagger-api-compare/internal/store"
)

func saveCommandBuilder(m meta.Meta) *cli.Command {
	ns := "save"
	cmd := &cli.Command{
		Name:      ns,
		Usage:     "Snapshot a document without comparing it",
		ArgsUsage: "<url|file>",
		Flags: append(NewCommonFlags(ns, m.Config.Source),
			NewPassphraseFlag(),
			NewProfileFlag(),
			NewRegionFlag(),
			&cli.BoolFlag{
				Name:  "seal",
				Usage: "encrypt the snapshot with a passphrase",
			},
			&cli.IntFlag{
				Name:  "retries",
				Usage: "HTTP retry attempts when fetching by URL",
				Value: 3,
			},
			&cli.BoolFlag{
				Name:  "no-validate",
				Usage: "skip the swagger/openapi well-formedness check",
			},
		),
		Metadata: map[string]interface{}{"meta": m},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return saveAction(ctx, cmd)
		},
	}
	return cmd
}

func saveAction(ctx context.Context, cmd *cli.Command) error {
	source := cmd.Args().First()
	if source == "" {
		return fmt.Errorf("a document url or file is required")
	}

	doc, err := loader.New(cmd.Int("retries")).Load(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", source, err)
	}
	if !cmd.Bool("no-validate") {
		if err := loader.Validate(doc); err != nil {
			return fmt.Errorf("%s is not a swagger/openapi document: %w", source, err)
		}
	}

	st, err := OpenStore(ctx, cmd)
	if err != nil {
		return err
	}

	snap, err := st.Save(ctx, ResourceKey(cmd, source), doc, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("saved %s@%s\n", snap.Resource, store.FormatStamp(snap.Timestamp))
	return nil
}
