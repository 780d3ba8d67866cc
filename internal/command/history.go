// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hexilium/swagger-api-compare/internal/meta"
	"github.com/hexilium/swagger-api-compare/internal/output"
)

func historyCommandBuilder(m meta.Meta) *cli.Command {
	ns := "history"
	cmd := &cli.Command{
		Name:      ns,
		Usage:     "List the stored snapshots of a resource, newest first",
		ArgsUsage: "<resource|url|file>",
		Flags: append(NewCommonFlags(ns, m.Config.Source),
			NewPassphraseFlag(),
			NewProfileFlag(),
			NewRegionFlag(),
		),
		Metadata: map[string]interface{}{"meta": m},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return historyAction(ctx, cmd)
		},
	}
	return cmd
}

func historyAction(ctx context.Context, cmd *cli.Command) error {
	st, err := OpenStore(ctx, cmd)
	if err != nil {
		return err
	}
	key, err := ResourceArg(cmd)
	if err != nil {
		return err
	}

	snaps, err := st.List(ctx, key)
	if err != nil {
		return err
	}

	return output.History(os.Stdout, snaps, cmd.String("output"), cmd.Bool("titles"))
}
