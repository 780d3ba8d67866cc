// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// NewCommonFlags builds the flags shared by every subcommand. ns is the
// subcommand namespace used when chaining config file sources; cfgPath is the
// resolved config file (may be empty when no config exists).
func NewCommonFlags(ns, cfgPath string) []cli.Flag {
	return []cli.Flag{
		NewStoreFlag(ns, cfgPath),
		NewResourceFlag(ns, cfgPath),
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, json, yaml)",
			Value:   "text",
			Validator: func(value string) error {
				return OutputValidator(value)
			},
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}
}

// NewStoreFlag constructs the --store flag: a directory path or an
// s3://bucket/prefix spec. Resolution falls through flag, env, namespaced
// config, global config, and finally the user cache dir default.
func NewStoreFlag(ns, cfgPath string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "store",
		Aliases: []string{"s"},
		Usage:   "snapshot store location (directory or s3://bucket/prefix)",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SWAGCMP_STORE"),
		),
	}
	return NameSpacedValueChainFlagFromConfigFile(ns, cfgPath, flag)
}

// NewResourceFlag constructs the --resource flag overriding the key derived
// from the document source.
func NewResourceFlag(ns, cfgPath string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "resource",
		Aliases: []string{"r"},
		Usage:   "resource key to snapshot under; derived from the source when unset",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SWAGCMP_RESOURCE"),
		),
	}
	return NameSpacedValueChainFlagFromConfigFile(ns, cfgPath, flag)
}

// NewPassphraseFlag constructs the --passphrase flag used by sealed
// filesystem stores.
func NewPassphraseFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "passphrase",
		Usage: "passphrase for sealed snapshot stores",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("SWAGCMP_PASSPHRASE"),
		),
	}
}

// NewProfileFlag and NewRegionFlag pass AWS overrides through to s3 stores.
func NewProfileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "profile",
		Usage: "AWS shared config profile for s3:// stores",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_PROFILE"),
		),
	}
}

func NewRegionFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "region",
		Usage: "AWS region for s3:// stores",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("AWS_REGION"),
		),
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config
// file sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	if path == "" {
		return flag
	}

	if ns != "" {
		src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
		flag.Sources.Chain = append(flag.Sources.Chain, src)
	}

	src := yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
