// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hexilium/swagger-api-compare/internal/command"
	"github.com/hexilium/swagger-api-compare/internal/config"
	"github.com/hexilium/swagger-api-compare/internal/log"
	"github.com/hexilium/swagger-api-compare/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip arg processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processSetOnly(args)
		args = deduplicateFlags(args)
		log.Debugf("args after set processing: args=%v", args)
	}

	return initAndRunApp(args)
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

// processSetOnly expands a @set argument into the flag set configured under
// <command>.<set> in the config file, at the @set position.
func processSetOnly(args []string) []string {
	idx := 2
	set := "defaults"
	removeIdx := -1
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = idx + i
			break
		}
	}
	if removeIdx != -1 {
		// Remove the @set argument.
		args = append(args[:removeIdx], args[removeIdx+1:]...)
		// Expand the set arguments at the removeIdx position.
		setArgs, _ := config.GetStringSlice(args[1] + "." + set)
		for _, arg := range setArgs {
			parts := strings.Fields(arg)
			args = append(args[:removeIdx], append(parts, args[removeIdx:]...)...)
			removeIdx += len(parts)
		}
	}
	return args
}

// deduplicateFlags keeps only the last occurrence of a repeated flag so that
// command-line flags override @set-injected ones. Positional arguments are
// preserved in place.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type token struct {
		texts []string // flag plus its value, or one positional
		name  string   // flag name including dashes, "" for positionals
	}

	var tokens []token
	for i := 2; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") {
			tokens = append(tokens, token{texts: []string{a}})
			continue
		}
		name := a
		texts := []string{a}
		if eq := strings.Index(a, "="); eq != -1 {
			name = a[:eq]
		} else if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			// A following non-flag is this flag's value unless the flag is
			// the last token, in which case it is boolean.
			texts = append(texts, args[i+1])
			i++
		}
		tokens = append(tokens, token{texts: texts, name: name})
	}

	// Last occurrence of each flag name wins.
	keep := make([]bool, len(tokens))
	seen := map[string]bool{}
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].name == "" {
			keep[i] = true
			continue
		}
		if !seen[tokens[i].name] {
			seen[tokens[i].name] = true
			keep[i] = true
		}
	}

	out := args[:2:2]
	for i, tok := range tokens {
		if keep[i] {
			out = append(out, tok.texts...)
		}
	}
	return out
}
