// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/staranto/npsctl/internal/command"
	mylog "github.com/staranto/npsctl/internal/log"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var ctx = context.Background()

func main() {
	os.Exit(realMain(os.Args))
}

func realMain(args []string) int {
	mylog.InitLogger()

	// Short-circuit --version/-v.
	for _, a := range args[1:] {
		if a == "--version" || a == "-v" {
			fmt.Println(version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}
