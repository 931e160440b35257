// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/npsctl/internal/cache"
	"github.com/staranto/npsctl/internal/cacheutil"
	"github.com/staranto/npsctl/internal/config"
	"github.com/staranto/npsctl/internal/fetch"
	"github.com/staranto/npsctl/internal/meta"
	"github.com/staranto/npsctl/internal/nps"
	"github.com/staranto/npsctl/internal/output"
	"github.com/staranto/npsctl/internal/places"
	"github.com/staranto/npsctl/internal/session"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// Running without a config file is fine. A config file that is present
	// but unreadable is not.
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "npsctl",
		Usage: "National Park Service site explorer",
		UsageText: "npsctl [flags]\n\n" +
			"Prompts for a state, lists its national sites and looks up places\n" +
			"near the one you pick. Pages and lookups are cached on disk.",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:                 NewGlobalFlags(cfg.Source),
		Action:                exploreAction,
		EnableShellCompletion: true,
	}

	// Make sure flags are sorted for the --help text.
	sort.Slice(app.Flags, func(i, j int) bool {
		return app.Flags[i].Names()[0] < app.Flags[j].Names()[0]
	})

	return app, nil
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

// exploreAction opens the cache, builds the directory and places clients and
// runs the interactive session until the user exits or input ends.
func exploreAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.WithFields(log.Fields{
		"config": m.Config.Source,
		"cwd":    m.StartingDir,
	}).Debug("starting session")

	path := cacheutil.DocumentPath(cmd.String("cache"))
	if _, err := cacheutil.EnsureBaseDir(path); err != nil {
		return err
	}

	store, err := cache.Open(path)
	if err != nil {
		return err
	}

	hitter := fetch.New(fetch.Options{Timeout: cmd.Duration("timeout")})

	dir, err := nps.New(store, hitter, cmd.String("origin"))
	if err != nil {
		return err
	}

	finder := places.NewClient(places.Options{
		BaseURL:    cmd.String("places-url"),
		Key:        cmd.String("key"),
		Radius:     cmd.String("radius"),
		MaxMatches: cmd.String("max-matches"),
	}, hitter.Client(), store)

	printer := output.New(writer(cmd), output.Options{
		Color:  cmd.Bool("color"),
		Format: cmd.String("output"),
		Filter: cmd.String("filter"),
	})

	err = session.New(dir, finder, printer).Run(ctx, reader(cmd))

	stats := store.Stats()
	log.WithFields(log.Fields{
		"entries": store.Len(),
		"hits":    stats.Hits,
		"misses":  stats.Misses,
	}).Debug("session ended")

	return err
}

func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
