// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/npsctl/internal/nps"
	"github.com/staranto/npsctl/internal/places"
)

// NewGlobalFlags builds the root flags. Each flag can also be set in the
// config file at source, under the key named in its Sources chain.
func NewGlobalFlags(source string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "cache",
			Usage: "path of the cache document",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("NPSCTL_CACHE"),
				yaml.YAML("cache.path", altsrc.StringSourcer(source)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("color", altsrc.StringSourcer(source)),
			),
			Value: term.IsTerminal(int(os.Stdout.Fd())),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to places",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("places.filter", altsrc.StringSourcer(source)),
			),
		},
		NewKeyFlag(source),
		&cli.StringFlag{
			Name:    "max-matches",
			Usage:   "maximum number of places returned per site",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("places.max_matches", altsrc.StringSourcer(source)),
			),
			Value: places.DefaultMaxMatches,
			Validator: func(value string) error {
				return FlagValidators(value, PositiveIntValidator)
			},
		},
		&cli.StringFlag{
			Name:  "origin",
			Usage: "site directory to crawl",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("NPSCTL_ORIGIN"),
				yaml.YAML("origin", altsrc.StringSourcer(source)),
			),
			Value: nps.DefaultOrigin,
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format for places",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("output", altsrc.StringSourcer(source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:   "places-url",
			Usage:  "places radius search endpoint",
			Hidden: true,
			Sources: cli.NewValueSourceChain(
				yaml.YAML("places.url", altsrc.StringSourcer(source)),
			),
			Value: places.DefaultBaseURL,
		},
		&cli.StringFlag{
			Name:  "radius",
			Usage: "search radius, in miles, around a site's zipcode",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("places.radius", altsrc.StringSourcer(source)),
			),
			Value: places.DefaultRadius,
			Validator: func(value string) error {
				return FlagValidators(value, PositiveIntValidator)
			},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout for each HTTP request",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("timeout", altsrc.StringSourcer(source)),
			),
			Value: 30 * time.Second,
		},
	}
}

// NewKeyFlag constructs the places API key flag. The key is never compiled
// in; it comes from the command line, the environment or the config file, in
// that order. An exported but empty env var does not mask the config file.
func NewKeyFlag(source string) *cli.StringFlag {
	flag := &cli.StringFlag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "places API key",
		Sources: cli.NewValueSourceChain(
			nonEmptyEnv("NPSCTL_PLACES_KEY"),
			nonEmptyEnv("MAPQUEST_API_KEY"),
		),
	}

	return NameSpacedValueChainFlagFromConfigFile("places", source, flag)
}

// nonEmptyEnv is an env var value source that only reports a value when the
// variable is set to something other than blanks.
type nonEmptyEnv string

func (e nonEmptyEnv) Lookup() (string, bool) {
	v, ok := os.LookupEnv(string(e))
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func (e nonEmptyEnv) String() string {
	return fmt.Sprintf("environment variable %q", string(e))
}

func (e nonEmptyEnv) GoString() string {
	return fmt.Sprintf("nonEmptyEnv(%q)", string(e))
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
