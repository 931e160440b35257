// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/npsctl/internal/output"
	"github.com/staranto/npsctl/internal/places"
	"github.com/staranto/npsctl/internal/site"
)

// State is a position in the interactive loop.
type State int

const (
	AwaitingState State = iota
	AwaitingSelection
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingState:
		return "AwaitingState"
	case AwaitingSelection:
		return "AwaitingSelection"
	case Terminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	statePrompt     = `Enter a state name (e.g. Michigan, michigan) or "exit": `
	selectionPrompt = `Choose a number for detail search or "exit" or "back": `

	cmdExit = "exit"
	cmdBack = "back"
)

// Directory resolves state names to their sites.
type Directory interface {
	StateURL(ctx context.Context, name string) (string, bool, error)
	SitesForState(ctx context.Context, stateURL string) ([]site.Site, error)
}

// PlaceFinder looks up places near a site.
type PlaceFinder interface {
	Nearby(ctx context.Context, s site.Site) (places.Result, error)
}

// Controller drives the prompt loop. It holds the listing currently on screen;
// a selection number is only meaningful against that listing.
type Controller struct {
	dir    Directory
	finder PlaceFinder
	out    *output.Printer

	state State
	name  string
	sites []site.Site
}

// New returns a Controller in AwaitingState.
func New(dir Directory, finder PlaceFinder, out *output.Printer) *Controller {
	return &Controller{
		dir:    dir,
		finder: finder,
		out:    out,
		state:  AwaitingState,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Listing returns the sites currently selectable, in display order.
func (c *Controller) Listing() []site.Site {
	return append([]site.Site(nil), c.sites...)
}

// Run prompts and handles lines from in until the user exits, in is
// exhausted, or ctx is done.
func (c *Controller) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for c.state != Terminated {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.out.Prompt(c.prompt())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			// EOF ends the session like "exit".
			c.out.Message("")
			c.state = Terminated
			break
		}

		c.Handle(ctx, scanner.Text())
	}

	return nil
}

// Handle applies one line of input and returns the resulting state. Bad input
// and failed lookups are reported to the user and never end the session.
func (c *Controller) Handle(ctx context.Context, line string) State {
	token := strings.TrimSpace(line)
	lower := strings.ToLower(token)

	log.WithFields(log.Fields{"state": c.state, "input": token}).Debug("handle")

	if lower == cmdExit {
		c.reset()
		c.state = Terminated
		return c.state
	}

	switch c.state {
	case AwaitingState:
		c.handleState(ctx, token)
	case AwaitingSelection:
		c.handleSelection(ctx, lower)
	case Terminated:
	}

	return c.state
}

func (c *Controller) handleState(ctx context.Context, name string) {
	if name == "" {
		c.out.Error("Enter proper state name")
		return
	}

	stateURL, ok, err := c.dir.StateURL(ctx, name)
	if err != nil {
		c.out.Error("%v", err)
		return
	}
	if !ok {
		c.out.Error("Enter proper state name")
		return
	}

	sites, err := c.dir.SitesForState(ctx, stateURL)
	if err != nil {
		c.out.Error("%v", err)
		return
	}

	c.name = strings.ToLower(name)
	c.sites = sites
	c.state = AwaitingSelection
	c.out.Sites(c.name, c.sites)
}

func (c *Controller) handleSelection(ctx context.Context, token string) {
	if token == cmdBack {
		c.reset()
		c.state = AwaitingState
		return
	}

	n, err := strconv.Atoi(token)
	if err != nil {
		c.out.Error("Invalid input")
		return
	}
	if n < 1 || n > len(c.sites) {
		c.out.Error("Number out of range")
		return
	}

	s := c.sites[n-1]
	res, err := c.finder.Nearby(ctx, s)
	if err != nil {
		c.out.Error("%v", err)
		return
	}
	if res.NoAddress {
		c.out.Message("No address found for %s, choose another site.", s.Name)
		return
	}

	c.out.Places(s.Name, res.Places)
}

func (c *Controller) prompt() string {
	if c.state == AwaitingSelection {
		return selectionPrompt
	}
	return statePrompt
}

func (c *Controller) reset() {
	c.name = ""
	c.sites = nil
}
