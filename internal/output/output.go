// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/staranto/npsctl/internal/config"
	"github.com/staranto/npsctl/internal/filters"
	"github.com/staranto/npsctl/internal/site"
)

// Formats accepted for places output.
var Formats = []string{"text", "json", "yaml"}

const ruleWidth = 40

// Options controls how a Printer renders.
type Options struct {
	Color  bool
	Format string
	// Filter narrows places before rendering. See filters.BuildFilters.
	Filter string
}

// Printer writes everything the user sees during a session.
type Printer struct {
	w    io.Writer
	opts Options
}

// New returns a Printer writing to w, or stdout when w is nil.
func New(w io.Writer, opts Options) *Printer {
	if w == nil {
		w = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = "text"
	}
	return &Printer{w: w, opts: opts}
}

// Prompt writes text without a trailing newline.
func (p *Printer) Prompt(text string) {
	fmt.Fprint(p.w, text)
}

// Message writes a line.
func (p *Printer) Message(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Error writes a user-facing error line.
func (p *Printer) Error(format string, args ...any) {
	msg := "[Error] " + fmt.Sprintf(format, args...)
	if p.opts.Color {
		_, _, odd := getColors("colors")
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color(odd)).Render(msg)
	}
	fmt.Fprintln(p.w, msg)
}

// Sites renders a state's listing. Position i is shown as [i+1].
func (p *Printer) Sites(state string, sites []site.Site) {
	p.heading("List of National Sites in " + TitleCase(state))
	for i, s := range sites {
		fmt.Fprintf(p.w, "[%d] %s\n", i+1, s.Info())
	}
	fmt.Fprintln(p.w)
}

// Places renders the places near siteName in the configured format, after
// applying the configured filter.
func (p *Printer) Places(siteName string, places []site.Place) {
	places = filters.Places(places, p.opts.Filter)

	switch p.opts.Format {
	case "json":
		b, err := json.MarshalIndent(places, "", "  ")
		if err != nil {
			log.WithError(err).Error("failed to render places")
			return
		}
		fmt.Fprintln(p.w, string(b))
	case "yaml":
		b, err := yaml.Marshal(places)
		if err != nil {
			log.WithError(err).Error("failed to render places")
			return
		}
		fmt.Fprint(p.w, string(b))
	default:
		p.heading("Places near " + siteName)
		if len(places) == 0 {
			fmt.Fprintln(p.w, "No places found.")
		} else {
			p.table(places)
		}
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) heading(title string) {
	rule := strings.Repeat("-", ruleWidth)
	if p.opts.Color {
		header, _, _ := getColors("colors")
		title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(header)).Render(title)
	}
	fmt.Fprintln(p.w, rule)
	fmt.Fprintln(p.w, title)
	fmt.Fprintln(p.w, rule)
}

// table renders places in aligned columns, alternating row colors when color
// is enabled.
func (p *Printer) table(places []site.Place) {
	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if p.opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 2)

	rows := make([][]string, 0, len(places))
	for _, pl := range places {
		rows = append(rows, []string{pl.Name, pl.Category, pl.Address, pl.City})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers("NAME", "CATEGORY", "ADDRESS", "CITY").
		BorderHeader(false).
		Rows(rows...)

	fmt.Fprintln(p.w, t)
}

// getColors returns configured color values for headings and table rows.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// TitleCase capitalizes each word of a state name, e.g. "new york" ->
// "New York".
func TitleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
