// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/staranto/npsctl/internal/site"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{
			name: "empty spec",
			spec: "",
		},
		{
			name: "single exact match filter",
			spec: "city=Calumet",
			want: []Filter{{Key: "city", Operand: "=", Target: "Calumet"}},
		},
		{
			name: "negated contains",
			spec: "category!@Airport",
			want: []Filter{{Key: "category", Operand: "@", Target: "Airport", Negate: true}},
		},
		{
			name: "multiple filters",
			spec: "city~calumet,name^Houghton",
			want: []Filter{
				{Key: "city", Operand: "~", Target: "calumet"},
				{Key: "name", Operand: "^", Target: "Houghton"},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "city=Calumet;name/^H",
			delimiter: ";",
			want: []Filter{
				{Key: "city", Operand: "=", Target: "Calumet"},
				{Key: "name", Operand: "/", Target: "^H"},
			},
		},
		{
			name: "invalid entries are skipped",
			spec: "nooperand,=Calumet,city=Calumet",
			want: []Filter{{Key: "city", Operand: "=", Target: "Calumet"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("NPSCTL_FILTER_DELIM", tt.delimiter)
			}
			got := BuildFilters(tt.spec)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{name: "exact", value: "Calumet", filter: Filter{Operand: "=", Target: "Calumet"}, want: true},
		{name: "exact negated", value: "Calumet", filter: Filter{Operand: "=", Target: "Calumet", Negate: true}, want: false},
		{name: "fold", value: "Calumet", filter: Filter{Operand: "~", Target: "CALUMET"}, want: true},
		{name: "prefix", value: "Houghton County Airport", filter: Filter{Operand: "^", Target: "Hough"}, want: true},
		{name: "greater", value: "b", filter: Filter{Operand: ">", Target: "a"}, want: true},
		{name: "less", value: "b", filter: Filter{Operand: "<", Target: "a"}, want: false},
		{name: "contains", value: "Eating Places", filter: Filter{Operand: "@", Target: "Eat"}, want: true},
		{name: "regex", value: "Airports", filter: Filter{Operand: "/", Target: "^Air.*s$"}, want: true},
		{name: "bad regex", value: "Airports", filter: Filter{Operand: "/", Target: "("}, want: false},
		{name: "unknown operand", value: "x", filter: Filter{Operand: "%", Target: "x"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestApplyFilters_UnknownKeyIgnored(t *testing.T) {
	candidate := gjson.Parse(`{"name":"Cafe","city":"Calumet"}`)
	assert.True(t, applyFilters(candidate, BuildFilters("zipcode=49913,city=Calumet")))
	assert.False(t, applyFilters(candidate, BuildFilters("zipcode=49913,city=Houghton")))
}

func TestPlaces(t *testing.T) {
	airport := site.NewPlace("Houghton County Airport", "Airports", "23810 Airpark Blvd", "Calumet")
	cafe := site.NewPlace("Cafe Royale", "Eating Places", "1 Main St", "Houghton")
	noCity := site.NewPlace("Roadside", "", "", "")
	all := []site.Place{airport, cafe, noCity}

	tests := []struct {
		name string
		spec string
		want []site.Place
	}{
		{name: "no spec", spec: "", want: all},
		{name: "by city", spec: "city=Houghton", want: []site.Place{cafe}},
		{name: "negated category", spec: "category!=Airports", want: []site.Place{cafe, noCity}},
		{name: "all must match", spec: "city=Houghton,name^Air", want: []site.Place{}},
		{name: "sentinel values filter too", spec: "category=" + site.NoCategory, want: []site.Place{noCity}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Places(all, tt.spec))
		})
	}
}
