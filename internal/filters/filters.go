// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/npsctl/internal/site"
)

// filterRegex is the pattern used to parse filter expressions into key,
// operator, and target components. Operators are one of = ~ ^ < > @ or /,
// optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("NPSCTL_FILTER_DELIM"); ok {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(strings.TrimSpace(filterSpec))
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(parts[2], "!")
		if negate {
			parts[2] = strings.TrimPrefix(parts[2], "!")
		}

		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: parts[2],
			Target:  parts[3],
		})
	}

	return filters
}

// Places returns the places matching every filter in spec, in their original
// order. Keys are the JSON field names of site.Place.
func Places(places []site.Place, spec string) []site.Place {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return places
	}

	kept := make([]site.Place, 0, len(places))
	for _, p := range places {
		raw, err := json.Marshal(p)
		if err != nil {
			continue
		}
		if applyFilters(gjson.ParseBytes(raw), filters) {
			kept = append(kept, p)
		}
	}
	return kept
}

// applyFilters returns true if the candidate matches all of the provided
// filters. A filter on an unknown key is logged and ignored.
func applyFilters(candidate gjson.Result, filters []Filter) bool {
	for _, filter := range filters {
		value := candidate.Get(filter.Key)
		if !value.Exists() {
			log.Errorf("filter key not found: %s", filter.Key)
			continue
		}

		if !checkStringOperand(value.String(), filter) {
			return false
		}
	}

	return true
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Target == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Target) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Target) == !filter.Negate
	case ">":
		return value > filter.Target == !filter.Negate
	case "<":
		return value < filter.Target == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Target) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
