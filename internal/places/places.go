// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/staranto/npsctl/internal/cache"
	"github.com/staranto/npsctl/internal/fetch"
	"github.com/staranto/npsctl/internal/site"
)

// ErrNoKey is returned when a lookup needs the API but no key is configured.
var ErrNoKey = errors.New("no places API key configured")

const (
	DefaultBaseURL    = "http://www.mapquestapi.com/search/v2/radius"
	DefaultRadius     = "10"
	DefaultMaxMatches = "10"
)

// Options configures a Client. Zero values take the defaults.
type Options struct {
	BaseURL    string
	Key        string
	Radius     string
	MaxMatches string
	Timeout    time.Duration
}

// Result is the outcome of a Nearby lookup. NoAddress is set, and Places is
// empty, when the site has no zipcode to search around.
type Result struct {
	Places    []site.Place
	NoAddress bool
}

// Client runs radius searches around a site's zipcode. Raw responses are
// cached under the site's display name, so two sites sharing a name share an
// entry.
type Client struct {
	opts  Options
	http  *resty.Client
	store *cache.Store
}

// NewClient returns a Client. A nil http client gets a fresh resty client.
func NewClient(opts Options, http *resty.Client, store *cache.Store) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Radius == "" {
		opts.Radius = DefaultRadius
	}
	if opts.MaxMatches == "" {
		opts.MaxMatches = DefaultMaxMatches
	}
	if http == nil {
		http = resty.New()
		if opts.Timeout > 0 {
			http.SetTimeout(opts.Timeout)
		}
	}
	return &Client{opts: opts, http: http, store: store}
}

// Nearby returns the places around s. A site without a zipcode is not an
// error: no request is made and the result reports NoAddress.
func (c *Client) Nearby(ctx context.Context, s site.Site) (Result, error) {
	if !s.HasAddress() {
		log.WithField("site", s.Name).Debug("no zipcode, skipping places lookup")
		return Result{NoAddress: true}, nil
	}

	payload, err := c.payload(ctx, s)
	if err != nil {
		return Result{}, err
	}

	return Result{Places: Parse(payload)}, nil
}

func (c *Client) payload(ctx context.Context, s site.Site) ([]byte, error) {
	var raw json.RawMessage
	ok, err := c.store.Lookup(s.Name, &raw)
	if err != nil {
		return nil, err
	}
	if ok {
		return raw, nil
	}

	if c.opts.Key == "" {
		return nil, ErrNoKey
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":         c.opts.Key,
			"origin":      s.Zipcode,
			"radius":      c.opts.Radius,
			"maxMatches":  c.opts.MaxMatches,
			"ambiguities": "ignore",
			"outFormat":   "json",
		}).
		Get(c.opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to query places for %s: %w", s.Name, err)
	}
	if err := fetch.CheckStatus(resp); err != nil {
		return nil, fmt.Errorf("failed to query places for %s: %w", s.Name, err)
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("places response for %s is not JSON", s.Name)
	}

	if err := c.store.Put(s.Name, json.RawMessage(body)); err != nil {
		return nil, err
	}
	return body, nil
}

// Parse normalizes a radius search payload into places, in response order.
func Parse(payload []byte) []site.Place {
	results := gjson.GetBytes(payload, "searchResults").Array()
	out := make([]site.Place, 0, len(results))
	for _, r := range results {
		out = append(out, site.NewPlace(
			r.Get("name").String(),
			r.Get("fields.group_sic_code_name_ext").String(),
			r.Get("fields.address").String(),
			r.Get("fields.city").String(),
		))
	}
	return out
}
