// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package nps

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/apex/log"

	"github.com/staranto/npsctl/internal/cache"
	"github.com/staranto/npsctl/internal/extract"
	"github.com/staranto/npsctl/internal/site"
)

// DefaultOrigin is the listing site all relative links resolve against.
const DefaultOrigin = "https://www.nps.gov"

// StatesKey is the cache key of the state name -> state URL mapping.
const StatesKey = "dict"

// Fetcher retrieves a page body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Directory resolves states to their sites, consulting the cache before
// fetching anything. Every fetched value is cached, so each key is fetched at
// most once for the life of the cache document.
type Directory struct {
	store   *cache.Store
	fetcher Fetcher
	origin  *url.URL
}

// New returns a Directory rooted at origin.
func New(store *cache.Store, fetcher Fetcher, origin string) (*Directory, error) {
	if origin == "" {
		origin = DefaultOrigin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	return &Directory{store: store, fetcher: fetcher, origin: u}, nil
}

// States returns the state name -> state index URL mapping.
func (d *Directory) States(ctx context.Context) (map[string]string, error) {
	var states map[string]string
	if ok, err := d.store.Lookup(StatesKey, &states); ok || err != nil {
		return states, err
	}

	doc, err := d.page(ctx, d.origin.String())
	if err != nil {
		return nil, err
	}

	states, err = extract.StateDirectory(doc, d.origin)
	if err != nil {
		return nil, fmt.Errorf("failed to extract state directory: %w", err)
	}

	if err := d.store.Put(StatesKey, states); err != nil {
		return nil, err
	}
	return states, nil
}

// StateURL resolves a state name, in any case, to its index URL.
func (d *Directory) StateURL(ctx context.Context, name string) (string, bool, error) {
	states, err := d.States(ctx)
	if err != nil {
		return "", false, err
	}
	u, ok := states[strings.ToLower(strings.TrimSpace(name))]
	return u, ok, nil
}

// SiteURLs returns the detail page URLs listed on a state index page.
func (d *Directory) SiteURLs(ctx context.Context, stateURL string) ([]string, error) {
	var urls []string
	if ok, err := d.store.Lookup(stateURL, &urls); ok || err != nil {
		return urls, err
	}

	doc, err := d.page(ctx, stateURL)
	if err != nil {
		return nil, err
	}

	urls, err = extract.SiteURLs(doc, d.origin)
	if err != nil {
		return nil, fmt.Errorf("failed to extract sites for %s: %w", stateURL, err)
	}

	if err := d.store.Put(stateURL, urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// Site returns the record scraped from a detail page.
func (d *Directory) Site(ctx context.Context, detailURL string) (site.Site, error) {
	var m map[string]string
	ok, err := d.store.Lookup(detailURL, &m)
	if err != nil {
		return site.Site{}, err
	}
	if ok {
		return site.FromMap(m), nil
	}

	doc, err := d.page(ctx, detailURL)
	if err != nil {
		return site.Site{}, err
	}

	s, err := extract.SiteDetail(doc)
	if err != nil {
		return site.Site{}, fmt.Errorf("failed to extract site %s: %w", detailURL, err)
	}

	if err := d.store.Put(detailURL, s.ToMap()); err != nil {
		return site.Site{}, err
	}
	return s, nil
}

// SitesForState returns every site of a state, in listing order.
func (d *Directory) SitesForState(ctx context.Context, stateURL string) ([]site.Site, error) {
	urls, err := d.SiteURLs(ctx, stateURL)
	if err != nil {
		return nil, err
	}

	sites := make([]site.Site, 0, len(urls))
	for _, u := range urls {
		s, err := d.Site(ctx, u)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}

	log.WithFields(log.Fields{"state": stateURL, "sites": len(sites)}).Debug("resolved sites")
	return sites, nil
}

func (d *Directory) page(ctx context.Context, u string) (*goquery.Document, error) {
	body, err := d.fetcher.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	return extract.Parse(body)
}
