// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/staranto/npsctl/internal/site"
)

// ErrStructure means an element the page is assumed to always carry is
// missing, i.e. the upstream markup changed.
var ErrStructure = errors.New("page structure changed")

// IndexSuffix is appended to every park href to form its detail page URL.
const IndexSuffix = "index.htm"

// Selectors for the nps.gov markup.
const (
	menuSelector        = "[role=menu]"
	resultsSelector     = "#parkListResults"
	headerSelector      = "#HeroBanner"
	titleSelector       = ".Hero-title"
	designationSelector = ".Hero-designation"
	footerSelector      = ".ParkFooter"
)

// Parse parses an HTML body into a queryable document.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return doc, nil
}

// StateDirectory maps lowercased state names to absolute state index URLs,
// taken from the links in the page's menu navigation.
func StateDirectory(doc *goquery.Document, origin *url.URL) (map[string]string, error) {
	menu := doc.Find(menuSelector).First()
	if menu.Length() == 0 {
		return nil, fmt.Errorf("%w: no %s element", ErrStructure, menuSelector)
	}

	states := map[string]string{}
	menu.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		name := strings.TrimSpace(a.Text())
		if name == "" {
			return
		}
		href, _ := a.Attr("href")
		abs, ok := resolve(origin, href)
		if !ok {
			return
		}
		states[strings.ToLower(name)] = abs
	})

	return states, nil
}

// SiteURLs returns the detail page URL of every park listed on a state index
// page, in document order.
func SiteURLs(doc *goquery.Document, origin *url.URL) ([]string, error) {
	results := doc.Find(resultsSelector).First()
	if results.Length() == 0 {
		return nil, fmt.Errorf("%w: no %s element", ErrStructure, resultsSelector)
	}

	urls := []string{}
	results.Find("h3").Each(func(_ int, h *goquery.Selection) {
		href, ok := h.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		abs, ok := resolve(origin, href)
		if !ok {
			return
		}
		urls = append(urls, abs+IndexSuffix)
	})

	return urls, nil
}

// SiteDetail builds a Site from a park detail page. The header fields are
// required and trimmed; every footer field degrades to "" when absent.
func SiteDetail(doc *goquery.Document) (site.Site, error) {
	header := doc.Find(headerSelector).First()
	if header.Length() == 0 {
		return site.Site{}, fmt.Errorf("%w: no %s element", ErrStructure, headerSelector)
	}

	title := header.Find(titleSelector).First()
	if title.Length() == 0 {
		return site.Site{}, fmt.Errorf("%w: no %s element", ErrStructure, titleSelector)
	}

	designation := header.Find(designationSelector).First()
	if designation.Length() == 0 {
		return site.Site{}, fmt.Errorf("%w: no %s element", ErrStructure, designationSelector)
	}

	// Live titles are padded with layout whitespace. The name is both a
	// display string and the places cache key, so it is trimmed.
	s := site.Site{
		Name:     strings.TrimSpace(title.Text()),
		Category: strings.TrimSpace(designation.Text()),
	}
	if s.Category == "" {
		s.Category = site.NoCategory
	}

	footer := doc.Find(footerSelector).First()

	city, hasCity := itemprop(footer, "addressLocality")
	state, hasState := itemprop(footer, "addressRegion")
	if hasCity && hasState {
		s.Address = city + ", " + state
	}

	if zip, ok := itemprop(footer, "postalCode"); ok {
		s.Zipcode = strings.TrimRightFunc(zip, unicode.IsSpace)
	}

	if phone, ok := itemprop(footer, "telephone"); ok {
		s.Phone = strings.TrimRightFunc(strings.Trim(phone, "\n"), unicode.IsSpace)
	}

	return s, nil
}

// itemprop returns the text of the first [itemprop=name] element beneath sel
// and whether one exists. An empty sel yields nothing.
func itemprop(sel *goquery.Selection, name string) (string, bool) {
	el := sel.Find(fmt.Sprintf("[itemprop=%q]", name)).First()
	if el.Length() == 0 {
		return "", false
	}
	return el.Text(), true
}

func resolve(origin *url.URL, href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	return origin.ResolveReference(ref).String(), true
}
