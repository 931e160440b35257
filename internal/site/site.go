// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package site

import "fmt"

// Sentinels substituted for blank upstream fields.
const (
	NoCategory = "no category"
	NoAddress  = "no address"
	NoCity     = "no city"
)

// Site is a national site as scraped from its detail page. It carries no
// display position; listings keep their own ordering.
type Site struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Address  string `json:"address"`
	Zipcode  string `json:"zipcode"`
	Phone    string `json:"phone"`
}

// Info renders the one-line listing form, e.g.
// "Isle Royale (National Park): Houghton, MI 49931".
func (s Site) Info() string {
	return fmt.Sprintf("%s (%s): %s %s", s.Name, s.Category, s.Address, s.Zipcode)
}

// HasAddress reports whether the site can be used as a places origin.
func (s Site) HasAddress() bool {
	return s.Zipcode != ""
}

// ToMap flattens the site into the shape persisted in the cache document.
func (s Site) ToMap() map[string]string {
	return map[string]string{
		"name":     s.Name,
		"category": s.Category,
		"address":  s.Address,
		"zipcode":  s.Zipcode,
		"phone":    s.Phone,
	}
}

// FromMap rebuilds a Site from its cached map. Missing keys become "".
func FromMap(m map[string]string) Site {
	return Site{
		Name:     m["name"],
		Category: m["category"],
		Address:  m["address"],
		Zipcode:  m["zipcode"],
		Phone:    m["phone"],
	}
}

// Place is a point of interest returned by a radius search, with blank
// fields already replaced by their sentinels.
type Place struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Address  string `json:"address" yaml:"address"`
	City     string `json:"city" yaml:"city"`
}

// NewPlace applies the sentinel rules to raw upstream fields.
func NewPlace(name, category, address, city string) Place {
	return Place{
		Name:     name,
		Category: orDefault(category, NoCategory),
		Address:  orDefault(address, NoAddress),
		City:     orDefault(city, NoCity),
	}
}

// Info renders e.g. "Pizza Place (Restaurants): 1 Main St, Houghton".
func (p Place) Info() string {
	return fmt.Sprintf("%s (%s): %s, %s", p.Name, p.Category, p.Address, p.City)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
