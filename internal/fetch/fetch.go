// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/go-resty/resty/v2"
)

// ErrStatus is returned, wrapped, for any non-2xx response.
var ErrStatus = errors.New("unexpected response status")

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "npsctl/1.0"
)

// Options configures a Hitter.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// Hitter issues plain GET requests for pages. It never retries; a failed
// request is the caller's problem.
type Hitter struct {
	http *resty.Client
}

// New builds a Hitter on a resty client.
func New(opts Options) *Hitter {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)

	return &Hitter{http: client}
}

// Client exposes the underlying resty client so other API clients can share
// its transport settings.
func (h *Hitter) Client() *resty.Client {
	return h.http
}

// Get fetches url and returns the body.
func (h *Hitter) Get(ctx context.Context, url string) ([]byte, error) {
	log.WithField("url", url).Debug("GET")

	resp, err := h.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if err := CheckStatus(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// CheckStatus turns a non-2xx response into an ErrStatus error.
func CheckStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return fmt.Errorf("%w: %s from %s", ErrStatus, resp.Status(), resp.Request.URL)
}
