// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/npsctl/internal/cache"
	"github.com/staranto/npsctl/internal/fetch"
	"github.com/staranto/npsctl/internal/site"
)

const payload = `{
  "searchResults": [
    {"name": "Keweenaw Brewing", "fields": {"address": "408 Shelden Ave", "group_sic_code_name_ext": "Breweries", "city": "Houghton"}},
    {"name": "Quincy Mine", "fields": {"address": "", "group_sic_code_name_ext": "", "city": ""}},
    {"name": "Bare Entry"}
  ]
}`

var isleRoyale = site.Site{
	Name:     "Isle Royale",
	Category: "National Park",
	Address:  "Houghton, MI",
	Zipcode:  "49931",
	Phone:    "906-482-0984",
}

type recorder struct {
	calls  int
	last   url.Values
	status int
	body   string
}

func (r *recorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.calls++
		r.last = req.URL.Query()
		if r.status != 0 {
			w.WriteHeader(r.status)
		}
		_, _ = w.Write([]byte(r.body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL, key string) *Client {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	return NewClient(Options{BaseURL: baseURL, Key: key}, nil, store)
}

func TestNearby(t *testing.T) {
	rec := &recorder{body: payload}
	srv := rec.server(t)
	c := newClient(t, srv.URL, "secret")

	res, err := c.Nearby(context.Background(), isleRoyale)
	require.NoError(t, err)
	assert.False(t, res.NoAddress)
	assert.Equal(t, []site.Place{
		{Name: "Keweenaw Brewing", Category: "Breweries", Address: "408 Shelden Ave", City: "Houghton"},
		{Name: "Quincy Mine", Category: site.NoCategory, Address: site.NoAddress, City: site.NoCity},
		{Name: "Bare Entry", Category: site.NoCategory, Address: site.NoAddress, City: site.NoCity},
	}, res.Places)

	require.Equal(t, 1, rec.calls)
	assert.Equal(t, "49931", rec.last.Get("origin"))
	assert.Equal(t, "secret", rec.last.Get("key"))
	assert.Equal(t, DefaultRadius, rec.last.Get("radius"))
	assert.Equal(t, DefaultMaxMatches, rec.last.Get("maxMatches"))
	assert.Equal(t, "ignore", rec.last.Get("ambiguities"))
	assert.Equal(t, "json", rec.last.Get("outFormat"))
}

func TestNearby_Cached(t *testing.T) {
	rec := &recorder{body: payload}
	srv := rec.server(t)
	c := newClient(t, srv.URL, "secret")
	ctx := context.Background()

	first, err := c.Nearby(ctx, isleRoyale)
	require.NoError(t, err)
	second, err := c.Nearby(ctx, isleRoyale)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, first, second)
}

// Sites are cached by display name, so a second site with the same name gets
// the first one's results.
func TestNearby_SharedDisplayName(t *testing.T) {
	rec := &recorder{body: payload}
	srv := rec.server(t)
	c := newClient(t, srv.URL, "secret")
	ctx := context.Background()

	_, err := c.Nearby(ctx, isleRoyale)
	require.NoError(t, err)

	twin := isleRoyale
	twin.Zipcode = "12345"
	_, err = c.Nearby(ctx, twin)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.calls)
}

func TestNearby_NoZipcode(t *testing.T) {
	rec := &recorder{body: payload}
	srv := rec.server(t)
	c := newClient(t, srv.URL, "secret")

	s := isleRoyale
	s.Zipcode = ""
	res, err := c.Nearby(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, res.NoAddress)
	assert.Empty(t, res.Places)
	assert.Equal(t, 0, rec.calls)
}

func TestNearby_NoKey(t *testing.T) {
	rec := &recorder{body: payload}
	srv := rec.server(t)
	c := newClient(t, srv.URL, "")

	_, err := c.Nearby(context.Background(), isleRoyale)
	assert.ErrorIs(t, err, ErrNoKey)
	assert.Equal(t, 0, rec.calls)
}

func TestNearby_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: fetch.ErrStatus},
		{name: "forbidden", status: http.StatusForbidden, body: `bad key`, wantErr: fetch.ErrStatus},
		{name: "not json", body: `<html>maintenance</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{status: tt.status, body: tt.body}
			srv := rec.server(t)
			c := newClient(t, srv.URL, "secret")

			_, err := c.Nearby(context.Background(), isleRoyale)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			// Failures are not cached.
			_, _ = c.Nearby(context.Background(), isleRoyale)
			assert.Equal(t, 2, rec.calls)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, Parse([]byte(`{"searchResults": []}`)))
	assert.Empty(t, Parse([]byte(`{}`)))
}
