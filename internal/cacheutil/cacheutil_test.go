// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_EnvOverride(t *testing.T) {
	t.Setenv("NPSCTL_CACHE_DIR", "/tmp/npsctl-test")
	dir, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, "/tmp/npsctl-test", dir)
}

func TestDocumentPath(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		explicit string
		want     string
	}{
		{
			name:     "explicit wins",
			env:      "/var/cache/npsctl",
			explicit: "/home/me/parks.json",
			want:     "/home/me/parks.json",
		},
		{
			name: "env dir",
			env:  "/var/cache/npsctl",
			want: filepath.Join("/var/cache/npsctl", DocumentName),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NPSCTL_CACHE_DIR", tt.env)
			assert.Equal(t, tt.want, DocumentPath(tt.explicit))
		})
	}
}

func TestEnsureBaseDir(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "a", "b", DocumentName)

	dir, err := EnsureBaseDir(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "a", "b"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
