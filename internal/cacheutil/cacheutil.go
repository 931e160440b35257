// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
)

// DocumentName is the file name of the cache document inside the cache dir.
const DocumentName = "cache.json"

// Dir resolves the base cache directory.
// Precedence:
//  1. NPSCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/npsctl
//
// Returns ("", false) if a base cannot be resolved.
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("NPSCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "npsctl"), true
	}
	return "", false
}

// DocumentPath returns the path of the cache document. An explicit path (from
// a flag or the config file) wins over the resolved cache dir. When nothing
// can be resolved, the document lives in the working directory.
func DocumentPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if base, ok := Dir(); ok {
		return filepath.Join(base, DocumentName)
	}
	log.Debug("no cache dir resolved, using working directory")
	return DocumentName
}

// EnsureBaseDir creates the directory that will hold the document at path.
// Returns the directory and an error if creation failed.
func EnsureBaseDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return dir, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return dir, nil
}
