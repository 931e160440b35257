// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
)

// Store is a flat string-keyed map persisted as a single JSON object. The
// whole document is read once by Open and rewritten on every Put.
//
// Keys from unrelated categories share one namespace. Callers keep them
// apart by convention only (a sentinel literal, page URLs, site names).
//
// A Store is single-writer. Two processes sharing a document will clobber
// each other's rewrites; there is no file locking.
type Store struct {
	path   string
	data   map[string]json.RawMessage
	hits   int
	misses int
}

// Stats counts lookups since the store was opened.
type Stats struct {
	Hits   int
	Misses int
}

// Open loads the document at path. A missing document yields an empty store.
// An unreadable or unparsable document is an error; it is never discarded.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: map[string]json.RawMessage{},
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Debug("no cache document, starting empty")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache document %s: %w", path, err)
	}

	if err := json.Unmarshal(b, &s.data); err != nil {
		return nil, fmt.Errorf("cache document %s is corrupt: %w", path, err)
	}
	if s.data == nil {
		// A literal JSON null.
		s.data = map[string]json.RawMessage{}
	}

	log.WithFields(log.Fields{
		"path": path,
		"size": humanize.Bytes(uint64(len(b))),
		"keys": len(s.data),
	}).Debug("loaded cache document")

	return s, nil
}

// Path returns the backing document path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.data)
}

// Keys returns all keys, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns the hit/miss counters.
func (s *Store) Stats() Stats {
	return Stats{Hits: s.hits, Misses: s.misses}
}

// Get returns the raw value for key and whether it was present. A present key
// means "already fetched", even if the value is an empty list or object.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	v, ok := s.data[key]
	if ok {
		s.hits++
		log.WithField("key", key).Debug("Using cache")
		return v, true
	}
	s.misses++
	log.WithField("key", key).Debug("Fetching")
	return nil, false
}

// Lookup decodes the value for key into v. It returns false, and leaves v
// alone, on a miss.
func (s *Store) Lookup(key string, v any) (bool, error) {
	raw, ok := s.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode cached value for %q: %w", key, err)
	}
	return true, nil
}

// Put stores v under key and rewrites the whole document before returning.
// If the rewrite fails the in-memory value is restored so memory and disk
// stay in step.
func (s *Store) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}

	prev, existed := s.data[key]
	s.data[key] = raw

	if err := s.flush(); err != nil {
		if existed {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}

	log.WithFields(log.Fields{"key": key, "keys": len(s.data)}).Debug("cache updated")
	return nil
}

// flush replaces the document via a temp file and rename in the same dir, so
// readers never see a partial document.
func (s *Store) flush() error {
	b, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode cache document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to write cache document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write cache document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write cache document: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache document: %w", err)
	}

	return nil
}
