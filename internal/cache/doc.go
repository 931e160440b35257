// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides the file-backed key/value store that memoizes every
// network-derived value (state index, state site lists, site records and
// places results) so repeated queries don't refetch.
package cache
