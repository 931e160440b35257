// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output renders site listings, places results, prompts and errors
// for the interactive session.
package output
