// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// npsctl is an interactive explorer for National Park Service sites. It
// wires the CLI, delegates to internal packages, and serves as the entry
// point.
package main
