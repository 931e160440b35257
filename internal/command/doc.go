// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI for npsctl. It wires flags, their config
// file and environment sources, validators, and the action that runs an
// interactive session.
package command
