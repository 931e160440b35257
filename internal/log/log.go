// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a custom handler and a log level from the
// NPSCTL_LOG env variable.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("NPSCTL_LOG"))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(&CustomHandler{Writer: os.Stderr})
	log.SetLevelFromString(level)
}

// CustomHandler formats log messages and writes to Writer. Stderr keeps the
// log lines out of the interactive prompts on stdout.
type CustomHandler struct {
	Writer io.Writer
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	w := h.Writer
	if w == nil {
		w = os.Stderr
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())

	var b strings.Builder
	b.WriteString(e.Message)

	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}

	fmt.Fprintf(w, "%s %.1s %s\n", timestamp, level, b.String())
	return nil
}
