// Package logging configures the apex/log handlers used by the CLI and the
// GUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/multi"
)

// Setup installs a cli handler on stderr plus any extra handlers and sets
// the level ("debug", "info", "warn", "error", "fatal").
func Setup(level string, extra ...log.Handler) error {
	return SetupWriter(os.Stderr, level, extra...)
}

// SetupWriter is Setup with a custom writer for the cli handler
func SetupWriter(w io.Writer, level string, extra ...log.Handler) error {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	handlers := append([]log.Handler{cli.New(w)}, extra...)
	if len(handlers) == 1 {
		log.SetHandler(handlers[0])
	} else {
		log.SetHandler(multi.New(handlers...))
	}
	log.SetLevel(lvl)

	return nil
}

// FormatEntry renders an entry as a single line: "LEVEL message k=v ..."
// with fields in key order.
func FormatEntry(e *log.Entry) string {
	var b strings.Builder

	b.WriteString(strings.ToUpper(e.Level.String()))
	b.WriteString(" ")
	b.WriteString(e.Message)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}

	return b.String()
}
