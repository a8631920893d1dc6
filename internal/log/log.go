// Package log configures structured logging for plaintes using log/slog.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level maps the verbosity flags to a slog level. Quiet wins over verbose.
//
//   - quiet:   WARN and ERROR
//   - default: INFO and above
//   - verbose: DEBUG and above
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Setup installs a text logger on stderr as the slog default.
func Setup(verbose, quiet bool) {
	SetupWriter(os.Stderr, "text", verbose, quiet) //nolint:errcheck // "text" is always valid
}

// SetupJSON installs a JSON logger on stderr, for log collectors.
func SetupJSON(verbose, quiet bool) {
	SetupWriter(os.Stderr, "json", verbose, quiet) //nolint:errcheck // "json" is always valid
}

// SetupWriter installs a logger writing format ("text" or "json") to w.
func SetupWriter(w io.Writer, format string, verbose, quiet bool) error {
	opts := &slog.HandlerOptions{Level: Level(verbose, quiet)}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q (expected text or json)", format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
