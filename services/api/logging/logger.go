// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/hyderaqi/hyderaqi/services/api/config"
)

const appName = "hyderaqi"

// New returns a colored tint logger in dev and a JSON logger in prod.
func New(cfg config.Config, version string) *slog.Logger {
	return newWithWriter(os.Stdout, cfg, version)
}

func newWithWriter(w io.Writer, cfg config.Config, version string) *slog.Logger {
	if !cfg.Production() {
		h := tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
		return slog.New(h).With("app", appName)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	return slog.New(h).With(
		"app", appName,
		"version", version,
		"env", cfg.Env,
	)
}
