// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging configures the structured logger shared by this
// module's cmd/ binaries. The offer core itself never logs: it is a
// pure, synchronous library (see the doc of internal/offer's Offer type), so
// this is tooling for the one-shot commands built on top of it.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/blinklabs-io/offerbroker/internal/config"
)

// defaultComponent is the component tag GetLogger falls back to if
// Configure was never called explicitly, so a package that only ever
// calls GetLogger (rather than wiring its own binary name through
// Configure) still gets a usable logger.
const defaultComponent = "offerbroker"

var globalLogger *slog.Logger

// Configure builds the global logger, tagging every line with
// component (the calling binary's name, e.g. "offerinspect" or
// "mk-settlement-address") so a caller aggregating logs from multiple
// one-shot tools can tell which one emitted a given line.
func Configure(component string) {
	cfg := config.GetConfig()
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(
					"timestamp",
					a.Value.Time().Format(time.RFC3339),
				)
			}
			return a
		},
		Level: level,
	})
	globalLogger = slog.New(handler).With("component", component)
}

// GetLogger returns the configured global logger, lazily configuring
// it with defaultComponent if no binary has called Configure yet.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		Configure(defaultComponent)
	}
	return globalLogger
}
