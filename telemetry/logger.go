// Copyright (c) 2026 Evo Automation. Licensed under the MIT License.

// Package telemetry provides the structured logger shared by every evo-core
// binary and package.
//
// The executive's hot loop never logs from inside a cycle — only
// startup/shutdown and fault transitions do, and those happen outside the
// per-cycle deadline (spec.md §7, "there is no file or console I/O from the
// executive's hot path").
package telemetry

import (
	"io"
	"os"
	"strings"

	"github.com/joeycumines/go-utilpkg/logiface"
	"github.com/joeycumines/go-utilpkg/logiface/stumpy"
)

// Logger is the structured logger used throughout evo-core.
type Logger = logiface.Logger[*stumpy.Event]

// New builds a Logger writing newline-delimited JSON to w at the given
// level. Level defaults to [logiface.LevelInformational] when lvl is
// [logiface.LevelDisabled].
func New(w io.Writer, lvl logiface.Level) *Logger {
	if !lvl.Enabled() {
		lvl = logiface.LevelInformational
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		logiface.WithLevel[*stumpy.Event](lvl),
	)
}

// NewFromEnv builds a Logger writing to stderr at the level named by
// EVO_LOG_LEVEL (one of: emerg, alert, crit, err, warning, notice, info,
// debug, trace). Unset or unrecognized values fall back to "info".
func NewFromEnv() *Logger {
	return New(os.Stderr, LevelFromString(os.Getenv("EVO_LOG_LEVEL")))
}

// LevelFromString parses the EVO_LOG_LEVEL values.
func LevelFromString(s string) logiface.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "emerg", "emergency":
		return logiface.LevelEmergency
	case "alert":
		return logiface.LevelAlert
	case "crit", "critical":
		return logiface.LevelCritical
	case "err", "error":
		return logiface.LevelError
	case "warning", "warn":
		return logiface.LevelWarning
	case "notice":
		return logiface.LevelNotice
	case "debug":
		return logiface.LevelDebug
	case "trace":
		return logiface.LevelTrace
	case "info", "informational", "":
		return logiface.LevelInformational
	default:
		return logiface.LevelInformational
	}
}
