// Copyright 2025 The Rivaas Authors
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

// Package hostlog provides the structured logger used across the plugin
// host: module loading, feature loading, reloads, guard rejections and
// plugin panics all log through the same Logger interface.
package hostlog

import (
	"context"
	"log/slog"
	"os"
)

// HandlerType selects the slog handler backing a Logger.
type HandlerType string

const (
	JSONHandler    HandlerType = "json"
	TextHandler    HandlerType = "text"
	ConsoleHandler HandlerType = "console"
)

// Logger is the minimal structured logging surface used by every
// internal package. It intentionally mirrors slog's level methods so
// call sites read the same regardless of which handler is configured.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

type logger struct {
	s *slog.Logger
}

// Config controls handler selection and level for New.
type Config struct {
	Handler HandlerType
	Level   slog.Level
	Output  *os.File
}

var bgCtx = context.Background()

// New builds a Logger from cfg. An unrecognized or zero-value Handler
// defaults to JSON, matching the host's production default.
func New(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var h slog.Handler
	switch cfg.Handler {
	case TextHandler:
		h = slog.NewTextHandler(out, opts)
	case ConsoleHandler:
		h = slog.NewTextHandler(out, opts)
	default:
		h = slog.NewJSONHandler(out, opts)
	}
	return &logger{s: slog.New(h)}
}

// Default returns a JSON logger at Info level, the host's fallback
// when no explicit Config has been constructed yet (e.g. during early
// env-var bootstrap, before hostconfig has been read).
func Default() Logger {
	return New(Config{Handler: JSONHandler, Level: slog.LevelInfo})
}

func (l *logger) Debug(msg string, args ...any) { l.s.DebugContext(bgCtx, msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.s.InfoContext(bgCtx, msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.s.WarnContext(bgCtx, msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.s.ErrorContext(bgCtx, msg, args...) }

func (l *logger) With(args ...any) Logger {
	return &logger{s: l.s.With(args...)}
}
