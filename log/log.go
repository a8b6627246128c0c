// Copyright 2024 The rainbow-bridge-sub000 Authors
// This file is part of the rainbow-bridge-sub000 library.
//
// The rainbow-bridge-sub000 library is free software: you can redistribute it
// and/or modify it under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// The rainbow-bridge-sub000 library is distributed in the hope that it will
// be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.

// Package log is a thin wrapper over log/slog that gives every engine
// the same structured, leveled logger, mirroring go-ethereum's log package
// conventions. Output is slog's plain text format; a terminal writer is
// wrapped with go-colorable, but no color codes are emitted.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Logger is the interface every engine and CLI command logs through.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	With(ctx ...any) Logger
}

// LevelTrace sits below slog.LevelDebug for the engine's very chattiest
// diagnostics (per-DAG-access Hashimoto tracing, GC walk steps).
const LevelTrace = slog.Level(-8)

type logger struct {
	inner *slog.Logger
}

// Root is the package-level default logger, analogous to go-ethereum's
// log.Root(). Call SetDefault to replace it (e.g. with a json handler
// for production daemons).
var root Logger = New(os.Stderr)

// Root returns the default logger.
func Root() Logger { return root }

// SetDefault replaces the package-level default logger.
func SetDefault(l Logger) { root = l }

// New builds a logger writing slog text to w. When w is a terminal it is
// wrapped with go-colorable; the handler itself emits no color codes.
func New(w io.Writer) Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: LevelTrace}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		handler = slog.NewTextHandler(colorable.NewColorable(f), opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &logger{inner: slog.New(handler)}
}

func (l *logger) Trace(msg string, ctx ...any) { l.inner.Log(context.Background(), LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

// Package-level convenience wrappers over Root(), matching go-ethereum's
// log.Info/log.Error top-level functions.
func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
