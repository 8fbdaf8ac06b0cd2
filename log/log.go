// Package log is a slimmed-down reconstruction of the ethereum/go-ethereum
// style logging wrapper around log/slog: named levels (Trace..Crit), a
// colourised terminal handler, and a package-level root logger every
// other package in this repository logs through.
package log

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// Level mirrors slog.Level with two extra levels on top of the four
// stdlib levels.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = slog.Level(12)
)

// Logger is the interface every call site programs against. *slog.Logger
// satisfies it directly.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	With(ctx ...any) Logger
}

type logger struct {
	inner *slog.Logger
}

var root Logger = &logger{inner: slog.New(NewTerminalHandler(os.Stderr))}

// Root returns the package-level root logger.
func Root() Logger { return root }

// SetRoot replaces the root logger, e.g. to redirect output or raise the
// handler's minimum level.
func SetRoot(l Logger) { root = l }

// New builds a standalone logger over the given slog.Handler.
func New(h slog.Handler) Logger { return &logger{inner: slog.New(h)} }

func (l *logger) Trace(msg string, ctx ...any) { l.inner.Log(context.Background(), LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any)  { l.inner.Log(context.Background(), LevelCrit, msg, ctx...) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

// Package-level convenience wrappers delegating to Root().
func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { root.Crit(msg, ctx...) }

// isTerminal reports whether w is a character device a human might be
// watching, used to decide whether to colourise output.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
