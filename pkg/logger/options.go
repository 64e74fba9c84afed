package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

type Option func(*settings)

type settings struct {
	level       slog.Level
	json        bool
	addSource   bool
	writer      io.Writer
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
	wantColor   bool
}

func WithReplaceAttr(f func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(c *settings) {
		c.replaceAttr = f
	}
}

func WithLevel(level slog.Level) Option {
	return func(c *settings) {
		c.level = level
	}
}

func WithJSON() Option {
	return func(c *settings) {
		c.json = true
	}
}

func WithText() Option {
	return func(c *settings) {
		c.json = false
	}
}

func WithSource() Option {
	return func(c *settings) {
		c.addSource = true
	}
}

func WithWriter(w io.Writer) Option {
	return func(c *settings) {
		if w == nil {
			w = io.Discard
		}
		c.writer = w
	}
}

// WithLevelNames overrides the printed name of individual levels.
func WithLevelNames(names map[slog.Leveler]string) Option {
	return func(c *settings) {
		c.replaceAttr = chainReplace(c.replaceAttr, func(a slog.Attr) slog.Attr {
			level, ok := a.Value.Any().(slog.Level)
			if a.Key != slog.LevelKey || !ok {
				return a
			}
			if label, exists := names[level]; exists {
				return slog.String(slog.LevelKey, label)
			}
			return slog.String(slog.LevelKey, levelName(level))
		})
	}
}

func WithColor() Option {
	return func(c *settings) {
		c.wantColor = true
	}
}

// WithDefaultReplaceAttr renders levels with their TRACE/CRITICAL aware names.
func WithDefaultReplaceAttr() Option {
	return func(c *settings) {
		c.replaceAttr = chainReplace(c.replaceAttr, func(a slog.Attr) slog.Attr {
			if level, ok := a.Value.Any().(slog.Level); ok && a.Key == slog.LevelKey {
				return slog.String(slog.LevelKey, levelName(level))
			}
			return a
		})
	}
}

// chainReplace runs prev before next. An attribute dropped by prev is not passed on.
func chainReplace(
	prev func(groups []string, a slog.Attr) slog.Attr,
	next func(a slog.Attr) slog.Attr,
) func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if prev != nil {
			if a = prev(groups, a); a.Key == "" {
				return a
			}
		}
		return next(a)
	}
}

// FromConfig translates the "logger" section of cfg into options. Unknown levels fall back to info.
func FromConfig(cfg contracts.Config) []Option {
	if cfg == nil {
		return nil
	}
	sub, ok := cfg.GetSub("logger")
	if !ok {
		return nil
	}

	opts := []Option{WithLevel(parseLevel(sub.GetString("level", "info")))}

	switch strings.ToLower(sub.GetString("format", "text")) {
	case "json":
		opts = append(opts, WithJSON())
	default:
		opts = append(opts, WithText())
	}

	switch strings.ToLower(sub.GetString("output", "stdout")) {
	case "stderr":
		opts = append(opts, WithWriter(os.Stderr))
	case "discard", "none":
		opts = append(opts, WithWriter(io.Discard))
	default:
		opts = append(opts, WithWriter(os.Stdout))
	}

	if sub.GetBool("include_caller", false) {
		opts = append(opts, WithSource())
	}
	if sub.GetBool("enable_colors", false) {
		opts = append(opts, WithColor())
	}
	return opts
}
