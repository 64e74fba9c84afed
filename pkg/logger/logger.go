package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

var oddArgsWarning sync.Once

type sLogger struct {
	*slog.Logger
}

var _ contracts.Logger = (*sLogger)(nil)

// NewLogger defaults to INFO text output on stdout.
func NewLogger(opts ...Option) (contracts.Logger, error) {
	cfg := &settings{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.replaceAttr == nil {
		WithDefaultReplaceAttr()(cfg)
	}
	return &sLogger{Logger: slog.New(cfg.handler())}, nil
}

// NewFromConfig builds a logger from the "logger" section of cfg, then applies extra on top.
func NewFromConfig(cfg contracts.Config, extra ...Option) (contracts.Logger, error) {
	return NewLogger(append(FromConfig(cfg), extra...)...)
}

// Nop returns a logger that discards every record.
func Nop() contracts.Logger {
	return &sLogger{Logger: slog.New(newTextHandler(io.Discard, false, nil, levelCritical+1))}
}

func (s *settings) handler() slog.Handler {
	if s.json {
		return slog.NewJSONHandler(s.writer, &slog.HandlerOptions{
			Level:       s.level,
			AddSource:   s.addSource,
			ReplaceAttr: s.replaceAttr,
		})
	}
	colored := s.wantColor && isTerminal(s.writer)
	return newTextHandler(s.writer, colored, s.replaceAttr, s.level)
}

func (l *sLogger) Trace(msg string, args ...any)    { l.emit(levelTrace, msg, args) }
func (l *sLogger) Debug(msg string, args ...any)    { l.emit(slog.LevelDebug, msg, args) }
func (l *sLogger) Info(msg string, args ...any)     { l.emit(slog.LevelInfo, msg, args) }
func (l *sLogger) Warn(msg string, args ...any)     { l.emit(slog.LevelWarn, msg, args) }
func (l *sLogger) Error(msg string, args ...any)    { l.emit(slog.LevelError, msg, args) }
func (l *sLogger) Critical(msg string, args ...any) { l.emit(levelCritical, msg, args) }

func (l *sLogger) With(args ...any) contracts.Logger {
	return &sLogger{Logger: l.Logger.With(args...)}
}

func (l *sLogger) emit(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	if l.Enabled(ctx, level) {
		l.LogAttrs(ctx, level, msg, pairsToAttrs(args)...)
	}
}

// pairsToAttrs turns alternating key/value args into attributes. A trailing value is
// kept under MISSING_KEY and a non-string key is replaced by NON_STRING_KEY_<type>.
func pairsToAttrs(args []any) []slog.Attr {
	if len(args)%2 != 0 {
		oddArgsWarning.Do(func() {
			slog.Warn("logger called with odd number of args", slog.Any("args", args))
		})
	}

	attrs := make([]slog.Attr, 0, (len(args)+1)/2)
	for len(args) > 0 {
		if len(args) == 1 {
			attrs = append(attrs, slog.Any("MISSING_KEY", args[0]))
			break
		}
		key, ok := args[0].(string)
		if !ok {
			key = fmt.Sprintf("NON_STRING_KEY_%T", args[0])
		}
		attrs = append(attrs, slog.Any(key, args[1]))
		args = args[2:]
	}
	return attrs
}
