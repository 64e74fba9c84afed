package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// textHandler writes "LEVEL message key="value" ..." lines. Attributes added through
// WithGroup are prefixed with the dotted group path.
type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

type textHandler struct {
	mu          *sync.Mutex
	writer      io.Writer
	attrs       []groupedAttr
	groups      []string
	isColored   bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
	level       slog.Level
}

func newTextHandler(
	writer io.Writer,
	isColored bool,
	replaceAttr func(groups []string, a slog.Attr) slog.Attr,
	level slog.Level,
) *textHandler {
	return &textHandler{
		mu:          &sync.Mutex{},
		writer:      writer,
		isColored:   isColored,
		replaceAttr: replaceAttr,
		level:       level,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	levelStr := levelName(r.Level)
	if h.replaceAttr != nil {
		levelStr = h.replaceAttr(nil, slog.String(slog.LevelKey, levelStr)).Value.String()
	}
	if h.isColored {
		levelStr = colorize(levelStr, r.Level)
	}

	var b strings.Builder
	b.WriteString(levelStr)
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, ga := range h.attrs {
		h.writeAttr(&b, ga.groups, ga.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, h.groups, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

func (h *textHandler) writeAttr(b *strings.Builder, groups []string, a slog.Attr) {
	if h.replaceAttr != nil {
		a = h.replaceAttr(groups, a)
	}
	if a.Key == "" {
		return
	}
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	_, _ = fmt.Fprintf(b, " %s=%q", key, a.Value.Resolve().String())
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		c.attrs = append(c.attrs, groupedAttr{groups: h.groups, attr: a})
	}
	return c
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.groups = append(c.groups, name)
	return c
}

func (h *textHandler) clone() *textHandler {
	c := *h
	c.attrs = append([]groupedAttr(nil), h.attrs...)
	c.groups = append([]string(nil), h.groups...)
	return &c
}

func colorize(levelStr string, level slog.Level) string {
	const (
		reset  = "\033[0m"
		blue   = "\033[34m"
		cyan   = "\033[36m"
		green  = "\033[32m"
		yellow = "\033[33m"
		red    = "\033[31m"
		white  = "\033[37m"
		redBg  = "\033[41m"
	)

	switch {
	case level >= levelCritical:
		return redBg + white + levelStr + reset
	case level >= slog.LevelError:
		return red + levelStr + reset
	case level >= slog.LevelWarn:
		return yellow + levelStr + reset
	case level >= slog.LevelInfo:
		return green + levelStr + reset
	case level >= slog.LevelDebug:
		return blue + levelStr + reset
	default:
		return cyan + levelStr + reset
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
