package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgMagenta),
	slog.LevelInfo:  color.New(color.FgGreen),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed, color.Bold),
}

var keyColor = color.New(color.FgHiBlack)

// Handler writes one line per record:
//
//	[aocboard] 15:04:05 WARN  message key=value ...
type Handler struct {
	out    io.Writer
	level  slog.Leveler
	name   string
	attrs  []slog.Attr
	groups []string
	mu     *sync.Mutex
}

func NewHandler(out io.Writer, name string, level slog.Leveler) *Handler {
	return &Handler{
		out:   out,
		level: level,
		name:  name,
		mu:    &sync.Mutex{},
	}
}

// Setup installs the handler as the slog default.
func Setup(out io.Writer, name string, level slog.Level, colored bool) *slog.Logger {
	color.NoColor = !colored
	logger := slog.New(NewHandler(out, name, level))
	slog.SetDefault(logger)
	return logger
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), h.qualify(attrs)...)
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if len(name) == 0 {
		return h
	}
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] ", h.name))
	timestamp := r.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	b.WriteString(timestamp.Format("15:04:05"))
	b.WriteByte(' ')
	b.WriteString(levelColor(r.Level).Sprintf("%-5s", r.Level.String()))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	attrs := append([]slog.Attr{}, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify([]slog.Attr{a})...)
		return true
	})
	for _, attr := range attrs {
		writeAttr(&b, attr)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}
	prefix := strings.Join(h.groups, ".") + "."
	out := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		out[i] = slog.Attr{Key: prefix + attr.Key, Value: attr.Value}
	}
	return out
}

func writeAttr(b *strings.Builder, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		for _, nested := range attr.Value.Group() {
			nested.Key = attr.Key + "." + nested.Key
			writeAttr(b, nested)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(keyColor.Sprint(attr.Key + "="))
	value := attr.Value.String()
	if strings.ContainsAny(value, " \t\"") {
		value = fmt.Sprintf("%q", value)
	}
	b.WriteString(value)
}

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return levelColors[slog.LevelError]
	case level >= slog.LevelWarn:
		return levelColors[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return levelColors[slog.LevelInfo]
	}
	return levelColors[slog.LevelDebug]
}
