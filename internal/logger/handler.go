package logger

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// MaxValueLen caps a rendered attribute value. Toolchain stderr easily runs
// to thousands of lines.
const MaxValueLen = 240

var levelBadges = map[slog.Level]func(format string, a ...interface{}) string{
	slog.LevelDebug: color.HiBlackString,
	slog.LevelInfo:  color.CyanString,
	slog.LevelWarn:  color.YellowString,
	slog.LevelError: color.RedString,
}

var attrColors = map[string]func(format string, a ...interface{}) string{
	"error":    color.RedString,
	"stderr":   color.RedString,
	"duration": color.MagentaString,
	"score":    color.GreenString,
	"passed":   color.GreenString,
	"failed":   color.GreenString,
	"count":    color.GreenString,
	"image":    color.BlueString,
	"language": color.BlueString,
	"sha":      color.BlueString,
}

// PrettyHandler renders one colored line per record for terminals.
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts: opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	parts := make([]string, 0, 2+len(h.attrs)+r.NumAttrs())
	parts = append(parts, badge(r.Level), r.Message)
	parts = append(parts, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, h.formatAttr(a))
		return true
	})

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			parts = append(parts, color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}

	line := strings.Join(parts, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		c.attrs = append(c.attrs, h.formatAttr(a))
	}
	return c
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.prefix = h.prefix + name + "."
	return c
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		prefix: h.prefix,
		attrs:  append([]string(nil), h.attrs...),
	}
}

func (h *PrettyHandler) formatAttr(a slog.Attr) string {
	paint, ok := attrColors[a.Key]
	if !ok {
		paint = color.HiBlackString
	}
	return paint("%s%s=%s", h.prefix, a.Key, compact(a.Value.Resolve().String()))
}

func badge(level slog.Level) string {
	label := "[" + level.String() + "]"
	if len(label) < 7 {
		label += strings.Repeat(" ", 7-len(label))
	}
	if paint, ok := levelBadges[level]; ok {
		return paint("%s", label)
	}
	return label
}

// compact folds a multi-line value onto one line and truncates it to
// MaxValueLen runes.
func compact(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	runes := []rune(v)
	if len(runes) <= MaxValueLen {
		return v
	}
	return string(runes[:MaxValueLen]) + "..."
}
