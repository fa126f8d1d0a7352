package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Colors used by the pretty handlers. fatih/color drops the escape codes on
// its own when [color.NoColor] is set.
var (
	keyColor    = color.New(color.FgHiBlack).SprintFunc()
	stringColor = color.New(color.FgCyan).SprintFunc()
	numberColor = color.New(color.FgYellow).SprintFunc()
	trueColor   = color.New(color.FgGreen).SprintFunc()
	falseColor  = color.New(color.FgRed).SprintFunc()
	timeColor   = color.New(color.FgBlue).SprintFunc()
	spanColor   = color.New(color.FgMagenta).SprintFunc()
	nullColor   = color.New(color.FgHiBlack).SprintFunc()
)

func levelColor(level slog.Level) func(...any) string {
	switch {
	case level >= slog.LevelError:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case level >= slog.LevelWarn:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case level >= slog.LevelInfo:
		return color.New(color.FgGreen).SprintFunc()
	default:
		return color.New(color.FgBlue).SprintFunc()
	}
}

// prettyHandler holds the state shared by both pretty encodings: the options,
// the writer (guarded by mu) and the attributes accumulated with WithAttrs.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

// header returns the time, level, source and message attributes of r, passed
// through ReplaceAttr.
func (h *prettyHandler) header(r slog.Record) []slog.Attr {
	head := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		head = append(head, slog.Time(slog.TimeKey, r.Time))
	}

	head = append(head, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			head = append(head, slog.String(
				slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line),
			))
		}
	}

	head = append(head, slog.String(slog.MessageKey, r.Message))

	out := head[:0]

	for _, a := range head {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

// body returns the accumulated attributes followed by those of r. Keys are
// qualified by the groups open when each attribute was added.
func (h *prettyHandler) body(r slog.Record) []slog.Attr {
	body := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	body = append(body, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.qualify(a.Key)
		body = append(body, a)

		return true
	})

	return body
}

func (h *prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	c := *h
	c.attrs = h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		a.Key = h.qualify(a.Key)
		c.attrs = append(c.attrs, a)
	}

	return c
}

func (h *prettyHandler) withGroup(name string) prettyHandler {
	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return c
}

func (h *prettyHandler) qualify(key string) string {
	for i := len(h.groups) - 1; i >= 0; i-- {
		key = h.groups[i] + "." + key
	}

	return key
}

// prettyTextHandler renders records as colorized key=value lines.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		h.writeAttr(buf, a.Key, a)
	}

	for _, a := range h.body(r) {
		h.writeAttr(buf, a.Key, a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, key string, a slog.Attr) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			h.writeAttr(buf, key+"."+ga.Key, ga)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(keyColor(key))
	buf.WriteByte('=')
	buf.WriteString(renderValue(v))
}

// prettyJSONHandler renders records as indented, colorized JSON-like objects.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{")

	first := true

	for _, a := range h.header(r) {
		h.writeField(buf, a.Key, a.Value, 1, &first)
	}

	for _, a := range h.body(r) {
		h.writeField(buf, a.Key, a.Value, 1, &first)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	key string,
	v slog.Value,
	depth int,
	first *bool,
) {
	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	buf.WriteByte('\n')
	buf.Write(bytes.Repeat([]byte("  "), depth))
	buf.WriteString(keyColor(strconv.Quote(key)))
	buf.WriteString(": ")

	v = v.Resolve()
	if v.Kind() != slog.KindGroup {
		buf.WriteString(renderValue(v))

		return
	}

	buf.WriteString("{")

	inner := true
	for _, ga := range v.Group() {
		h.writeField(buf, ga.Key, ga.Value, depth+1, &inner)
	}

	buf.WriteByte('\n')
	buf.Write(bytes.Repeat([]byte("  "), depth))
	buf.WriteString("}")
}

func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringColor(v.String())

	case slog.KindInt64:
		return numberColor(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return numberColor(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return numberColor(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return trueColor("true")
		}

		return falseColor("false")

	case slog.KindDuration:
		return spanColor(v.Duration().String())

	case slog.KindTime:
		return timeColor(v.Time().Format(time.RFC3339))

	case slog.KindAny:
		switch a := v.Any().(type) {
		case slog.Level:
			return levelColor(a)(a.String())
		case nil:
			return nullColor("null")
		case error:
			return stringColor(a.Error())
		default:
			return stringColor(fmt.Sprint(a))
		}

	default:
		return stringColor(v.String())
	}
}
