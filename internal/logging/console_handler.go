package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders records as single lines: timestamp, level label, an
// optional component prefix, the message, caller info at debug verbosity, and
// a k=v tail with group names folded into dotted keys.
type consoleHandler struct {
	mu         sync.Mutex
	out        io.Writer
	level      *slog.LevelVar
	withCaller bool
	base       []field
	scopes     []string
}

type field struct {
	key string
	val slog.Value
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, withCaller bool) slog.Handler {
	return &consoleHandler{out: w, level: lvl, withCaller: withCaller}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]field, 0, len(h.base)+record.NumAttrs())
	fields = append(fields, h.base...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = gatherFields(fields, h.scopes, attr)
		return true
	})

	component, fields := splitComponent(fields)
	fields = mergeFields(fields)

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var buf bytes.Buffer
	buf.Grow(96 + 24*len(fields))
	buf.WriteString(ts.UTC().Format(time.RFC3339))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	buf.WriteByte(' ')
	if component != "" {
		buf.WriteString(component)
		buf.WriteString(": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}
	if h.withCaller {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range fields {
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(renderValue(f.val))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.fork()
	for _, attr := range attrs {
		next.base = gatherFields(next.base, next.scopes, attr)
	}
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	next := h.fork()
	if name != "" {
		next.scopes = append(next.scopes, name)
	}
	return next
}

func (h *consoleHandler) fork() *consoleHandler {
	return &consoleHandler{
		out:        h.out,
		level:      h.level,
		withCaller: h.withCaller,
		base:       append([]field(nil), h.base...),
		scopes:     append([]string(nil), h.scopes...),
	}
}

// gatherFields resolves attr and appends it to fields, expanding groups into
// dot-prefixed keys under the current scopes.
func gatherFields(fields []field, scopes []string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return fields
	}
	attr.Value = attr.Value.Resolve()

	if attr.Value.Kind() == slog.KindGroup {
		inner := scopes
		if attr.Key != "" {
			inner = append(append([]string(nil), scopes...), attr.Key)
		}
		for _, member := range attr.Value.Group() {
			fields = gatherFields(fields, inner, member)
		}
		return fields
	}

	key := attr.Key
	switch {
	case len(scopes) == 0:
	case key == "":
		key = strings.Join(scopes, ".")
	default:
		key = strings.Join(scopes, ".") + "." + key
	}
	if key == "" {
		return fields
	}
	return append(fields, field{key: key, val: attr.Value})
}

// splitComponent pulls the first component field out of fields so the line
// prefix can carry it instead of the k=v tail.
func splitComponent(fields []field) (string, []field) {
	component := ""
	rest := fields[:0]
	for _, f := range fields {
		if f.key == FieldComponent {
			if component == "" {
				component = renderBare(f.val)
			}
			continue
		}
		rest = append(rest, f)
	}
	return component, rest
}

// mergeFields collapses repeated keys, keeping each key's final value in its
// first position.
func mergeFields(fields []field) []field {
	if len(fields) < 2 {
		return fields
	}
	at := make(map[string]int, len(fields))
	merged := fields[:0]
	for _, f := range fields {
		if idx, ok := at[f.key]; ok {
			merged[idx].val = f.val
			continue
		}
		at[f.key] = len(merged)
		merged = append(merged, f)
	}
	return merged
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}

// renderBare renders a value for contexts that never quote, like the
// component prefix.
func renderBare(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		return v.String()
	}
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	}
	return renderValue(v)
}

// renderValue renders a value for the k=v tail, quoting strings that would
// otherwise break the single-line format.
func renderValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindString:
		return maybeQuote(v.String())
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return maybeQuote(err.Error())
		}
		return maybeQuote(fmt.Sprint(v.Any()))
	}
	return maybeQuote(v.String())
}

func maybeQuote(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}
