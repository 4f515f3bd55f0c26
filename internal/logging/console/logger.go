// Package console writes newsroom logs to a terminal without pulling in a
// logging framework. Entries are one line each, tagged with the short module
// name so build output stays readable:
//
//	2024-08-04T18:07:00.000Z INFO  generator generator.build.completed pages=42
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Options configures the provider. Level, Format and Focus take the
// logging.* configuration values as they are.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	Level    string
	Format   string
	Focus    []string
}

// Provider hands out module loggers sharing one writer.
type Provider struct {
	writer   io.Writer
	clock    func() time.Time
	minLevel logging.Level
	json     bool
	focus    []string
	mu       sync.Mutex
}

// NewProvider builds a console provider. Unknown levels fall back to info;
// any format other than json renders text.
func NewProvider(opts Options) *Provider {
	p := &Provider{
		writer:   opts.Writer,
		clock:    opts.TimeFunc,
		minLevel: logging.LevelInfo,
		json:     strings.EqualFold(strings.TrimSpace(opts.Format), FormatJSON),
		focus:    logging.FocusModules(opts.Focus),
	}
	if p.writer == nil {
		p.writer = os.Stderr
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if level, ok := logging.ParseLevel(opts.Level); ok {
		p.minLevel = level
	}
	return p
}

// GetLogger returns the logger for a module such as "newsroom.generator".
func (p *Provider) GetLogger(name string) interfaces.Logger {
	return &logger{provider: p, module: logging.QualifiedModule(name)}
}

// Focused reports whether entries below warn are written for module.
func (p *Provider) Focused(module string) bool {
	return logging.InFocus(module, p.focus)
}

type logger struct {
	provider *Provider
	module   string
	fields   map[string]any
	ctx      context.Context
}

var _ interfaces.Logger = (*logger)(nil)

func (l *logger) Trace(msg string, args ...any) { l.log(logging.LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.log(logging.LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.log(logging.LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.log(logging.LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.log(logging.LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.log(logging.LevelFatal, msg, args) }

// WithFields merges fields. A "module" field renames the logger instead of
// being printed, which is how logging.ModuleLogger tags entries.
func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	child := &logger{provider: l.provider, module: l.module, ctx: l.ctx}
	child.fields = make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		child.fields[key] = value
	}
	for key, value := range fields {
		if key == "module" {
			if name, ok := value.(string); ok && name != "" {
				child.module = logging.QualifiedModule(name)
				continue
			}
		}
		child.fields[key] = value
	}
	return child
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{provider: l.provider, module: l.module, fields: l.fields, ctx: ctx}
}

func (l *logger) log(level logging.Level, msg string, args []any) {
	p := l.provider
	if level < p.minLevel {
		return
	}
	if level < logging.LevelWarn && !p.Focused(l.module) {
		return
	}

	fields := make(map[string]any, len(l.fields)+len(args)/2+2)
	for key, value := range l.fields {
		fields[key] = value
	}
	for key, value := range logging.ContextFields(l.ctx) {
		fields[key] = value
	}
	addArgs(fields, args)

	ts := p.clock().UTC()
	var line string
	if p.json {
		line = jsonEntry(ts, level, l.module, msg, fields)
	} else {
		line = textEntry(ts, level, l.module, msg, fields)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.writer, line+"\n")
}

// addArgs reads slog style key/value pairs. A value without a usable key
// is kept under "arg_<n>".
func addArgs(fields map[string]any, args []any) {
	for i := 0; i < len(args); i += 2 {
		position := "arg_" + strconv.Itoa(i/2)
		if i+1 == len(args) {
			fields[position] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			fields[position] = args[i+1]
			continue
		}
		fields[key] = args[i+1]
	}
}

func textEntry(ts time.Time, level logging.Level, module, msg string, fields map[string]any) string {
	var b strings.Builder
	b.Grow(64 + len(msg) + len(fields)*16)
	b.WriteString(ts.Format(timeLayout))
	fmt.Fprintf(&b, " %-5s %s %s", strings.ToUpper(level.String()), logging.ShortModule(module), msg)
	for _, key := range sortedKeys(fields) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[key]))
	}
	return b.String()
}

func jsonEntry(ts time.Time, level logging.Level, module, msg string, fields map[string]any) string {
	entry := make(map[string]any, len(fields)+4)
	for key, value := range fields {
		switch v := value.(type) {
		case error:
			entry[key] = v.Error()
		case fmt.Stringer:
			entry[key] = v.String()
		default:
			entry[key] = v
		}
	}
	entry["time"] = ts.Format(timeLayout)
	entry["level"] = level.String()
	entry["module"] = module
	entry["msg"] = msg
	data, err := json.Marshal(entry)
	if err != nil {
		return textEntry(ts, level, module, msg, map[string]any{"encode_error": err})
	}
	return string(data)
}

func sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quote(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case time.Duration:
		return v.Round(time.Millisecond).String()
	case error:
		return quote(v.Error())
	case fmt.Stringer:
		return quote(v.String())
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return quote(fmt.Sprint(v))
	}
}

// quote leaves Arabic text readable: only empty values and values with
// spaces, control characters or '=' are quoted.
func quote(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsFunc(value, func(r rune) bool { return r <= ' ' || r == '=' }) {
		return strconv.Quote(value)
	}
	return value
}
