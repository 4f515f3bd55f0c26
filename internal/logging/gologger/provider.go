// Package gologger backs newsroom module loggers with go-logger. Each module
// (newsroom.generator, newsroom.preview, ...) becomes a named go-logger child,
// so logging.focus can narrow a noisy build down to the modules under study.
package gologger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// Config mirrors the logging.* configuration keys.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

var glogLevels = map[logging.Level]string{
	logging.LevelTrace: glog.Trace,
	logging.LevelDebug: glog.Debug,
	logging.LevelInfo:  glog.Info,
	logging.LevelWarn:  glog.Warn,
	logging.LevelError: glog.Error,
	logging.LevelFatal: glog.Fatal,
}

var glogFormats = map[string]glog.Option{
	"json":    glog.WithLoggerTypeJSON(),
	"console": glog.WithLoggerTypeConsole(),
	"pretty":  glog.WithLoggerTypePretty(),
}

// SupportsFormat reports whether format names a go-logger output type. The
// empty format selects json.
func SupportsFormat(format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	_, ok := glogFormats[format]
	return ok || format == ""
}

// Provider hands out go-logger children per module.
type Provider struct {
	root  *glog.BaseLogger
	focus []string
}

// NewProvider builds the go-logger root from cfg. Unknown levels keep the
// go-logger default; unknown formats are an error.
func NewProvider(cfg Config) (*Provider, error) {
	options, err := rootOptions(cfg)
	if err != nil {
		return nil, err
	}
	p := &Provider{
		root:  glog.NewLogger(options...),
		focus: logging.FocusModules(cfg.Focus),
	}
	if len(p.focus) > 0 {
		p.root.Focus(p.focus...)
	}
	return p, nil
}

func rootOptions(cfg Config) ([]glog.Option, error) {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" {
		format = "json"
	}
	withFormat, ok := glogFormats[format]
	if !ok {
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}

	options := []glog.Option{withFormat}
	if level, ok := logging.ParseLevel(cfg.Level); ok {
		options = append(options, glog.WithLevel(glogLevels[level]))
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}
	return options, nil
}

// Focus lists the qualified modules go-logger is focused on.
func (p *Provider) Focus() []string {
	return append([]string(nil), p.focus...)
}

// GetLogger returns the go-logger child for a module. Short names such as
// "generator" are qualified so they match the focus list.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	module := logging.QualifiedModule(name)
	if module == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(module))
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

// adapter satisfies interfaces.Logger. Loggers without field support get
// their fields appended to every call as sorted key/value pairs.
type adapter struct {
	inner glog.Logger
	pairs []any
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, l.args(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, l.args(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, l.args(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.args(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, l.args(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.args(args)...) }

func (l *adapter) args(args []any) []any {
	if len(l.pairs) == 0 {
		return args
	}
	out := make([]any, 0, len(l.pairs)+len(args))
	out = append(out, l.pairs...)
	return append(out, args...)
}

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	if with, ok := l.inner.(glog.FieldsLogger); ok && len(l.pairs) == 0 {
		copied := make(map[string]any, len(fields))
		for key, value := range fields {
			copied[key] = value
		}
		return wrap(with.WithFields(copied))
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := append([]any(nil), l.pairs...)
	for _, key := range keys {
		pairs = append(pairs, key, fields[key])
	}
	return &adapter{inner: l.inner, pairs: pairs}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return &adapter{inner: l.inner.WithContext(ctx), pairs: l.pairs}
}
