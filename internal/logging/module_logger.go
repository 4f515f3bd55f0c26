package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

const (
	rootModule      = "newsroom"
	contentModule   = "newsroom.content"
	sitedataModule  = "newsroom.sitedata"
	markdownModule  = "newsroom.markdown"
	generatorModule = "newsroom.generator"
	commandsModule  = "newsroom.commands"
	previewModule   = "newsroom.preview"
	searchModule    = "newsroom.search"
)

const (
	fieldBuildID    = "build_id"
	fieldSourcePath = "source_path"
	fieldCollection = "collection"
	fieldRoute      = "route"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return logger.WithFields(map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for post collections.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// SiteDataLogger returns the logger namespace reserved for JSON site data.
func SiteDataLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sitedataModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown parsing.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// GeneratorLogger returns the logger namespace reserved for static builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// PreviewLogger returns the logger namespace reserved for the preview server.
func PreviewLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, previewModule)
}

// SearchLogger returns the logger namespace reserved for search indexing.
func SearchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, searchModule)
}

// WithSourceContext enriches the logger with the file path and collection an
// entry relates to. Empty values are ignored.
func WithSourceContext(logger interfaces.Logger, path, collection string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldSourcePath] = trimmed
	}
	if trimmed := strings.TrimSpace(collection); trimmed != "" {
		fields[fieldCollection] = trimmed
	}
	return WithFields(logger, fields)
}

// WithRoute tags the logger with the public route being rendered.
func WithRoute(logger interfaces.Logger, route string) interfaces.Logger {
	if strings.TrimSpace(route) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldRoute: route})
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
