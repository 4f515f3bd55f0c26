package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "newsroom.logging.fields"

// ContextWithFields returns a context carrying structured logging fields that
// console loggers merge into subsequent entries. Existing fields are kept.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts previously annotated logging fields from the context.
// The returned map is a copy.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// WithBuildID tags every entry logged under ctx with the build identifier.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	if buildID == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{fieldBuildID: buildID})
}
