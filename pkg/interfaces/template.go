package interfaces

import (
	"io"
)

// TemplateRenderer renders named page templates. The generator only relies on
// RenderTemplate; RenderString backs inline snippets such as head scripts.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
