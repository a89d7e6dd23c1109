package render

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Renderer converts a form view snapshot into a byte representation (HTML,
// an interactive terminal session transcript, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view form.View, options Options) ([]byte, error)
}
