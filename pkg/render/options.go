package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Body is the single rendering contract for form content: either fixed
// markup or a builder given the controller handle. At most one branch is
// set; both produce the same content type.
type Body struct {
	Markup string
	Build  func(ctrl *form.Controller) (string, error)
}

// IsZero reports whether neither branch is populated, in which case
// renderers generate the field catalog from the schema.
func (b Body) IsZero() bool {
	return b.Markup == "" && b.Build == nil
}

// Content resolves the body against a controller handle.
func (b Body) Content(ctrl *form.Controller) (string, error) {
	if b.Build != nil {
		return b.Build(ctrl)
	}
	return b.Markup, nil
}

// Options describe per-request data renderers can use to customise their
// output without touching the form pipeline.
type Options struct {
	// Action and Method override the form's submission target. Renderers
	// translate non-POST verbs into a hidden _method input.
	Action string
	Method string

	// Body replaces the auto-generated field catalog inside the <form>
	// element. When Body.Build is set the renderer invokes it with the
	// form's controller handle.
	Body Body

	// Controller hands the live controller to Body.Build. Left nil for
	// static bodies.
	Controller *form.Controller

	// ServerErrors carries raw error payloads from a backend (JSON pointer
	// or dotted paths); renderers map them onto field chrome via
	// MapErrorPayload.
	ServerErrors map[string][]string

	// Hidden adds hidden inputs (CSRF tokens, versions) to the rendered
	// form.
	Hidden map[string]string

	// Overlay replaces the default busy overlay markup shown when the view
	// reports an in-flight submit.
	Overlay string

	// Theme carries a resolved go-theme configuration (partials, tokens,
	// CSS variables, asset resolver).
	Theme *theme.RendererConfig
}
