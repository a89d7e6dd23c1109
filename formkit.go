package formkit

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/form"
	pkgopenapi "github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Form aliases the core form type so quick-start callers only import the
// root package.
type Form = form.Form

// View is the render-ready snapshot produced by a form.
type View = form.View

// Status reports the outcome of a submit attempt.
type Status = form.Status

// Schema describes the fields, rules, and layout of a form.
type Schema = schema.Schema

// Field describes a single form field.
type Field = schema.Field

// SubmitFunc receives the validated, coerced value tree on submit.
type SubmitFunc = form.SubmitFunc

// RenderOptions carries per-request render overrides such as action URL,
// hidden fields, and server-side error payloads.
type RenderOptions = render.Options

// New constructs a form bound to the given schema and submit handler.
func New(s *schema.Schema, onSubmit form.SubmitFunc, opts ...form.Option) (*form.Form, error) {
	return form.New(s, onSubmit, opts...)
}

// LoadSchema reads a schema document from disk, detecting JSON, YAML, or
// TOML by file extension.
func LoadSchema(path string) (*schema.Schema, error) {
	return schema.LoadFile(path)
}

// ImportOpenAPI loads an OpenAPI document and extracts a form schema per
// eligible operation.
func ImportOpenAPI(ctx context.Context, path string) (*pkgopenapi.Document, error) {
	return pkgopenapi.New().FromFile(ctx, path)
}

// RenderHTML renders the form's current view as a standalone HTML fragment.
// It is the simplest entry point for callers that just want markup.
func RenderHTML(ctx context.Context, f *form.Form, options render.Options, opts ...html.Option) ([]byte, error) {
	renderer, err := html.New(opts...)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, f.View(), options)
}
