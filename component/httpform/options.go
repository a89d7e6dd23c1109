package httpform

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/render"
)

// defaultMaxBodyBytes bounds how much of a POST body the handler reads.
const defaultMaxBodyBytes = 1 << 20

// Options configure the form component handler.
type Options struct {
	RoutePath string

	// Action and Method are forwarded to the renderer; Action defaults to
	// the mounted route path.
	Action string
	Method string

	// SuccessURL is the redirect target after a successful submit. When
	// empty the handler re-renders the (reset) form with 200.
	SuccessURL string

	// Hidden values (CSRF tokens, versions) injected into every render.
	Hidden map[string]string

	// Overlay overrides the busy overlay markup.
	Overlay string

	// MaxBodyBytes caps the accepted request body size.
	MaxBodyBytes int64

	Logger *zap.Logger
}

// OptionFn mutates Options.
type OptionFn func(*Options)

// DefaultOptions returns the baseline component configuration.
func DefaultOptions() Options {
	return Options{
		RoutePath:    "/form",
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

// NewOptions folds overrides into the defaults and normalises the result.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/form"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Hidden != nil {
		opts.Hidden = render.MergeHiddenFields(opts.Hidden)
	}
	return opts
}

// WithRoutePath overrides the component mount path.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithAction overrides the form action target.
func WithAction(action string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Action = action
	}
}

// WithSuccessURL redirects to the given URL after successful submits.
func WithSuccessURL(url string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SuccessURL = url
	}
}

// WithHidden injects hidden fields into every rendered form.
func WithHidden(hidden map[string]string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Hidden = render.MergeHiddenFields(o.Hidden)
		for name, value := range hidden {
			o.Hidden = render.MergeHiddenFields(o.Hidden, render.Hidden(name, value))
		}
	}
}

// WithOverlay overrides the busy overlay markup.
func WithOverlay(markup string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Overlay = markup
	}
}

// WithMaxBodyBytes caps the accepted request body size.
func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}

// WithLogger attaches a structured logger; a no-op logger is installed when
// omitted.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
