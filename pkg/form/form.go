package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// FallbackErrorMessage is shown when a submit handler fails with an error
// that carries no message text.
const FallbackErrorMessage = "Something went wrong. Please try again."

// SubmitFunc is the caller-supplied submit handler. It receives the
// validated, coerced value tree, never the raw input. Returned errors and
// panics are contained by the form and surfaced as the global error.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// ErrorFunc optionally receives the full field-path→message map when
// validation fails.
type ErrorFunc func(errs schema.Errors)

// Status reports the outcome of a submit attempt. Expected failures
// (validation, handler errors) are contained and reflected here plus in the
// global error state rather than propagated.
type Status int

const (
	// StatusSucceeded means validation passed and the handler completed.
	StatusSucceeded Status = iota
	// StatusValidationFailed means the schema rejected the value tree; the
	// handler was not invoked.
	StatusValidationFailed
	// StatusHandlerFailed means the handler returned an error or panicked.
	StatusHandlerFailed
	// StatusSkipped means the attempt was ignored, e.g. a duplicate submit
	// while another one is in flight.
	StatusSkipped
)

// Option customises form construction.
type Option func(*config)

type config struct {
	id              string
	class           string
	mode            Mode
	defaults        map[string]any
	resetOnSuccess  bool
	showGlobalError bool
	onError         ErrorFunc
}

// WithID sets the DOM id passed through to renderers. A generated id is used
// when omitted.
func WithID(id string) Option {
	return func(cfg *config) { cfg.id = id }
}

// WithClass sets the CSS class passed through to renderers.
func WithClass(class string) Option {
	return func(cfg *config) { cfg.class = class }
}

// WithMode overrides the validation timing mode (default ModeOnBlur).
func WithMode(mode Mode) Option {
	return func(cfg *config) { cfg.mode = mode }
}

// WithDefaults overrides the initial value tree. When omitted, defaults are
// derived from the schema's field defaults.
func WithDefaults(defaults map[string]any) Option {
	return func(cfg *config) { cfg.defaults = defaults }
}

// WithResetOnSuccess restores defaults after a successful submit (default
// off).
func WithResetOnSuccess() Option {
	return func(cfg *config) { cfg.resetOnSuccess = true }
}

// WithoutGlobalError suppresses the aggregate error banner (shown by
// default).
func WithoutGlobalError() Option {
	return func(cfg *config) { cfg.showGlobalError = false }
}

// WithOnError registers a callback invoked with the full error map when
// validation fails.
func WithOnError(fn ErrorFunc) Option {
	return func(cfg *config) { cfg.onError = fn }
}

// Form binds a schema to a controller and a submit handler. It owns the
// single-slot global error state: set from failed validation or a failed
// handler, cleared at the start of every submit attempt and on explicit
// dismissal.
type Form struct {
	ctrl            *Controller
	onSubmit        SubmitFunc
	onError         ErrorFunc
	class           string
	resetOnSuccess  bool
	showGlobalError bool

	globalError string
}

// New constructs a Form. Schema and submit handler are required; everything
// else has defaults.
func New(s *schema.Schema, onSubmit SubmitFunc, opts ...Option) (*Form, error) {
	if s == nil {
		return nil, errors.New("form: schema is required")
	}
	if onSubmit == nil {
		return nil, errors.New("form: submit handler is required")
	}

	cfg := config{showGlobalError: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	defaults := cfg.defaults
	if defaults == nil {
		defaults = s.DefaultValues()
	}

	return &Form{
		ctrl:            newController(s, cfg.id, cfg.mode, defaults),
		onSubmit:        onSubmit,
		onError:         cfg.onError,
		class:           cfg.class,
		resetOnSuccess:  cfg.resetOnSuccess,
		showGlobalError: cfg.showGlobalError,
	}, nil
}

// Controller exposes the underlying controller handle for descendants that
// need direct field access.
func (f *Form) Controller() *Controller {
	return f.ctrl
}

// GlobalError returns the current aggregate error message, or "".
func (f *Form) GlobalError() string {
	f.ctrl.mu.Lock()
	defer f.ctrl.mu.Unlock()
	return f.globalError
}

// DismissError clears the global error banner.
func (f *Form) DismissError() {
	f.setGlobalError("")
}

// Submit runs the validate → handle pipeline against the controller's
// current values:
//
//   - validation failure: the global error becomes a pluralised count
//     message, the optional error callback receives the full error map, and
//     the handler is not invoked;
//   - validation success: the global error is cleared and the handler runs
//     inside a guarded region. A handler error or panic becomes the global
//     error (or FallbackErrorMessage when the error has no text) and is
//     never re-thrown;
//   - with reset-on-success, defaults are restored after the handler
//     completes.
func (f *Form) Submit(ctx context.Context) Status {
	f.setGlobalError("")

	result := f.ctrl.validate()
	if !result.Valid() {
		f.setGlobalError(ValidationBanner(len(result.Errors)))
		if f.onError != nil {
			f.onError(result.Errors)
		}
		return StatusValidationFailed
	}

	if err := f.invokeHandler(ctx, result.Values); err != nil {
		msg := err.Error()
		if msg == "" {
			msg = FallbackErrorMessage
		}
		f.setGlobalError(msg)
		return StatusHandlerFailed
	}

	if f.resetOnSuccess {
		f.ctrl.Reset()
	}
	return StatusSucceeded
}

// invokeHandler is the guarded region around the caller's handler: panics
// are converted to errors so a failing handler can never crash the enclosing
// view.
func (f *Form) invokeHandler(ctx context.Context, vals map[string]any) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if asErr, ok := recovered.(error); ok {
				err = asErr
				return
			}
			err = fmt.Errorf("%v", recovered)
		}
	}()
	return f.onSubmit(ctx, vals)
}

func (f *Form) setGlobalError(msg string) {
	f.ctrl.mu.Lock()
	defer f.ctrl.mu.Unlock()
	f.globalError = msg
}

// ValidationBanner formats the aggregate banner text for a given error
// count.
func ValidationBanner(count int) string {
	if count == 1 {
		return "Please fix 1 validation error"
	}
	return fmt.Sprintf("Please fix %d validation errors", count)
}

// View is the immutable snapshot renderers consume.
type View struct {
	Schema          *schema.Schema
	ID              string
	Class           string
	Values          map[string]any
	FieldErrors     map[string]string
	GlobalError     string
	ShowGlobalError bool
	Busy            bool
}

// View snapshots the form's current state for rendering.
func (f *Form) View() View {
	return View{
		Schema:          f.ctrl.Schema(),
		ID:              f.ctrl.ID(),
		Class:           f.class,
		Values:          f.ctrl.Values(),
		FieldErrors:     f.ctrl.FieldErrors(),
		GlobalError:     f.GlobalError(),
		ShowGlobalError: f.showGlobalError,
	}
}
