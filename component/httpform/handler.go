package httpform

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
)

// FormFactory builds the form instance serving a request. Each request gets
// its own form so controller state never leaks between users.
type FormFactory func(r *http.Request) (*form.Form, error)

// Handler builds a net/http handler with default options plus any overrides.
func Handler(factory FormFactory, renderer render.Renderer, fns ...OptionFn) http.Handler {
	return HandlerWithOptions(factory, renderer, NewOptions(fns...))
}

// HandlerWithOptions builds a net/http handler from a pre-constructed
// Options value. Callers are expected to pass an Options value produced by
// NewOptions so defaults apply.
func HandlerWithOptions(factory FormFactory, renderer render.Renderer, opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil || factory == nil || renderer == nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead:
			serveForm(w, r, factory, renderer, opts)
		case http.MethodPost:
			serveSubmit(w, r, factory, renderer, opts)
		default:
			w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodPost}, ", "))
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})
}

func serveForm(w http.ResponseWriter, r *http.Request, factory FormFactory, renderer render.Renderer, opts Options) {
	f, err := factory(r)
	if err != nil {
		opts.Logger.Error("build form", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeForm(w, r, f, renderer, opts, http.StatusOK)
}

func serveSubmit(w http.ResponseWriter, r *http.Request, factory FormFactory, renderer render.Renderer, opts Options) {
	f, err := factory(r)
	if err != nil {
		opts.Logger.Error("build form", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		opts.Logger.Warn("parse form body", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	values := decodeBody(r.PostForm)
	ctrl := f.Controller()
	if err := ctrl.SetValues(values); err != nil {
		opts.Logger.Warn("apply submitted values", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	status := f.Submit(r.Context())
	logger := opts.Logger.With(
		zap.String("form", ctrl.ID()),
		zap.Int("submit_count", ctrl.SubmitCount()),
	)

	switch status {
	case form.StatusSucceeded:
		logger.Info("form submitted")
		if opts.SuccessURL != "" {
			http.Redirect(w, r, opts.SuccessURL, http.StatusSeeOther)
			return
		}
		writeForm(w, r, f, renderer, opts, http.StatusOK)
	case form.StatusValidationFailed:
		logger.Info("form validation failed", zap.Int("errors", len(ctrl.FieldErrors())))
		writeForm(w, r, f, renderer, opts, http.StatusUnprocessableEntity)
	case form.StatusSkipped:
		logger.Info("duplicate submit ignored")
		writeForm(w, r, f, renderer, opts, http.StatusConflict)
	default:
		logger.Error("form handler failed", zap.String("error", f.GlobalError()))
		writeForm(w, r, f, renderer, opts, http.StatusInternalServerError)
	}
}

func writeForm(w http.ResponseWriter, r *http.Request, f *form.Form, renderer render.Renderer, opts Options, status int) {
	action := opts.Action
	if action == "" {
		action = r.URL.Path
	}

	output, err := renderer.Render(r.Context(), f.View(), render.Options{
		Action:     action,
		Method:     opts.Method,
		Hidden:     opts.Hidden,
		Overlay:    opts.Overlay,
		Controller: f.Controller(),
	})
	if err != nil {
		opts.Logger.Error("render form", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(output); err != nil {
		opts.Logger.Warn("write response", zap.Error(err))
	}
}

// decodeBody converts an urlencoded body into a dotted-path value map.
// Repeated keys become slices; underscore-prefixed keys (method overrides,
// CSRF tokens) are dropped.
func decodeBody(body map[string][]string) map[string]any {
	out := make(map[string]any, len(body))
	for key, values := range body {
		key = strings.TrimSpace(key)
		if key == "" || strings.HasPrefix(key, "_") {
			continue
		}
		switch len(values) {
		case 0:
		case 1:
			out[key] = values[0]
		default:
			items := make([]any, 0, len(values))
			for _, value := range values {
				items = append(items, value)
			}
			out[key] = items
		}
	}
	return out
}
