package form

import "context"

type contextKey struct{}

// NewContext returns a context carrying the controller handle, scoping it to
// the subtree of work done on behalf of this form instance.
func NewContext(ctx context.Context, ctrl *Controller) context.Context {
	return context.WithValue(ctx, contextKey{}, ctrl)
}

// FromContext retrieves the ambient controller handle, reporting false when
// the context carries none.
func FromContext(ctx context.Context) (*Controller, bool) {
	ctrl, ok := ctx.Value(contextKey{}).(*Controller)
	return ctrl, ok
}

// MustFromContext retrieves the ambient controller handle and panics with a
// descriptive message when called outside a form scope. Reaching for a
// controller that was never installed is a programmer error, not a runtime
// condition to recover from.
func MustFromContext(ctx context.Context) *Controller {
	ctrl, ok := FromContext(ctx)
	if !ok {
		panic("form: no controller in context; wrap the context with form.NewContext inside a form scope")
	}
	return ctrl
}
