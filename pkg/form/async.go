package form

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrSubmitInFlight is reported through LastErr when a submit attempt is
// ignored because another one has not settled yet.
var ErrSubmitInFlight = errors.New("form: submit already in flight")

// AsyncOption customises an AsyncForm.
type AsyncOption func(*AsyncForm)

// WithRetryAttempts retries a failing submit handler up to n total attempts
// before the failure is surfaced. Retries are opt-in; the default is a
// single attempt.
func WithRetryAttempts(n uint) AsyncOption {
	return func(a *AsyncForm) { a.attempts = n }
}

// WithRetryDelay sets the base delay between retry attempts.
func WithRetryDelay(d time.Duration) AsyncOption {
	return func(a *AsyncForm) { a.delay = d }
}

// AsyncForm decorates a Form with a busy flag that is true strictly while
// the submit handler is executing: set immediately before invocation and
// cleared in a deferred path once the handler settles, success or failure.
// Error handling is delegated to the underlying Form untouched.
//
// A second Submit while one is in flight is ignored (StatusSkipped); there
// is no queueing.
type AsyncForm struct {
	*Form

	busy     atomic.Bool
	inFlight atomic.Bool
	attempts uint
	delay    time.Duration
}

// NewAsync wraps an existing form. The form's submit handler is decorated
// with the busy-flag bookkeeping and, when configured, a retry policy.
func NewAsync(f *Form, opts ...AsyncOption) *AsyncForm {
	a := &AsyncForm{Form: f}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	inner := f.onSubmit
	f.onSubmit = func(ctx context.Context, vals map[string]any) error {
		a.busy.Store(true)
		defer a.busy.Store(false)

		if a.attempts > 1 {
			return retry.Do(
				func() error { return inner(ctx, vals) },
				retry.Attempts(a.attempts),
				retry.Delay(a.delay),
				retry.Context(ctx),
				retry.LastErrorOnly(true),
			)
		}
		return inner(ctx, vals)
	}
	return a
}

// Busy reports whether a submit handler is currently executing.
func (a *AsyncForm) Busy() bool {
	return a.busy.Load()
}

// Submit runs the underlying form pipeline, ignoring duplicate attempts
// while one is in flight.
func (a *AsyncForm) Submit(ctx context.Context) Status {
	if !a.inFlight.CompareAndSwap(false, true) {
		return StatusSkipped
	}
	defer a.inFlight.Store(false)
	return a.Form.Submit(ctx)
}

// View snapshots the form state including the live busy flag.
func (a *AsyncForm) View() View {
	view := a.Form.View()
	view.Busy = a.Busy()
	return view
}
