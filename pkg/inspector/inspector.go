// Package inspector captures form state snapshots for debugging during
// development. The full recorder and HTML panel compile only under the
// formkit_inspect build tag; release builds get a no-op that keeps
// instrumentation call sites free.
package inspector

import (
	"time"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Snapshot is a point-in-time copy of a form's observable state.
type Snapshot struct {
	Taken       time.Time
	FormID      string
	Values      map[string]any
	Errors      map[string]string
	Touched     []string
	Dirty       []string
	SubmitCount int
	Busy        bool
	GlobalError string
}

// Inspector records snapshots from instrumented forms.
type Inspector interface {
	// Enabled reports whether recording is active; callers can skip
	// Capture entirely when it is not.
	Enabled() bool

	// Record stores a snapshot.
	Record(snapshot Snapshot)

	// Snapshots returns the recorded history, oldest first.
	Snapshots() []Snapshot

	// Panel renders the recorded history as an HTML fragment suitable for
	// embedding next to a rendered form. Empty when disabled.
	Panel() string
}

// Capture builds a snapshot from a form's view and controller state.
func Capture(f *form.Form) Snapshot {
	view := f.View()
	ctrl := f.Controller()

	var touched, dirty []string
	if view.Schema != nil {
		for _, path := range view.Schema.Paths() {
			if ctrl.Touched(path) {
				touched = append(touched, path)
			}
			if ctrl.Dirty(path) {
				dirty = append(dirty, path)
			}
		}
	}

	return Snapshot{
		Taken:       time.Now(),
		FormID:      view.ID,
		Values:      view.Values,
		Errors:      view.FieldErrors,
		Touched:     touched,
		Dirty:       dirty,
		SubmitCount: ctrl.SubmitCount(),
		Busy:        view.Busy,
		GlobalError: view.GlobalError,
	}
}
