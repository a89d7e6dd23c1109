//go:build !formkit_inspect

package inspector

// New returns the inspector for this build. Without the formkit_inspect
// build tag it records nothing.
func New() Inspector {
	return noop{}
}

type noop struct{}

func (noop) Enabled() bool         { return false }
func (noop) Record(Snapshot)       {}
func (noop) Snapshots() []Snapshot { return nil }
func (noop) Panel() string         { return "" }
