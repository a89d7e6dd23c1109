package form

import (
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/values"
)

// Mode selects when field-level validation runs relative to user input
// events.
type Mode string

const (
	// ModeOnBlur validates a field when it loses focus, then re-validates it
	// on every change once touched. This is the default.
	ModeOnBlur Mode = "onBlur"
	// ModeOnChange validates a field on every change.
	ModeOnChange Mode = "onChange"
	// ModeOnSubmit defers all validation to submit time.
	ModeOnSubmit Mode = "onSubmit"
)

// Controller owns per-field state for one form instance: current values,
// touched/dirty flags, and field-level error messages. It exposes the
// imperative API descendants use to read and write fields. All methods are
// safe for concurrent use, though a controller is typically confined to a
// single request or event loop.
type Controller struct {
	mu sync.Mutex

	id       string
	schema   *schema.Schema
	mode     Mode
	defaults map[string]any
	values   *values.Tree

	touched map[string]bool
	dirty   map[string]bool
	errors  map[string]string

	submitCount int
}

func newController(s *schema.Schema, id string, mode Mode, defaults map[string]any) *Controller {
	if id == "" {
		id = "form-" + uuid.NewString()
	}
	if mode == "" {
		mode = ModeOnBlur
	}
	return &Controller{
		id:       id,
		schema:   s,
		mode:     mode,
		defaults: defaults,
		values:   values.New(defaults),
		touched:  make(map[string]bool),
		dirty:    make(map[string]bool),
		errors:   make(map[string]string),
	}
}

// ID returns the form instance identifier.
func (c *Controller) ID() string {
	return c.id
}

// Schema returns the schema the controller validates against.
func (c *Controller) Schema() *schema.Schema {
	return c.schema
}

// Mode returns the configured validation timing mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Value resolves the current value at a dotted path.
func (c *Controller) Value(path string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Get(path)
}

// Values returns a deep copy of the current value tree.
func (c *Controller) Values() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Clone().Map()
}

// SetValue records user input at a dotted path and marks the field dirty.
// Depending on the validation mode the field is re-validated immediately.
func (c *Controller) SetValue(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.values.Set(path, value); err != nil {
		return err
	}
	c.dirty[path] = true

	switch c.mode {
	case ModeOnChange:
		c.revalidateLocked(path)
	case ModeOnBlur:
		if c.touched[path] {
			c.revalidateLocked(path)
		}
	}
	return nil
}

// SetValues bulk-writes a flat path→value map, typically from a decoded POST
// body. Fields are marked dirty but not touched; validation is deferred.
func (c *Controller) SetValues(flat map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path, value := range flat {
		if err := c.values.Set(path, value); err != nil {
			return err
		}
		c.dirty[path] = true
	}
	return nil
}

// ApplyPatch applies an RFC 6902 patch to the value tree for programmatic
// prefill.
func (c *Controller) ApplyPatch(patch []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.ApplyPatch(patch)
}

// Blur marks a field as touched. Under ModeOnBlur and ModeOnChange the field
// is validated immediately.
func (c *Controller) Blur(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.touched[path] = true
	if c.mode != ModeOnSubmit {
		c.revalidateLocked(path)
	}
}

// Touched reports whether the field has received focus and lost it at least
// once.
func (c *Controller) Touched(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched[path]
}

// Dirty reports whether the field value changed since the last reset.
func (c *Controller) Dirty(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty[path]
}

// FieldError returns the current validation message for a field, or "".
func (c *Controller) FieldError(path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors[path]
}

// FieldErrors returns a copy of all current field-level messages.
func (c *Controller) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.errors))
	for path, msg := range c.errors {
		out[path] = msg
	}
	return out
}

// SubmitCount reports how many submit attempts ran since construction.
func (c *Controller) SubmitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitCount
}

// Reset restores every field to its default value and clears touched, dirty,
// and error state.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values.Replace(c.defaults)
	c.touched = make(map[string]bool)
	c.dirty = make(map[string]bool)
	c.errors = make(map[string]string)
}

// validate runs a full schema pass over the current values and records the
// resulting field errors.
func (c *Controller) validate() schema.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.submitCount++
	result := c.schema.Validate(c.values.Map())

	c.errors = make(map[string]string)
	for path, msg := range result.Errors {
		c.errors[path] = msg
	}
	return result
}

func (c *Controller) revalidateLocked(path string) {
	raw, _ := c.values.Get(path)
	if msg := c.schema.ValidateField(path, raw); msg != "" {
		c.errors[path] = msg
	} else {
		delete(c.errors, path)
	}
}
