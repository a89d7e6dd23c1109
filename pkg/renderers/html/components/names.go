package components

// Canonical component names used by the HTML renderer and default registry.
// The scalar names line up with the widget identifiers declared in
// pkg/schema; object and array are structural and resolved from the field
// type rather than its widget.
const (
	NameText     = "text"
	NameTextarea = "textarea"
	NamePassword = "password"
	NameNumber   = "number"
	NameSlider   = "slider"
	NameRating   = "rating"
	NameFile     = "file"
	NameMasked   = "masked"
	NameCheckbox = "checkbox"
	NameSelect   = "select"
	NameHidden   = "hidden"
	NameObject   = "object"
	NameArray    = "array"
)
