package html

// ChromeClass is a typed identifier for semantic chrome CSS classes. The
// renderer emits them alongside the utility classes so stylesheets can hook
// structural elements without depending on the utility framework.
type ChromeClass string

const (
	ClassForm    ChromeClass = "formkit-form"
	ClassHeader  ChromeClass = "formkit-header"
	ClassField   ChromeClass = "formkit-field"
	ClassActions ChromeClass = "formkit-actions"
	ClassErrors  ChromeClass = "formkit-errors"
	ClassGrid    ChromeClass = "formkit-grid"
	ClassOverlay ChromeClass = "formkit-overlay"
)

const (
	DefaultFormClass    = string(ClassForm)
	DefaultHeaderClass  = string(ClassHeader)
	DefaultFieldClass   = string(ClassField)
	DefaultActionsClass = string(ClassActions)
	DefaultErrorsClass  = string(ClassErrors)
	DefaultGridClass    = string(ClassGrid)
	DefaultOverlayClass = string(ClassOverlay)
)
