package schema

import "strings"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// Widget identifiers understood by the built-in renderers. A field with no
// explicit widget falls back to a type-derived default.
const (
	WidgetText     = "text"
	WidgetTextarea = "textarea"
	WidgetPassword = "password"
	WidgetNumber   = "number"
	WidgetSlider   = "slider"
	WidgetRating   = "rating"
	WidgetFile     = "file"
	WidgetMasked   = "masked"
	WidgetCheckbox = "checkbox"
	WidgetSelect   = "select"
	WidgetHidden   = "hidden"
)

// Rule kinds recognised by the validation engine. Numeric bounds and length
// limits encode their threshold in Params["value"]; pattern rules keep the
// expression in Params["pattern"].
const (
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleMinItems  = "minItems"
	RuleMaxItems  = "maxItems"
	RulePattern   = "pattern"
	RuleStep      = "step"
)

// Rule represents a single validation constraint applied to a field.
type Rule struct {
	Kind   string            `json:"kind" yaml:"kind" toml:"kind"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
}

// Field models an individual input inside a form. Struct fields are annotated
// so schema documents can be authored in JSON, YAML, or TOML.
type Field struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Type        FieldType         `json:"type" yaml:"type" toml:"type"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
	Help        string            `json:"help,omitempty" yaml:"help,omitempty" toml:"help,omitempty"`
	Widget      string            `json:"widget,omitempty" yaml:"widget,omitempty" toml:"widget,omitempty"`
	Mask        string            `json:"mask,omitempty" yaml:"mask,omitempty" toml:"mask,omitempty"`
	Required    bool              `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	Default     any               `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty" yaml:"enum,omitempty" toml:"enum,omitempty"`
	Rules       []Rule            `json:"rules,omitempty" yaml:"rules,omitempty" toml:"rules,omitempty"`
	Nested      []Field           `json:"nested,omitempty" yaml:"nested,omitempty" toml:"nested,omitempty"`
	Items       *Field            `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

// Schema is the top-level form description consumed by controllers and
// renderers.
type Schema struct {
	Name        string            `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields" toml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

// Field resolves a dotted path ("owner.email") to its field definition.
// Numeric segments address array items and resolve to the Items definition.
func (s *Schema) Field(path string) (Field, bool) {
	if s == nil || path == "" {
		return Field{}, false
	}
	return findField(s.Fields, strings.Split(path, "."))
}

// Paths returns every addressable field path in declaration order, including
// nested object members. Array item paths are not enumerated since their
// cardinality depends on runtime values.
func (s *Schema) Paths() []string {
	if s == nil {
		return nil
	}
	var out []string
	collectPaths(s.Fields, "", &out)
	return out
}

// DefaultValues builds the initial value tree from field defaults. Fields
// without defaults are omitted entirely so required checks still fire.
func (s *Schema) DefaultValues() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	return defaultsFor(s.Fields)
}

// EffectiveWidget reports the widget a renderer should use for the field,
// deriving one from the type when no explicit widget is set.
func (f Field) EffectiveWidget() string {
	if f.Widget != "" {
		return f.Widget
	}
	if f.Mask != "" {
		return WidgetMasked
	}
	if len(f.Enum) > 0 {
		return WidgetSelect
	}
	switch f.Type {
	case TypeInteger, TypeNumber:
		return WidgetNumber
	case TypeBoolean:
		return WidgetCheckbox
	default:
		return WidgetText
	}
}

// RuleParam fetches a rule's parameter by kind and key, returning "" when the
// rule or parameter is absent.
func (f Field) RuleParam(kind, key string) string {
	for _, rule := range f.Rules {
		if rule.Kind == kind {
			return rule.Params[key]
		}
	}
	return ""
}

func findField(fields []Field, segments []string) (Field, bool) {
	if len(segments) == 0 {
		return Field{}, false
	}
	head := segments[0]
	for _, field := range fields {
		if field.Name != head {
			continue
		}
		if len(segments) == 1 {
			return field, true
		}
		rest := segments[1:]
		if field.Type == TypeArray && field.Items != nil && isIndexSegment(rest[0]) {
			if len(rest) == 1 {
				return *field.Items, true
			}
			if field.Items.Type == TypeObject {
				return findField(field.Items.Nested, rest[1:])
			}
			return Field{}, false
		}
		if len(field.Nested) > 0 {
			return findField(field.Nested, rest)
		}
		return Field{}, false
	}
	return Field{}, false
}

func collectPaths(fields []Field, prefix string, dest *[]string) {
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		path := joinPath(prefix, name)
		*dest = append(*dest, path)
		if len(field.Nested) > 0 {
			collectPaths(field.Nested, path, dest)
		}
	}
}

func defaultsFor(fields []Field) map[string]any {
	out := make(map[string]any)
	for _, field := range fields {
		if field.Type == TypeObject && len(field.Nested) > 0 {
			nested := defaultsFor(field.Nested)
			if len(nested) > 0 {
				out[field.Name] = nested
			}
			continue
		}
		if field.Default != nil {
			out[field.Name] = field.Default
		}
	}
	return out
}

func isIndexSegment(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
