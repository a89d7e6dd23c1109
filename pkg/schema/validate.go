package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-formkit/pkg/values"
)

// Errors maps dotted field paths to a single human-readable message each. At
// most one message is recorded per path, so len(Errors) is the count of
// distinct offending fields.
type Errors map[string]string

// Error implements the error interface with an aggregate summary.
func (e Errors) Error() string {
	if len(e) == 1 {
		return "1 validation error"
	}
	return fmt.Sprintf("%d validation errors", len(e))
}

// Paths returns the offending field paths in unspecified order.
func (e Errors) Paths() []string {
	if len(e) == 0 {
		return nil
	}
	paths := make([]string, 0, len(e))
	for path := range e {
		paths = append(paths, path)
	}
	return paths
}

// Result carries the outcome of a validation pass: the coerced value tree on
// success, and per-field messages on failure.
type Result struct {
	Values map[string]any
	Errors Errors
}

// Valid reports whether the pass produced no errors.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks a raw value tree against the schema. String inputs are
// coerced into the declared types (form posts arrive as strings) before rule
// evaluation, so Result.Values holds the typed tree handlers should consume,
// never the raw input.
func (s *Schema) Validate(raw map[string]any) Result {
	result := Result{Errors: make(Errors)}
	if s == nil {
		result.Values = map[string]any{}
		return result
	}

	in := values.New(raw)
	out := values.New(nil)
	validateFields(s.Fields, "", in, out, result.Errors)

	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	result.Values = out.Map()
	return result
}

// ValidateField runs a single field's checks against a raw value, returning
// the error message or "" when the value passes. Controllers use this for
// blur/change validation without paying for a full pass.
func (s *Schema) ValidateField(path string, raw any) string {
	field, ok := s.Field(path)
	if !ok {
		return ""
	}
	errs := make(Errors)
	out := values.New(nil)
	validateValue(field, path, raw, raw != nil, out, treeAt(path, raw), errs)
	return errs[path]
}

func validateFields(fields []Field, prefix string, in, out *values.Tree, errs Errors) {
	for _, field := range fields {
		path := joinPath(prefix, field.Name)
		rawValue, present := in.Get(path)
		validateValue(field, path, rawValue, present, out, in, errs)
	}
}

func validateValue(field Field, path string, rawValue any, present bool, out, in *values.Tree, errs Errors) {
	switch field.Type {
	case TypeObject:
		nested, ok := rawValue.(map[string]any)
		if field.Required && (!present || !ok || len(nested) == 0) {
			errs[path] = "This field is required"
			return
		}
		if in == nil {
			in = values.New(nil)
		}
		validateFields(field.Nested, path, in, out, errs)
		return

	case TypeArray:
		validateArray(field, path, rawValue, present, out, errs)
		return

	case TypeBoolean:
		// Unchecked checkboxes are simply absent from the post body.
		checked := present && coerceBool(rawValue)
		if field.Required && !checked {
			errs[path] = "This field is required"
			return
		}
		out.Set(path, checked)
		return
	}

	if isEmpty(rawValue) {
		if field.Default != nil {
			out.Set(path, field.Default)
			return
		}
		if field.Required {
			errs[path] = "This field is required"
		}
		return
	}

	coerced, typeErr := coerceScalar(field.Type, rawValue)
	if typeErr != "" {
		errs[path] = typeErr
		return
	}
	if msg := checkRules(field, coerced); msg != "" {
		errs[path] = msg
		return
	}
	out.Set(path, coerced)
}

func validateArray(field Field, path string, rawValue any, present bool, out *values.Tree, errs Errors) {
	items := toSlice(rawValue)
	if !present || len(items) == 0 {
		if field.Required {
			errs[path] = "This field is required"
			return
		}
		if msg := checkItemCount(field, 0); msg != "" {
			errs[path] = msg
		}
		return
	}

	if msg := checkItemCount(field, len(items)); msg != "" {
		errs[path] = msg
		return
	}

	for idx, item := range items {
		itemPath := path + "." + strconv.Itoa(idx)
		if field.Items == nil {
			out.Set(itemPath, item)
			continue
		}
		itemField := *field.Items
		itemField.Required = true
		validateValue(itemField, itemPath, item, true, out, treeAt(itemPath, item), errs)
	}
}

// treeAt builds a tree where the given dotted path resolves to value, so
// nested object validation inside array items can address absolute paths.
func treeAt(path string, value any) *values.Tree {
	tree := values.New(nil)
	tree.Set(path, value)
	return tree
}

func checkItemCount(field Field, count int) string {
	if raw := field.RuleParam(RuleMinItems, "value"); raw != "" {
		if min, err := strconv.Atoi(raw); err == nil && count < min {
			return fmt.Sprintf("Must have at least %d items", min)
		}
	}
	if raw := field.RuleParam(RuleMaxItems, "value"); raw != "" {
		if max, err := strconv.Atoi(raw); err == nil && count > max {
			return fmt.Sprintf("Must have at most %d items", max)
		}
	}
	return ""
}

func checkRules(field Field, value any) string {
	if len(field.Enum) > 0 && !enumContains(field.Enum, value) {
		return "Must be one of: " + enumList(field.Enum)
	}
	if field.Mask != "" {
		if text, ok := value.(string); ok && !maskMatches(field.Mask, text) {
			return "Does not match the expected format"
		}
	}

	for _, rule := range field.Rules {
		switch rule.Kind {
		case RuleMin:
			if num, ok := asFloat(value); ok {
				if min, err := strconv.ParseFloat(rule.Params["value"], 64); err == nil && num < min {
					return "Must be at least " + rule.Params["value"]
				}
			}
		case RuleMax:
			if num, ok := asFloat(value); ok {
				if max, err := strconv.ParseFloat(rule.Params["value"], 64); err == nil && num > max {
					return "Must be at most " + rule.Params["value"]
				}
			}
		case RuleMinLength:
			if text, ok := value.(string); ok {
				if min, err := strconv.Atoi(rule.Params["value"]); err == nil && len([]rune(text)) < min {
					return fmt.Sprintf("Must be at least %d characters", min)
				}
			}
		case RuleMaxLength:
			if text, ok := value.(string); ok {
				if max, err := strconv.Atoi(rule.Params["value"]); err == nil && len([]rune(text)) > max {
					return fmt.Sprintf("Must be at most %d characters", max)
				}
			}
		case RulePattern:
			if text, ok := value.(string); ok {
				re, err := regexp.Compile(rule.Params["pattern"])
				if err == nil && !re.MatchString(text) {
					return "Does not match the expected format"
				}
			}
		case RuleStep:
			if msg := checkStep(field, rule, value); msg != "" {
				return msg
			}
		}
	}
	return ""
}

func checkStep(field Field, rule Rule, value any) string {
	num, ok := asFloat(value)
	if !ok {
		return ""
	}
	step, err := strconv.ParseFloat(rule.Params["value"], 64)
	if err != nil || step <= 0 {
		return ""
	}
	base := 0.0
	if raw := field.RuleParam(RuleMin, "value"); raw != "" {
		if min, err := strconv.ParseFloat(raw, 64); err == nil {
			base = min
		}
	}
	remainder := math.Mod(num-base, step)
	if math.Abs(remainder) > 1e-9 && math.Abs(remainder-step) > 1e-9 {
		return "Must be a multiple of " + rule.Params["value"]
	}
	return ""
}

func coerceScalar(fieldType FieldType, value any) (any, string) {
	switch fieldType {
	case TypeInteger:
		switch typed := value.(type) {
		case int:
			return typed, ""
		case int64:
			return int(typed), ""
		case float64:
			if typed == math.Trunc(typed) {
				return int(typed), ""
			}
			return nil, "Must be a whole number"
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(typed))
			if err != nil {
				return nil, "Must be a whole number"
			}
			return parsed, ""
		default:
			return nil, "Must be a whole number"
		}
	case TypeNumber:
		if num, ok := asFloat(value); ok {
			return num, ""
		}
		if text, ok := value.(string); ok {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil {
				return nil, "Must be a number"
			}
			return parsed, ""
		}
		return nil, "Must be a number"
	default:
		if text, ok := value.(string); ok {
			return text, ""
		}
		return fmt.Sprint(value), ""
	}
}

func coerceBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "on", "true", "1", "yes":
			return true
		}
		return false
	default:
		return false
	}
}

func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}

func toSlice(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []string:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = item
		}
		return out
	default:
		return nil
	}
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text) == ""
	}
	return false
}

func enumContains(enum []any, value any) bool {
	for _, candidate := range enum {
		if fmt.Sprint(candidate) == fmt.Sprint(value) {
			return true
		}
	}
	return false
}

func enumList(enum []any) string {
	parts := make([]string, 0, len(enum))
	for _, candidate := range enum {
		parts = append(parts, fmt.Sprint(candidate))
	}
	return strings.Join(parts, ", ")
}

// maskMatches checks a value against a literal mask where '#' accepts a
// digit, 'A' a letter, '*' any character, and every other rune must match
// itself. Used for national-ID style inputs.
func maskMatches(mask, value string) bool {
	maskRunes := []rune(mask)
	valueRunes := []rune(value)
	if len(maskRunes) != len(valueRunes) {
		return false
	}
	for idx, m := range maskRunes {
		r := valueRunes[idx]
		switch m {
		case '#':
			if !unicode.IsDigit(r) {
				return false
			}
		case 'A':
			if !unicode.IsLetter(r) {
				return false
			}
		case '*':
			// any
		default:
			if m != r {
				return false
			}
		}
	}
	return true
}
