package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formkit/pkg/schema"
)

var (
	bindValidator     *validator.Validate
	bindValidatorOnce sync.Once
)

func structValidator() *validator.Validate {
	bindValidatorOnce.Do(func() {
		bindValidator = validator.New(validator.WithRequiredStructEnabled())
		bindValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return bindValidator
}

// BindStruct decodes a validated value tree into target (a struct pointer)
// and runs its `validate` struct tags, mapping any violations back to dotted
// field paths. It layers typed, application-level constraints on top of the
// schema pass.
func BindStruct(vals map[string]any, target any) (schema.Errors, error) {
	raw, err := json.Marshal(vals)
	if err != nil {
		return nil, fmt.Errorf("form: encode values: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("form: decode into %T: %w", target, err)
	}

	err = structValidator().Struct(target)
	if err == nil {
		return nil, nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return nil, fmt.Errorf("form: validate struct: %w", err)
	}

	mapped := make(schema.Errors, len(violations))
	for _, violation := range violations {
		mapped[fieldPathFromNamespace(violation.Namespace())] = messageForTag(violation)
	}
	return mapped, nil
}

// fieldPathFromNamespace strips the root struct name from a validator
// namespace ("Profile.owner.email" → "owner.email") and normalises slice
// indices ("tags[0]" → "tags.0").
func fieldPathFromNamespace(namespace string) string {
	path := namespace
	if idx := strings.Index(path, "."); idx >= 0 {
		path = path[idx+1:]
	}
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	return path
}

func messageForTag(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + violation.Param()
	case "max":
		return "Must be at most " + violation.Param()
	case "email":
		return "Must be a valid email address"
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(violation.Param()), ", ")
	case "url":
		return "Must be a valid URL"
	default:
		return "Is not valid"
	}
}
