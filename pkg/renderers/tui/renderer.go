package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/values"
)

// Renderer implements render.Renderer for terminal-driven sessions: it
// prompts for each schema field, validates answers as they arrive and
// serializes the collected value tree.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	pageSize     int
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver()
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for each field in the view's schema and returns the
// serialized value tree. Existing view values become prompt defaults.
func (r *Renderer) Render(ctx context.Context, view form.View, _ render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if view.Schema == nil {
		return nil, errors.New("tui: view has no schema")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	tree := values.New(view.Values)
	if err := r.Collect(ctx, view.Schema, tree); err != nil {
		return nil, err
	}
	return r.serialize(tree)
}

// Collect walks the schema prompting for every field and stores answers in
// the provided tree.
func (r *Renderer) Collect(ctx context.Context, s *schema.Schema, tree *values.Tree) error {
	for _, field := range s.Fields {
		if err := r.promptField(ctx, s, field, field.Name, tree); err != nil {
			return err
		}
	}
	return nil
}

// Prompt asks for a single field at the given path, validating and storing
// the answer. Used by callers that reprompt only failing fields.
func (r *Renderer) Prompt(ctx context.Context, s *schema.Schema, path string, tree *values.Tree) error {
	field, ok := s.Field(path)
	if !ok {
		return fmt.Errorf("tui: unknown field %q", path)
	}
	return r.promptField(ctx, s, field, path, tree)
}

func (r *Renderer) promptField(ctx context.Context, s *schema.Schema, field schema.Field, path string, tree *values.Tree) error {
	switch field.Type {
	case schema.TypeObject:
		return r.promptObject(ctx, s, field, path, tree)
	case schema.TypeArray:
		return r.promptArray(ctx, s, field, path, tree)
	}

	switch field.EffectiveWidget() {
	case schema.WidgetHidden:
		// Hidden fields keep their seeded or default value.
		if _, ok := tree.Get(path); !ok && field.Default != nil {
			return tree.Set(path, field.Default)
		}
		return nil
	case schema.WidgetCheckbox:
		return r.promptBool(ctx, s, field, path, tree)
	case schema.WidgetSelect:
		return r.promptSelect(ctx, s, field, path, tree)
	case schema.WidgetNumber, schema.WidgetSlider, schema.WidgetRating:
		return r.promptNumber(ctx, s, field, path, tree)
	case schema.WidgetPassword:
		return r.promptString(ctx, s, field, path, tree, promptPassword)
	case schema.WidgetTextarea:
		return r.promptString(ctx, s, field, path, tree, promptTextArea)
	default:
		return r.promptString(ctx, s, field, path, tree, promptInput)
	}
}

type promptKind int

const (
	promptInput promptKind = iota
	promptPassword
	promptTextArea
)

func (r *Renderer) promptString(ctx context.Context, s *schema.Schema, field schema.Field, path string, tree *values.Tree, kind promptKind) error {
	label := displayLabel(field)
	help := displayHelp(field)
	defaultVal := stringValueAt(tree, path, field.Default)

	for {
		var response string
		var err error
		switch kind {
		case promptPassword:
			response, err = r.driver.Password(ctx, InputConfig{Message: label, Help: help})
		case promptTextArea:
			response, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: defaultVal, Help: help})
		default:
			response, err = r.driver.Input(ctx, InputConfig{
				Message:     label,
				Default:     defaultVal,
				Help:        help,
				Placeholder: field.Placeholder,
			})
		}
		if err != nil {
			return err
		}

		if msg := s.ValidateField(path, response); msg != "" {
			if err := r.driver.Info(ctx, invalidMessage(path, msg)); err != nil {
				return err
			}
			continue
		}

		if strings.TrimSpace(response) == "" && field.Default != nil {
			return tree.Set(path, field.Default)
		}
		return tree.Set(path, response)
	}
}

func (r *Renderer) promptBool(ctx context.Context, s *schema.Schema, field schema.Field, path string, tree *values.Tree) error {
	label := displayLabel(field)
	help := displayHelp(field)

	defaultVal := false
	if current, ok := tree.Get(path); ok {
		if b, ok := current.(bool); ok {
			defaultVal = b
		}
	} else if b, ok := field.Default.(bool); ok {
		defaultVal = b
	}

	for {
		response, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: defaultVal, Help: help})
		if err != nil {
			return err
		}
		if msg := s.ValidateField(path, response); msg != "" {
			if err := r.driver.Info(ctx, invalidMessage(path, msg)); err != nil {
				return err
			}
			continue
		}
		return tree.Set(path, response)
	}
}

func (r *Renderer) promptNumber(ctx context.Context, s *schema.Schema, field schema.Field, path string, tree *values.Tree) error {
	label := displayLabel(field)
	help := displayHelp(field)
	if hint := rangeHint(field); hint != "" {
		if help != "" {
			help += " "
		}
		help += hint
	}
	defaultVal := stringValueAt(tree, path, field.Default)

	for {
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: defaultVal, Help: help})
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			if field.Default != nil {
				return tree.Set(path, field.Default)
			}
			if !field.Required {
				return tree.Delete(path)
			}
			if err := r.driver.Info(ctx, invalidMessage(path, "This field is required")); err != nil {
				return err
			}
			continue
		}

		var parsed any
		if field.Type == schema.TypeInteger {
			i, err := strconv.ParseInt(trimmed, 10, 64)
			if err != nil {
				if err := r.driver.Info(ctx, invalidMessage(path, "Must be a whole number")); err != nil {
					return err
				}
				continue
			}
			parsed = int(i)
		} else {
			f, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				if err := r.driver.Info(ctx, invalidMessage(path, "Must be a number")); err != nil {
					return err
				}
				continue
			}
			parsed = f
		}

		if msg := s.ValidateField(path, parsed); msg != "" {
			if err := r.driver.Info(ctx, invalidMessage(path, msg)); err != nil {
				return err
			}
			continue
		}
		return tree.Set(path, parsed)
	}
}

func (r *Renderer) promptSelect(ctx context.Context, s *schema.Schema, field schema.Field, path string, tree *values.Tree) error {
	label := displayLabel(field)
	help := displayHelp(field)
	options := stringifyEnum(field.Enum)

	defaultIdx := -1
	if current := stringValueAt(tree, path, field.Default); current != "" {
		defaultIdx = indexOf(options, current)
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         help,
			PageSize:     r.pageSize,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			if err := r.driver.Info(ctx, invalidMessage(path, "Invalid selection")); err != nil {
				return err
			}
			continue
		}
		selected := options[idx]
		if msg := s.ValidateField(path, selected); msg != "" {
			if err := r.driver.Info(ctx, invalidMessage(path, msg)); err != nil {
				return err
			}
			continue
		}
		return tree.Set(path, selected)
	}
}

func (r *Renderer) promptObject(ctx context.Context, s *schema.Schema, field schema.Field, path string, tree *values.Tree) error {
	for _, nested := range field.Nested {
		if err := r.promptField(ctx, s, nested, path+"."+nested.Name, tree); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptArray(ctx context.Context, s *schema.Schema, field schema.Field, path string, tree *values.Tree) error {
	if field.Items == nil {
		return fmt.Errorf("tui: array field %q has no item definition", path)
	}

	// Enum-backed arrays collapse into a multi-select of known options.
	if len(field.Items.Enum) > 0 {
		options := stringifyEnum(field.Items.Enum)
		defaults := indicesOf(options, stringifySlice(sliceValueAt(tree, path)))
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  displayLabel(field),
			Options:  options,
			Defaults: defaults,
			Help:     displayHelp(field),
			PageSize: r.pageSize,
		})
		if err != nil {
			return err
		}
		selected := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(options) {
				selected = append(selected, options[idx])
			}
		}
		return tree.Set(path, selected)
	}

	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.Name
	}
	if err := tree.Set(path, []any{}); err != nil {
		return err
	}
	for idx := 0; ; idx++ {
		more, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add %s entry #%d?", label, idx+1),
			Default: idx == 0,
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		itemPath := path + "." + strconv.Itoa(idx)
		if err := r.promptField(ctx, s, *field.Items, itemPath, tree); err != nil {
			return err
		}
	}
}

func (r *Renderer) serialize(tree *values.Tree) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		flat := tree.Flatten()
		encoded := url.Values{}
		for path, value := range flat {
			encoded.Set(path, fmt.Sprint(value))
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		flat := tree.Flatten()
		paths := make([]string, 0, len(flat))
		for path := range flat {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		var builder strings.Builder
		for _, path := range paths {
			builder.WriteString(path)
			builder.WriteString(": ")
			builder.WriteString(fmt.Sprint(flat[path]))
			builder.WriteByte('\n')
		}
		return []byte(builder.String()), nil
	default:
		return json.Marshal(tree.Map())
	}
}

func displayLabel(field schema.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.Name
}

func displayHelp(field schema.Field) string {
	return strings.TrimSpace(field.Help)
}

func invalidMessage(path, msg string) string {
	return fmt.Sprintf("Invalid %s: %s", path, msg)
}

func rangeHint(field schema.Field) string {
	min := field.RuleParam(schema.RuleMin, "value")
	max := field.RuleParam(schema.RuleMax, "value")
	switch {
	case min != "" && max != "":
		return fmt.Sprintf("(%s-%s)", min, max)
	case min != "":
		return fmt.Sprintf("(>= %s)", min)
	case max != "":
		return fmt.Sprintf("(<= %s)", max)
	default:
		return ""
	}
}

func stringValueAt(tree *values.Tree, path string, fallback any) string {
	if value, ok := tree.Get(path); ok && value != nil {
		return fmt.Sprint(value)
	}
	if fallback != nil {
		return fmt.Sprint(fallback)
	}
	return ""
}

func sliceValueAt(tree *values.Tree, path string) []any {
	if value, ok := tree.Get(path); ok {
		if items, ok := value.([]any); ok {
			return items
		}
	}
	return nil
}

func stringifyEnum(enum []any) []string {
	out := make([]string, 0, len(enum))
	for _, value := range enum {
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func stringifySlice(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}
