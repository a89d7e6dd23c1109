package html

import (
	"bytes"
	"encoding/json"
	"fmt"
	stdhtml "html"
	"slices"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	rendertemplate "github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/renderers/html/components"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/values"
)

// componentConfigMetadataKey names the field metadata entry carrying a JSON
// blob of component-specific configuration.
const componentConfigMetadataKey = "componentConfig"

// componentMetadataKey names the field metadata entry that forces a
// specific component regardless of the field's widget.
const componentMetadataKey = "component"

type fieldRendererConfig struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
	policy    *bluemonday.Policy
	values    *values.Tree
	errors    map[string][]string
	theme     *theme.RendererConfig
}

type fieldRenderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
	policy    *bluemonday.Policy
	values    *values.Tree
	errors    map[string][]string
	partials  map[string]string

	usedComponents map[string]struct{}
}

func newFieldRenderer(cfg fieldRendererConfig) *fieldRenderer {
	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	var partials map[string]string
	if cfg.theme != nil {
		partials = cloneStringMap(cfg.theme.Partials)
	}
	return &fieldRenderer{
		templates:      cfg.templates,
		registry:       registry,
		overrides:      cloneStringMap(cfg.overrides),
		policy:         cfg.policy,
		values:         cfg.values,
		errors:         cfg.errors,
		partials:       partials,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *fieldRenderer) render(field schema.Field, path string) (string, error) {
	componentName := r.componentFor(field, path)

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, path)
	}

	config, err := parseComponentConfig(field.Metadata[componentConfigMetadataKey])
	if err != nil {
		return "", fmt.Errorf("parse component config for field %q: %w", path, err)
	}

	var value any
	if r.values != nil {
		value, _ = r.values.Get(path)
	}

	data := components.ComponentData{
		Template:      r.templates,
		RenderChild:   r.render,
		Config:        config,
		Path:          path,
		ControlID:     controlID(path),
		Value:         value,
		Errors:        r.errors[path],
		Sanitize:      r.sanitize,
		ThemePartials: r.partials,
	}

	control, err := r.renderControl(descriptor, componentName, field, data)
	if err != nil {
		return "", err
	}

	r.usedComponents[componentName] = struct{}{}

	if componentName == components.NameHidden {
		return control + "\n", nil
	}
	return r.buildFieldMarkup(field, componentName, control, data), nil
}

// componentFor resolves which component renders a field: per-path or
// per-name override first, then metadata pin, then the field type for
// structural fields, then the schema widget.
func (r *fieldRenderer) componentFor(field schema.Field, path string) string {
	if len(r.overrides) > 0 {
		if name := r.overrides[path]; name != "" {
			return name
		}
		if name := r.overrides[field.Name]; name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(field.Metadata[componentMetadataKey]); name != "" {
		return name
	}
	switch field.Type {
	case schema.TypeObject:
		return components.NameObject
	case schema.TypeArray:
		return components.NameArray
	}
	if widget := field.EffectiveWidget(); widget != "" {
		return widget
	}
	return components.NameText
}

func (r *fieldRenderer) renderControl(descriptor components.Descriptor, componentName string, field schema.Field, data components.ComponentData) (string, error) {
	templateName := descriptor.Template
	if r.partials != nil {
		if candidate := strings.TrimSpace(r.partials[componentName]); candidate != "" {
			templateName = candidate
		}
	}

	if templateName != "" && r.templates != nil {
		payload := map[string]any{
			"field":  field,
			"path":   data.Path,
			"value":  data.Value,
			"errors": data.Errors,
			"config": data.Config,
		}
		rendered, err := r.templates.RenderTemplate(templateName, payload)
		if err != nil {
			return "", fmt.Errorf("render component template %q for field %q: %w", templateName, data.Path, err)
		}
		return rendered, nil
	}

	if descriptor.Renderer == nil {
		return "", fmt.Errorf("component %q has no renderer and no usable template for field %q", componentName, data.Path)
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, data.Path, err)
	}
	return control.String(), nil
}

func (r *fieldRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

func (r *fieldRenderer) sanitize(markup string) string {
	if r.policy == nil {
		return stdhtml.EscapeString(markup)
	}
	return r.policy.Sanitize(markup)
}

func (r *fieldRenderer) buildFieldMarkup(field schema.Field, componentName, control string, data components.ComponentData) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="`)
	builder.WriteString(DefaultFieldClass)
	builder.WriteString(` grid gap-2`)
	if cls := strings.TrimSpace(field.Metadata["class"]); cls != "" {
		builder.WriteByte(' ')
		builder.WriteString(stdhtml.EscapeString(cls))
	}
	builder.WriteString(`" data-field="`)
	builder.WriteString(stdhtml.EscapeString(data.Path))
	builder.WriteString(`" data-component="`)
	builder.WriteString(stdhtml.EscapeString(componentName))
	builder.WriteString(`"`)
	builder.WriteString(">\n")

	checkbox := componentName == components.NameCheckbox

	switch labelModeFor(field, componentName) {
	case labelForControl:
		builder.WriteString(`    <label for="`)
		builder.WriteString(stdhtml.EscapeString(data.ControlID))
		builder.WriteString(`" class="text-sm font-medium text-gray-900">`)
		builder.WriteString(stdhtml.EscapeString(field.Label))
		if field.Required {
			builder.WriteString(` *`)
		}
		builder.WriteString("</label>\n")
	case labelPlain:
		// Group-style components have no single labelable control.
		builder.WriteString(`    <div class="text-sm font-medium text-gray-900">`)
		builder.WriteString(stdhtml.EscapeString(field.Label))
		if field.Required {
			builder.WriteString(` *`)
		}
		builder.WriteString("</div>\n")
	}

	if checkbox {
		builder.WriteString(`    <div class="flex items-center gap-2">`)
		builder.WriteByte('\n')
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if checkbox {
		if label := strings.TrimSpace(field.Label); label != "" {
			builder.WriteString(`        <label for="`)
			builder.WriteString(stdhtml.EscapeString(data.ControlID))
			builder.WriteString(`" class="text-sm text-gray-700">`)
			builder.WriteString(stdhtml.EscapeString(label))
			if field.Required {
				builder.WriteString(` *`)
			}
			builder.WriteString("</label>\n")
		}
		builder.WriteString("    </div>\n")
	}

	for _, message := range data.Errors {
		builder.WriteString(`    <p id="`)
		builder.WriteString(stdhtml.EscapeString(data.ControlID))
		builder.WriteString(`-error" class="text-sm text-red-600" data-field-error>`)
		builder.WriteString(stdhtml.EscapeString(message))
		builder.WriteString("</p>\n")
	}

	// Structural components fold help into their own chrome.
	if componentName != components.NameObject {
		if help := strings.TrimSpace(field.Help); help != "" {
			builder.WriteString(`    <small class="text-sm text-gray-500">`)
			builder.WriteString(r.sanitize(help))
			builder.WriteString("</small>\n")
		}
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

type labelMode int

const (
	labelNone labelMode = iota
	labelForControl
	labelPlain
)

func labelModeFor(field schema.Field, componentName string) labelMode {
	if strings.TrimSpace(field.Label) == "" {
		return labelNone
	}
	if strings.TrimSpace(field.Metadata["hideLabel"]) == "true" {
		return labelNone
	}
	switch componentName {
	case components.NameObject, components.NameCheckbox:
		// Fieldset legends and inline checkbox labels are emitted by the
		// surrounding markup instead.
		return labelNone
	case components.NameArray, components.NameRating:
		return labelPlain
	default:
		return labelForControl
	}
}

func parseComponentConfig(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
