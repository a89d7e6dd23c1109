package components

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

const (
	controlClasses = "py-2 px-3 block w-full border-gray-200 rounded-lg text-sm focus:border-blue-500 focus:ring-blue-500 disabled:opacity-50 disabled:pointer-events-none"
	invalidClasses = "border-red-500 focus:border-red-500 focus:ring-red-500"
)

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// widget components used by the HTML renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameText, Descriptor{Renderer: textRenderer})
	registry.MustRegister(NameTextarea, Descriptor{Renderer: textareaRenderer})
	registry.MustRegister(NamePassword, Descriptor{Renderer: passwordRenderer})
	registry.MustRegister(NameNumber, Descriptor{Renderer: numberRenderer})
	registry.MustRegister(NameSlider, Descriptor{Renderer: sliderRenderer})
	registry.MustRegister(NameRating, Descriptor{Renderer: ratingRenderer})
	registry.MustRegister(NameFile, Descriptor{Renderer: fileRenderer})
	registry.MustRegister(NameMasked, Descriptor{Renderer: maskedRenderer})
	registry.MustRegister(NameCheckbox, Descriptor{Renderer: checkboxRenderer})
	registry.MustRegister(NameSelect, Descriptor{Renderer: selectRenderer})
	registry.MustRegister(NameHidden, Descriptor{Renderer: hiddenRenderer})
	registry.MustRegister(NameObject, Descriptor{Renderer: objectRenderer})
	registry.MustRegister(NameArray, Descriptor{Renderer: arrayRenderer})

	return registry
}

func textRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	return renderInput(buf, field, data, "text", true)
}

func passwordRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	// Passwords are never echoed back into the markup.
	return renderInput(buf, field, data, "password", false)
}

func fileRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<input type="file"`)
	writeControlAttrs(&builder, field, data)
	if accept := strings.TrimSpace(field.Metadata["accept"]); accept != "" {
		builder.WriteString(` accept="`)
		builder.WriteString(html.EscapeString(accept))
		builder.WriteString(`"`)
	}
	if strings.TrimSpace(field.Metadata["multiple"]) == "true" {
		builder.WriteString(` multiple`)
	}
	writeClassAttr(&builder, "block w-full border border-gray-200 rounded-lg text-sm file:me-4 file:py-2 file:px-4 file:border-0 file:bg-gray-100", data)
	builder.WriteString(">")
	buf.WriteString(builder.String())
	return nil
}

func hiddenRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<input type="hidden" name="`)
	builder.WriteString(html.EscapeString(data.Path))
	builder.WriteString(`" value="`)
	builder.WriteString(html.EscapeString(valueString(data.Value)))
	builder.WriteString(`">`)
	buf.WriteString(builder.String())
	return nil
}

func textareaRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<textarea`)
	writeControlAttrs(&builder, field, data)
	rows := strings.TrimSpace(field.Metadata["rows"])
	if rows == "" {
		rows = "4"
	}
	builder.WriteString(` rows="`)
	builder.WriteString(html.EscapeString(rows))
	builder.WriteString(`"`)
	writePlaceholder(&builder, field)
	writeLengthLimits(&builder, field)
	writeClassAttr(&builder, controlClasses, data)
	builder.WriteString(`>`)
	builder.WriteString(html.EscapeString(valueString(data.Value)))
	builder.WriteString(`</textarea>`)
	buf.WriteString(builder.String())
	return nil
}

func numberRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<input type="number"`)
	writeControlAttrs(&builder, field, data)
	writeNumericBounds(&builder, field)
	if value := valueString(data.Value); value != "" {
		builder.WriteString(` value="`)
		builder.WriteString(html.EscapeString(value))
		builder.WriteString(`"`)
	}
	writePlaceholder(&builder, field)
	writeClassAttr(&builder, controlClasses, data)
	builder.WriteString(">")
	buf.WriteString(builder.String())
	return nil
}

func sliderRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	min := field.RuleParam(schema.RuleMin, "value")
	max := field.RuleParam(schema.RuleMax, "value")
	if min == "" {
		min = "0"
	}
	if max == "" {
		max = "100"
	}
	value := valueString(data.Value)
	if value == "" {
		value = min
	}

	var builder strings.Builder
	builder.WriteString(`<div class="flex items-center gap-3">`)
	builder.WriteString(`<input type="range"`)
	writeControlAttrs(&builder, field, data)
	builder.WriteString(` min="`)
	builder.WriteString(html.EscapeString(min))
	builder.WriteString(`" max="`)
	builder.WriteString(html.EscapeString(max))
	builder.WriteString(`"`)
	if step := field.RuleParam(schema.RuleStep, "value"); step != "" {
		builder.WriteString(` step="`)
		builder.WriteString(html.EscapeString(step))
		builder.WriteString(`"`)
	}
	builder.WriteString(` value="`)
	builder.WriteString(html.EscapeString(value))
	builder.WriteString(`"`)
	writeClassAttr(&builder, "w-full bg-transparent cursor-pointer appearance-none", data)
	builder.WriteString(` oninput="this.nextElementSibling.value = this.value"`)
	builder.WriteString(">")
	builder.WriteString(`<output class="text-sm text-gray-600 min-w-10 text-right">`)
	builder.WriteString(html.EscapeString(value))
	builder.WriteString(`</output>`)
	builder.WriteString(`</div>`)
	buf.WriteString(builder.String())
	return nil
}

func ratingRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	max := 5
	if raw := field.RuleParam(schema.RuleMax, "value"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			max = parsed
		}
	}
	current := 0
	if raw := valueString(data.Value); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			current = parsed
		}
	}

	var builder strings.Builder
	builder.WriteString(`<div role="radiogroup" class="flex flex-row-reverse justify-end gap-1" data-rating`)
	if data.Invalid() {
		builder.WriteString(` aria-invalid="true"`)
	}
	builder.WriteString(`>`)

	// Reversed order plus flex-row-reverse keeps the CSS hover trick for
	// highlighting stars up to the pointer working without scripts.
	for score := max; score >= 1; score-- {
		id := fmt.Sprintf("%s-%d", data.ControlID, score)
		builder.WriteString(`<input type="radio" id="`)
		builder.WriteString(html.EscapeString(id))
		builder.WriteString(`" name="`)
		builder.WriteString(html.EscapeString(data.Path))
		builder.WriteString(`" value="`)
		builder.WriteString(strconv.Itoa(score))
		builder.WriteString(`" class="sr-only peer"`)
		if score == current {
			builder.WriteString(` checked`)
		}
		if field.Required {
			builder.WriteString(` required`)
		}
		builder.WriteString(`>`)

		builder.WriteString(`<label for="`)
		builder.WriteString(html.EscapeString(id))
		builder.WriteString(`" class="text-2xl cursor-pointer`)
		if current >= score {
			builder.WriteString(" text-yellow-400")
		} else {
			builder.WriteString(" text-gray-300 hover:text-yellow-400 peer-checked:text-yellow-400")
		}
		builder.WriteString(`" aria-label="`)
		builder.WriteString(strconv.Itoa(score))
		if score == 1 {
			builder.WriteString(` star">`)
		} else {
			builder.WriteString(` stars">`)
		}
		builder.WriteString("&#9733;")
		builder.WriteString(`</label>`)
	}

	builder.WriteString(`</div>`)
	buf.WriteString(builder.String())
	return nil
}

func maskedRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<input type="text"`)
	writeControlAttrs(&builder, field, data)
	if mask := strings.TrimSpace(field.Mask); mask != "" {
		builder.WriteString(` data-mask="`)
		builder.WriteString(html.EscapeString(mask))
		builder.WriteString(`" maxlength="`)
		builder.WriteString(strconv.Itoa(len(mask)))
		builder.WriteString(`"`)
		if maskIsNumeric(mask) {
			builder.WriteString(` inputmode="numeric"`)
		}
		if strings.TrimSpace(field.Placeholder) == "" {
			builder.WriteString(` placeholder="`)
			builder.WriteString(html.EscapeString(mask))
			builder.WriteString(`"`)
		}
	}
	if value := valueString(data.Value); value != "" {
		builder.WriteString(` value="`)
		builder.WriteString(html.EscapeString(value))
		builder.WriteString(`"`)
	}
	writePlaceholder(&builder, field)
	writeClassAttr(&builder, controlClasses, data)
	builder.WriteString(">")
	buf.WriteString(builder.String())
	return nil
}

func checkboxRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<input type="checkbox"`)
	writeControlAttrs(&builder, field, data)
	builder.WriteString(` value="true"`)
	if truthy(data.Value) {
		builder.WriteString(` checked`)
	}
	writeClassAttr(&builder, "shrink-0 mt-0.5 border-gray-200 rounded text-blue-600 focus:ring-blue-500", data)
	builder.WriteString(">")
	buf.WriteString(builder.String())
	return nil
}

func selectRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<select`)
	writeControlAttrs(&builder, field, data)
	writeClassAttr(&builder, controlClasses, data)
	builder.WriteString(`>`)

	current := valueString(data.Value)
	placeholder := strings.TrimSpace(field.Placeholder)
	if placeholder == "" {
		placeholder = "Select an option"
	}
	builder.WriteString(`<option value=""`)
	if current == "" {
		builder.WriteString(` selected`)
	}
	if field.Required {
		builder.WriteString(` disabled`)
	}
	builder.WriteString(`>`)
	builder.WriteString(html.EscapeString(placeholder))
	builder.WriteString(`</option>`)

	for _, option := range field.Enum {
		value := valueString(option)
		builder.WriteString(`<option value="`)
		builder.WriteString(html.EscapeString(value))
		builder.WriteString(`"`)
		if value == current && value != "" {
			builder.WriteString(` selected`)
		}
		builder.WriteString(`>`)
		builder.WriteString(html.EscapeString(optionLabel(field, value)))
		builder.WriteString(`</option>`)
	}

	builder.WriteString(`</select>`)
	buf.WriteString(builder.String())
	return nil
}

func objectRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	var builder strings.Builder
	builder.WriteString(`<fieldset`)
	if data.ControlID != "" {
		builder.WriteString(` id="`)
		builder.WriteString(html.EscapeString(data.ControlID))
		builder.WriteString(`"`)
	}
	builder.WriteString(` class="space-y-4 p-4 border border-gray-200 rounded-lg">`)

	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString(`<legend class="text-sm font-semibold text-gray-900">`)
		builder.WriteString(html.EscapeString(label))
		builder.WriteString(`</legend>`)
	}
	if help := strings.TrimSpace(field.Help); help != "" && data.Sanitize != nil {
		builder.WriteString(`<p class="text-xs text-gray-500">`)
		builder.WriteString(data.Sanitize(help))
		builder.WriteString(`</p>`)
	}

	if data.RenderChild != nil {
		builder.WriteString(`<div class="space-y-4">`)
		for _, nested := range field.Nested {
			child, err := data.RenderChild(nested, joinPath(data.Path, nested.Name))
			if err != nil {
				return err
			}
			builder.WriteString(child)
		}
		builder.WriteString(`</div>`)
	}

	builder.WriteString(`</fieldset>`)
	buf.WriteString(builder.String())
	return nil
}

func arrayRenderer(buf *bytes.Buffer, field schema.Field, data ComponentData) error {
	if field.Items == nil {
		return fmt.Errorf("components: array field %q has no item definition", data.Path)
	}
	if data.RenderChild == nil {
		return fmt.Errorf("components: array field %q rendered without child renderer", data.Path)
	}

	var builder strings.Builder
	builder.WriteString(`<div`)
	if data.ControlID != "" {
		builder.WriteString(` id="`)
		builder.WriteString(html.EscapeString(data.ControlID))
		builder.WriteString(`"`)
	}
	builder.WriteString(` class="space-y-3" role="group" data-array="`)
	builder.WriteString(html.EscapeString(data.Path))
	builder.WriteString(`">`)

	items, _ := data.Value.([]any)
	builder.WriteString(`<div class="space-y-3" data-array-items>`)
	for idx := range items {
		itemPath := joinPath(data.Path, strconv.Itoa(idx))
		builder.WriteString(`<div class="flex items-start gap-2" data-array-item>`)
		child, err := data.RenderChild(*field.Items, itemPath)
		if err != nil {
			return err
		}
		builder.WriteString(`<div class="grow">`)
		builder.WriteString(child)
		builder.WriteString(`</div>`)
		builder.WriteString(`<button type="button" class="py-2 px-3 text-sm font-medium rounded-lg border border-gray-200 text-gray-500 hover:text-red-600" data-array-action="remove" aria-label="Remove item">&times;</button>`)
		builder.WriteString(`</div>`)
	}
	builder.WriteString(`</div>`)

	// Client scripts clone the template row and rewrite the index
	// placeholder when the add button is pressed.
	templatePath := joinPath(data.Path, "__INDEX__")
	builder.WriteString(`<template data-array-template>`)
	child, err := data.RenderChild(*field.Items, templatePath)
	if err != nil {
		return err
	}
	builder.WriteString(`<div class="flex items-start gap-2" data-array-item><div class="grow">`)
	builder.WriteString(child)
	builder.WriteString(`</div><button type="button" class="py-2 px-3 text-sm font-medium rounded-lg border border-gray-200 text-gray-500 hover:text-red-600" data-array-action="remove" aria-label="Remove item">&times;</button></div>`)
	builder.WriteString(`</template>`)

	builder.WriteString(`<button type="button" class="py-2 px-4 inline-flex items-center gap-x-2 text-sm font-medium rounded-lg border border-gray-200 bg-white text-gray-800 shadow-sm hover:bg-gray-50" data-array-action="add">Add `)
	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString(html.EscapeString(label))
	} else {
		builder.WriteString("item")
	}
	builder.WriteString(`</button>`)

	builder.WriteString(`</div>`)
	buf.WriteString(builder.String())
	return nil
}

func renderInput(buf *bytes.Buffer, field schema.Field, data ComponentData, inputType string, echoValue bool) error {
	var builder strings.Builder
	builder.WriteString(`<input type="`)
	builder.WriteString(inputType)
	builder.WriteString(`"`)
	writeControlAttrs(&builder, field, data)
	if echoValue {
		if value := valueString(data.Value); value != "" {
			builder.WriteString(` value="`)
			builder.WriteString(html.EscapeString(value))
			builder.WriteString(`"`)
		}
	}
	writePlaceholder(&builder, field)
	writeLengthLimits(&builder, field)
	if pattern := field.RuleParam(schema.RulePattern, "pattern"); pattern != "" {
		builder.WriteString(` pattern="`)
		builder.WriteString(html.EscapeString(pattern))
		builder.WriteString(`"`)
	}
	writeClassAttr(&builder, controlClasses, data)
	builder.WriteString(">")
	buf.WriteString(builder.String())
	return nil
}

func writeControlAttrs(builder *strings.Builder, field schema.Field, data ComponentData) {
	if data.ControlID != "" {
		builder.WriteString(` id="`)
		builder.WriteString(html.EscapeString(data.ControlID))
		builder.WriteString(`"`)
	}
	builder.WriteString(` name="`)
	builder.WriteString(html.EscapeString(data.Path))
	builder.WriteString(`"`)
	if field.Required {
		builder.WriteString(` required`)
	}
	if data.Invalid() {
		builder.WriteString(` aria-invalid="true"`)
		if data.ControlID != "" {
			builder.WriteString(` aria-describedby="`)
			builder.WriteString(html.EscapeString(data.ControlID))
			builder.WriteString(`-error"`)
		}
	}
}

func writeClassAttr(builder *strings.Builder, base string, data ComponentData) {
	builder.WriteString(` class="`)
	builder.WriteString(base)
	if data.Invalid() {
		builder.WriteByte(' ')
		builder.WriteString(invalidClasses)
	}
	builder.WriteString(`"`)
}

func writePlaceholder(builder *strings.Builder, field schema.Field) {
	if placeholder := strings.TrimSpace(field.Placeholder); placeholder != "" {
		builder.WriteString(` placeholder="`)
		builder.WriteString(html.EscapeString(placeholder))
		builder.WriteString(`"`)
	}
}

func writeLengthLimits(builder *strings.Builder, field schema.Field) {
	if min := field.RuleParam(schema.RuleMinLength, "value"); min != "" {
		builder.WriteString(` minlength="`)
		builder.WriteString(html.EscapeString(min))
		builder.WriteString(`"`)
	}
	if max := field.RuleParam(schema.RuleMaxLength, "value"); max != "" {
		builder.WriteString(` maxlength="`)
		builder.WriteString(html.EscapeString(max))
		builder.WriteString(`"`)
	}
}

func writeNumericBounds(builder *strings.Builder, field schema.Field) {
	if min := field.RuleParam(schema.RuleMin, "value"); min != "" {
		builder.WriteString(` min="`)
		builder.WriteString(html.EscapeString(min))
		builder.WriteString(`"`)
	}
	if max := field.RuleParam(schema.RuleMax, "value"); max != "" {
		builder.WriteString(` max="`)
		builder.WriteString(html.EscapeString(max))
		builder.WriteString(`"`)
	}
	if step := field.RuleParam(schema.RuleStep, "value"); step != "" {
		builder.WriteString(` step="`)
		builder.WriteString(html.EscapeString(step))
		builder.WriteString(`"`)
	} else if field.Type == schema.TypeInteger {
		builder.WriteString(` step="1"`)
	}
}

func optionLabel(field schema.Field, value string) string {
	if field.Metadata != nil {
		if label := strings.TrimSpace(field.Metadata["enumLabel."+value]); label != "" {
			return label
		}
	}
	return value
}

func maskIsNumeric(mask string) bool {
	sawDigit := false
	for _, r := range mask {
		switch r {
		case '#':
			sawDigit = true
		case 'A', '*':
			return false
		}
	}
	return sawDigit
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}

func valueString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
