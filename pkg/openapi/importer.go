package openapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Extension keys recognised on property schemas.
const (
	widgetExtensionKey = "x-widget"
	maskExtensionKey   = "x-mask"
)

// Option configures the importer.
type Option func(*Importer)

// WithExternalRefs allows the loader to resolve references outside the
// document.
func WithExternalRefs() Option {
	return func(i *Importer) {
		i.allowExternalRefs = true
	}
}

// WithValidation validates the document against the OpenAPI spec before
// extracting forms.
func WithValidation() Option {
	return func(i *Importer) {
		i.validate = true
	}
}

// Importer turns OpenAPI documents into form schemas, one per operation
// that declares a request body.
type Importer struct {
	allowExternalRefs bool
	validate          bool
}

// New constructs an Importer with the given options.
func New(options ...Option) *Importer {
	importer := &Importer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(importer)
	}
	return importer
}

// FromFile loads and converts an OpenAPI document from disk.
func (i *Importer) FromFile(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read document: %w", err)
	}
	return i.FromData(ctx, data)
}

// FromData loads and converts an OpenAPI document from raw JSON or YAML.
func (i *Importer) FromData(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.allowExternalRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if i.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}

	doc := &Document{forms: make(map[string]*schema.Schema)}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		collectForm(doc, "POST", path, item.Post)
		collectForm(doc, "PUT", path, item.Put)
		collectForm(doc, "PATCH", path, item.Patch)
	}

	if len(doc.forms) == 0 {
		return nil, errors.New("openapi: no operations with a request body found")
	}
	return doc, nil
}

// Document holds the form schemas extracted from an OpenAPI document, keyed
// by operationId (falling back to "method:path").
type Document struct {
	forms map[string]*schema.Schema
}

// Form fetches a schema by operation key.
func (d *Document) Form(key string) (*schema.Schema, bool) {
	s, ok := d.forms[key]
	return s, ok
}

// Keys returns the sorted operation keys with extracted forms.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.forms))
	for key := range d.forms {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func collectForm(doc *Document, method, path string, operation *openapi3.Operation) {
	if operation == nil || operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return
	}

	ref := requestBodySchema(operation.RequestBody.Value.Content)
	if ref == nil || ref.Value == nil {
		return
	}

	key := operation.OperationID
	if key == "" {
		key = strings.ToLower(method) + ":" + path
	}

	form := &schema.Schema{
		Name:        key,
		Title:       operation.Summary,
		Description: operation.Description,
		Fields:      fieldsFrom(ref.Value),
	}
	doc.forms[key] = form
}

func requestBodySchema(content openapi3.Content) *openapi3.SchemaRef {
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}

// fieldsFrom flattens an object schema's properties into form fields.
// Property order in OpenAPI maps is undefined, so fields are sorted by name
// for deterministic output.
func fieldsFrom(src *openapi3.Schema) []schema.Field {
	if src == nil || len(src.Properties) == 0 {
		return nil
	}

	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		ref := src.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		fields = append(fields, fieldFrom(name, ref.Value, isRequired))
	}
	return fields
}

func fieldFrom(name string, src *openapi3.Schema, required bool) schema.Field {
	field := schema.Field{
		Name:     name,
		Type:     fieldType(src),
		Label:    src.Title,
		Help:     src.Description,
		Required: required,
		Default:  src.Default,
	}

	if len(src.Enum) > 0 {
		field.Enum = append([]any(nil), src.Enum...)
	}

	field.Widget = widgetFor(src)
	if mask, ok := extensionString(src.Extensions, maskExtensionKey); ok {
		field.Mask = mask
	}

	field.Rules = rulesFrom(src, field.Type)

	switch field.Type {
	case schema.TypeObject:
		field.Nested = fieldsFrom(src)
	case schema.TypeArray:
		if src.Items != nil && src.Items.Value != nil {
			item := fieldFrom(name, src.Items.Value, false)
			item.Required = false
			field.Items = &item
		}
	}

	return field
}

func fieldType(src *openapi3.Schema) schema.FieldType {
	types := src.Type.Slice()
	if len(types) == 0 {
		return schema.TypeString
	}
	switch types[0] {
	case "integer":
		return schema.TypeInteger
	case "number":
		return schema.TypeNumber
	case "boolean":
		return schema.TypeBoolean
	case "array":
		return schema.TypeArray
	case "object":
		return schema.TypeObject
	default:
		return schema.TypeString
	}
}

func widgetFor(src *openapi3.Schema) string {
	if widget, ok := extensionString(src.Extensions, widgetExtensionKey); ok {
		return widget
	}
	switch src.Format {
	case "password":
		return schema.WidgetPassword
	case "binary":
		return schema.WidgetFile
	}
	return ""
}

func rulesFrom(src *openapi3.Schema, fieldType schema.FieldType) []schema.Rule {
	var rules []schema.Rule
	if src.Min != nil {
		rules = append(rules, schema.Min(*src.Min))
	}
	if src.Max != nil {
		rules = append(rules, schema.Max(*src.Max))
	}
	if src.MultipleOf != nil {
		rules = append(rules, schema.Step(*src.MultipleOf))
	}
	if src.MinLength != 0 {
		rules = append(rules, schema.MinLength(int(src.MinLength)))
	}
	if src.MaxLength != nil {
		rules = append(rules, schema.MaxLength(int(*src.MaxLength)))
	}
	if src.Pattern != "" {
		rules = append(rules, schema.Pattern(src.Pattern))
	}
	if fieldType == schema.TypeArray {
		if src.MinItems != 0 {
			rules = append(rules, schema.MinItems(int(src.MinItems)))
		}
		if src.MaxItems != nil {
			rules = append(rules, schema.MaxItems(int(*src.MaxItems)))
		}
	}
	return rules
}

func extensionString(extensions map[string]any, key string) (string, bool) {
	if len(extensions) == 0 {
		return "", false
	}
	raw, ok := extensions[key]
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}
