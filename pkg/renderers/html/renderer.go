package html

import (
	"context"
	"fmt"
	stdhtml "html"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	rendertemplate "github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formkit/pkg/renderers/html/components"
	"github.com/goliatone/go-formkit/pkg/values"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	overrides        map[string]string
	policy           *bluemonday.Policy
	submitLabel      string
}

// WithTemplatesFS supplies widget override templates via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads widget override templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the default component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithComponentOverrides maps field paths or names to component names,
// overriding the widget resolved from the schema.
func WithComponentOverrides(overrides map[string]string) Option {
	return func(cfg *config) {
		if len(overrides) == 0 {
			return
		}
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]string, len(overrides))
		}
		for path, component := range overrides {
			cfg.overrides[strings.TrimSpace(path)] = strings.TrimSpace(component)
		}
	}
}

// WithSanitizerPolicy replaces the bluemonday policy applied to help and
// description markup.
func WithSanitizerPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithSubmitLabel overrides the text on the generated submit button.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label = strings.TrimSpace(label); label != "" {
			cfg.submitLabel = label
		}
	}
}

// Renderer produces a full HTML <form> document fragment for a form view:
// widget catalog, validation chrome, global error banner and busy overlay.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	overrides   map[string]string
	policy      *bluemonday.Policy
	submitLabel string
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{submitLabel: "Submit"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil && cfg.templateFS != nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	policy := cfg.policy
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}

	return &Renderer{
		templates:   renderer,
		registry:    registry,
		overrides:   cfg.overrides,
		policy:      policy,
		submitLabel: cfg.submitLabel,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view form.View, options render.Options) ([]byte, error) {
	if view.Schema == nil {
		return nil, fmt.Errorf("html renderer: view has no schema")
	}

	fieldErrors, formErrors := r.collectErrors(view, options)

	fields := newFieldRenderer(fieldRendererConfig{
		templates: r.templates,
		registry:  r.registry,
		overrides: r.overrides,
		policy:    r.policy,
		values:    values.New(view.Values),
		errors:    fieldErrors,
		theme:     options.Theme,
	})

	body, err := r.resolveBody(view, options, fields)
	if err != nil {
		return nil, err
	}

	var builder strings.Builder
	builder.Grow(len(body) + 2048)

	stylesheets, scripts := fields.assets()
	for _, href := range stylesheets {
		builder.WriteString(`<link rel="stylesheet" href="`)
		builder.WriteString(stdhtml.EscapeString(resolveAssetURL(options, href)))
		builder.WriteString("\">\n")
	}

	r.writeFormOpen(&builder, view, options)

	if title := strings.TrimSpace(view.Schema.Title); title != "" {
		builder.WriteString(`    <h2 class="`)
		builder.WriteString(DefaultHeaderClass)
		builder.WriteString(` text-lg font-semibold text-gray-900">`)
		builder.WriteString(stdhtml.EscapeString(title))
		builder.WriteString("</h2>\n")
	}
	if desc := strings.TrimSpace(view.Schema.Description); desc != "" {
		builder.WriteString(`    <p class="text-sm text-gray-500">`)
		builder.WriteString(r.policy.Sanitize(desc))
		builder.WriteString("</p>\n")
	}

	r.writeBanner(&builder, view, formErrors)
	r.writeHiddenFields(&builder, options)

	builder.WriteString(`    <div class="`)
	builder.WriteString(DefaultGridClass)
	builder.WriteString(` grid gap-4">`)
	builder.WriteByte('\n')
	builder.WriteString(body)
	builder.WriteString("    </div>\n")

	r.writeActions(&builder, view)
	r.writeOverlay(&builder, view, options)

	builder.WriteString("</form>\n")

	for _, script := range scripts {
		writeScriptTag(&builder, options, script)
	}

	return []byte(builder.String()), nil
}

// collectErrors merges the view's own validation messages with any raw
// server payload mapped through the render helpers. Messages that cannot be
// tied to a known field end up form-level.
func (r *Renderer) collectErrors(view form.View, options render.Options) (map[string][]string, []string) {
	fieldErrors := make(map[string][]string, len(view.FieldErrors))
	for path, message := range view.FieldErrors {
		fieldErrors[path] = []string{message}
	}

	var formErrors []string
	if len(options.ServerErrors) > 0 {
		mapping := render.MapErrorPayload(view.Schema, options.ServerErrors)
		for path, messages := range mapping.Fields {
			fieldErrors[path] = render.MergeFormErrors(fieldErrors[path], messages...)
		}
		formErrors = render.MergeFormErrors(formErrors, mapping.Form...)
	}
	return fieldErrors, formErrors
}

func (r *Renderer) resolveBody(view form.View, options render.Options, fields *fieldRenderer) (string, error) {
	if !options.Body.IsZero() {
		content, err := options.Body.Content(options.Controller)
		if err != nil {
			return "", fmt.Errorf("html renderer: build body: %w", err)
		}
		return content, nil
	}

	var builder strings.Builder
	for _, field := range view.Schema.Fields {
		markup, err := fields.render(field, field.Name)
		if err != nil {
			return "", fmt.Errorf("html renderer: %w", err)
		}
		builder.WriteString(markup)
	}
	return builder.String(), nil
}

func (r *Renderer) writeFormOpen(builder *strings.Builder, view form.View, options render.Options) {
	action := strings.TrimSpace(options.Action)
	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if method == "" {
		method = "POST"
	}
	formMethod := method
	if method != "GET" && method != "POST" {
		formMethod = "POST"
	}

	builder.WriteString(`<form`)
	if view.ID != "" {
		builder.WriteString(` id="`)
		builder.WriteString(stdhtml.EscapeString(view.ID))
		builder.WriteString(`"`)
	}
	builder.WriteString(` class="`)
	builder.WriteString(DefaultFormClass)
	builder.WriteString(` relative grid gap-4`)
	if view.Class != "" {
		builder.WriteByte(' ')
		builder.WriteString(stdhtml.EscapeString(view.Class))
	}
	builder.WriteString(`"`)
	if action != "" {
		builder.WriteString(` action="`)
		builder.WriteString(stdhtml.EscapeString(action))
		builder.WriteString(`"`)
	}
	builder.WriteString(` method="`)
	builder.WriteString(strings.ToLower(formMethod))
	builder.WriteString(`" novalidate`)
	if view.Busy {
		builder.WriteString(` aria-busy="true"`)
	}
	writeThemeAttributes(builder, options)
	builder.WriteString(">\n")

	if formMethod != method {
		builder.WriteString(`    <input type="hidden" name="_method" value="`)
		builder.WriteString(stdhtml.EscapeString(method))
		builder.WriteString("\">\n")
	}
}

func (r *Renderer) writeBanner(builder *strings.Builder, view form.View, formErrors []string) {
	showBanner := view.ShowGlobalError && strings.TrimSpace(view.GlobalError) != ""
	if !showBanner && len(formErrors) == 0 {
		return
	}

	builder.WriteString(`    <div class="`)
	builder.WriteString(DefaultErrorsClass)
	builder.WriteString(` flex items-start gap-3 p-4 text-sm text-red-800 bg-red-50 border border-red-200 rounded-lg" role="alert" data-form-error>`)
	builder.WriteByte('\n')
	builder.WriteString(`        <div class="grow">`)
	builder.WriteByte('\n')
	if showBanner {
		builder.WriteString(`            <p class="font-medium">`)
		builder.WriteString(stdhtml.EscapeString(view.GlobalError))
		builder.WriteString("</p>\n")
	}
	for _, message := range formErrors {
		builder.WriteString(`            <p>`)
		builder.WriteString(stdhtml.EscapeString(message))
		builder.WriteString("</p>\n")
	}
	builder.WriteString("        </div>\n")
	builder.WriteString(`        <button type="button" class="shrink-0 text-red-800 hover:text-red-600" data-action="dismiss-error" aria-label="Dismiss">&times;</button>`)
	builder.WriteByte('\n')
	builder.WriteString("    </div>\n")
}

func (r *Renderer) writeHiddenFields(builder *strings.Builder, options render.Options) {
	for _, field := range render.SortedHiddenFields(options.Hidden) {
		builder.WriteString(`    <input type="hidden" name="`)
		builder.WriteString(stdhtml.EscapeString(field.Name))
		builder.WriteString(`" value="`)
		builder.WriteString(stdhtml.EscapeString(field.Value))
		builder.WriteString("\">\n")
	}
}

func (r *Renderer) writeActions(builder *strings.Builder, view form.View) {
	builder.WriteString(`    <div class="`)
	builder.WriteString(DefaultActionsClass)
	builder.WriteString(` flex justify-end">`)
	builder.WriteByte('\n')
	builder.WriteString(`        <button type="submit" class="py-2 px-4 inline-flex items-center gap-x-2 text-sm font-medium rounded-lg border border-transparent bg-blue-600 text-white hover:bg-blue-700 disabled:opacity-50 disabled:pointer-events-none"`)
	if view.Busy {
		builder.WriteString(` disabled`)
	}
	builder.WriteString(`>`)
	builder.WriteString(stdhtml.EscapeString(r.submitLabel))
	builder.WriteString("</button>\n")
	builder.WriteString("    </div>\n")
}

func (r *Renderer) writeOverlay(builder *strings.Builder, view form.View, options render.Options) {
	if !view.Busy {
		return
	}
	if overlay := strings.TrimSpace(options.Overlay); overlay != "" {
		builder.WriteString("    ")
		builder.WriteString(overlay)
		builder.WriteByte('\n')
		return
	}
	builder.WriteString(`    <div class="`)
	builder.WriteString(DefaultOverlayClass)
	builder.WriteString(` absolute inset-0 flex items-center justify-center bg-white/75 rounded-lg" data-busy-overlay>`)
	builder.WriteByte('\n')
	builder.WriteString(`        <span class="animate-spin inline-block size-6 border-[3px] border-current border-t-transparent text-blue-600 rounded-full" role="status" aria-label="Submitting"></span>`)
	builder.WriteByte('\n')
	builder.WriteString("    </div>\n")
}

func writeThemeAttributes(builder *strings.Builder, options render.Options) {
	theme := options.Theme
	if theme == nil {
		return
	}
	if theme.Theme != "" {
		builder.WriteString(` data-theme="`)
		builder.WriteString(stdhtml.EscapeString(theme.Theme))
		builder.WriteString(`"`)
	}
	if theme.Variant != "" {
		builder.WriteString(` data-theme-variant="`)
		builder.WriteString(stdhtml.EscapeString(theme.Variant))
		builder.WriteString(`"`)
	}
	if len(theme.CSSVars) == 0 {
		return
	}
	names := make([]string, 0, len(theme.CSSVars))
	for name := range theme.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)
	builder.WriteString(` style="`)
	for idx, name := range names {
		if idx > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(stdhtml.EscapeString(cssVarName(name)))
		builder.WriteString(": ")
		builder.WriteString(stdhtml.EscapeString(theme.CSSVars[name]))
		builder.WriteByte(';')
	}
	builder.WriteString(`"`)
}

func writeScriptTag(builder *strings.Builder, options render.Options, script components.Script) {
	builder.WriteString(`<script`)
	if script.Module {
		builder.WriteString(` type="module"`)
	} else if script.Type != "" {
		builder.WriteString(` type="`)
		builder.WriteString(stdhtml.EscapeString(script.Type))
		builder.WriteString(`"`)
	}
	if script.Src != "" {
		builder.WriteString(` src="`)
		builder.WriteString(stdhtml.EscapeString(resolveAssetURL(options, script.Src)))
		builder.WriteString(`"`)
	}
	if script.Async {
		builder.WriteString(` async`)
	}
	if script.Defer {
		builder.WriteString(` defer`)
	}
	for _, name := range sortedKeys(script.Attrs) {
		builder.WriteByte(' ')
		builder.WriteString(stdhtml.EscapeString(name))
		builder.WriteString(`="`)
		builder.WriteString(stdhtml.EscapeString(script.Attrs[name]))
		builder.WriteString(`"`)
	}
	builder.WriteString(`>`)
	if script.Inline != "" {
		builder.WriteString(script.Inline)
	}
	builder.WriteString("</script>\n")
}

func resolveAssetURL(options render.Options, ref string) string {
	if options.Theme != nil && options.Theme.AssetURL != nil {
		if resolved := options.Theme.AssetURL(ref); resolved != "" {
			return resolved
		}
	}
	return ref
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
