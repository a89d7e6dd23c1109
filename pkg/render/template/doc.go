// Package template defines renderer-agnostic template interfaces and
// adapters. Renderers that accept custom markup for widgets or layouts
// depend on TemplateRenderer instead of a concrete engine.
package template
