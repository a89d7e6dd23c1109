package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
)

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(ctx context.Context, view form.View, options render.Options) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := render.NewRegistry()

	if err := registry.Register(stubRenderer{name: "html"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("empty name must fail")
	}

	renderer, err := registry.Get("html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if renderer.Name() != "html" {
		t.Fatalf("wrong renderer: %s", renderer.Name())
	}

	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("missing renderer must fail")
	}
}

func TestRegistryList(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "tui"})
	registry.MustRegister(stubRenderer{name: "html"})

	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("tui") || registry.Has("preact") {
		t.Fatalf("Has broken")
	}
}

func TestSortedHiddenFields(t *testing.T) {
	fields := render.MergeHiddenFields(nil,
		render.CSRFToken("_csrf", "token-1"),
		render.VersionField("version", 7),
		render.Hidden("  ", "dropped"),
	)

	want := []render.HiddenField{
		{Name: "_csrf", Value: "token-1"},
		{Name: "version", Value: "7"},
	}
	if diff := cmp.Diff(want, render.SortedHiddenFields(fields)); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestBodyContract(t *testing.T) {
	static := render.Body{Markup: "<p>hello</p>"}
	markup, err := static.Content(nil)
	if err != nil || markup != "<p>hello</p>" {
		t.Fatalf("static body: %q, %v", markup, err)
	}

	dynamic := render.Body{Build: func(ctrl *form.Controller) (string, error) {
		return "<p>built</p>", nil
	}}
	markup, err = dynamic.Content(nil)
	if err != nil || markup != "<p>built</p>" {
		t.Fatalf("dynamic body: %q, %v", markup, err)
	}

	if !(render.Body{}).IsZero() || static.IsZero() {
		t.Fatalf("IsZero broken")
	}
}
