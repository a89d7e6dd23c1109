package components_test

import (
	"bytes"
	"testing"

	"github.com/goliatone/go-formkit/pkg/renderers/html/components"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func TestRegistryRegisterAndOverride(t *testing.T) {
	t.Parallel()

	registry := components.NewDefaultRegistry()
	if _, ok := registry.Descriptor(components.NameRating); !ok {
		t.Fatal("default registry should include the rating component")
	}

	err := registry.Register("badge", components.Descriptor{
		Renderer: func(buf *bytes.Buffer, _ schema.Field, _ components.ComponentData) error {
			buf.WriteString("<span>badge</span>")
			return nil
		},
		Stylesheets: []string{"/assets/badge.css"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	descriptor, ok := registry.Descriptor("badge")
	if !ok {
		t.Fatal("descriptor not found after register")
	}

	var buf bytes.Buffer
	if err := descriptor.Renderer(&buf, schema.Field{Name: "b"}, components.ComponentData{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != "<span>badge</span>" {
		t.Fatalf("rendered %q", got)
	}
}

func TestRegistryRejectsEmptyDescriptors(t *testing.T) {
	t.Parallel()

	registry := components.New()
	if err := registry.Register("", components.Descriptor{}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := registry.Register("thing", components.Descriptor{}); err == nil {
		t.Fatal("expected error for descriptor without renderer or template")
	}
}

func TestRegistryCloneIsolatesMutations(t *testing.T) {
	t.Parallel()

	base := components.NewDefaultRegistry()
	clone := base.Clone()

	err := clone.Register("extra", components.Descriptor{
		Renderer: func(*bytes.Buffer, schema.Field, components.ComponentData) error { return nil },
	})
	if err != nil {
		t.Fatalf("register on clone: %v", err)
	}

	if _, ok := base.Descriptor("extra"); ok {
		t.Fatal("clone registration leaked into the base registry")
	}
	if _, ok := clone.Descriptor("extra"); !ok {
		t.Fatal("clone lost its own registration")
	}
}

func TestRegistryAssetsDeduplicate(t *testing.T) {
	t.Parallel()

	registry := components.New()
	noop := func(*bytes.Buffer, schema.Field, components.ComponentData) error { return nil }

	registry.MustRegister("a", components.Descriptor{
		Renderer:    noop,
		Stylesheets: []string{"/shared.css", "/a.css"},
		Scripts:     []components.Script{{Src: "/shared.js"}},
	})
	registry.MustRegister("b", components.Descriptor{
		Renderer:    noop,
		Stylesheets: []string{"/shared.css"},
		Scripts:     []components.Script{{Src: "/shared.js"}, {Inline: "init()"}},
	})

	stylesheets, scripts := registry.Assets([]string{"a", "b", "missing"})
	if len(stylesheets) != 2 {
		t.Fatalf("stylesheets = %v", stylesheets)
	}
	if len(scripts) != 2 {
		t.Fatalf("scripts = %v", scripts)
	}
}
