package html

import (
	"testing"

	"github.com/goliatone/go-formkit/pkg/renderers/html/components"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func TestComponentForResolvesWidget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   schema.Field
		want string
	}{
		{
			name: "explicit widget wins",
			in:   schema.Field{Type: schema.TypeString, Widget: schema.WidgetTextarea},
			want: components.NameTextarea,
		},
		{
			name: "mask derives masked widget",
			in:   schema.Field{Type: schema.TypeString, Mask: "###-##-####"},
			want: components.NameMasked,
		},
		{
			name: "enum derives select",
			in:   schema.Field{Type: schema.TypeString, Enum: []any{"a", "b"}},
			want: components.NameSelect,
		},
		{
			name: "integer derives number",
			in:   schema.Field{Type: schema.TypeInteger},
			want: components.NameNumber,
		},
		{
			name: "boolean derives checkbox",
			in:   schema.Field{Type: schema.TypeBoolean},
			want: components.NameCheckbox,
		},
		{
			name: "object type is structural",
			in:   schema.Field{Type: schema.TypeObject, Widget: schema.WidgetText},
			want: components.NameObject,
		},
		{
			name: "array type is structural",
			in:   schema.Field{Type: schema.TypeArray},
			want: components.NameArray,
		},
		{
			name: "metadata pin overrides widget",
			in: schema.Field{
				Type:     schema.TypeString,
				Widget:   schema.WidgetText,
				Metadata: map[string]string{"component": "rating"},
			},
			want: components.NameRating,
		},
		{
			name: "plain string falls back to text",
			in:   schema.Field{Type: schema.TypeString},
			want: components.NameText,
		},
	}

	renderer := newFieldRenderer(fieldRendererConfig{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := renderer.componentFor(tc.in, tc.in.Name); got != tc.want {
				t.Fatalf("componentFor() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestComponentForHonorsPathOverride(t *testing.T) {
	t.Parallel()

	renderer := newFieldRenderer(fieldRendererConfig{
		overrides: map[string]string{
			"owner.bio": components.NameTextarea,
			"score":     components.NameSlider,
		},
	})

	field := schema.Field{Name: "bio", Type: schema.TypeString}
	if got := renderer.componentFor(field, "owner.bio"); got != components.NameTextarea {
		t.Fatalf("path override ignored, got %q", got)
	}

	field = schema.Field{Name: "score", Type: schema.TypeInteger}
	if got := renderer.componentFor(field, "score"); got != components.NameSlider {
		t.Fatalf("name override ignored, got %q", got)
	}
}

func TestControlID(t *testing.T) {
	t.Parallel()

	if got := controlID("owner.email"); got != "fk-owner-email" {
		t.Fatalf("controlID() = %q", got)
	}
	if got := controlID(""); got != "" {
		t.Fatalf("controlID empty path = %q", got)
	}
}
