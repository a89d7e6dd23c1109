package tui_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// scriptDriver replays canned answers and records informational output.
type scriptDriver struct {
	inputs   []string
	confirms []bool
	selects  []int
	multis   [][]int
	infos    []string
}

func (d *scriptDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	return d.nextInput()
}

func (d *scriptDriver) Password(_ context.Context, _ tui.InputConfig) (string, error) {
	return d.nextInput()
}

func (d *scriptDriver) TextArea(_ context.Context, _ tui.TextAreaConfig) (string, error) {
	return d.nextInput()
}

func (d *scriptDriver) Confirm(_ context.Context, _ tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, fmt.Errorf("script: no confirm answers left")
	}
	out := d.confirms[0]
	d.confirms = d.confirms[1:]
	return out, nil
}

func (d *scriptDriver) Select(_ context.Context, _ tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, fmt.Errorf("script: no select answers left")
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptDriver) MultiSelect(_ context.Context, _ tui.SelectConfig) ([]int, error) {
	if len(d.multis) == 0 {
		return nil, fmt.Errorf("script: no multi-select answers left")
	}
	out := d.multis[0]
	d.multis = d.multis[1:]
	return out, nil
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func (d *scriptDriver) nextInput() (string, error) {
	if len(d.inputs) == 0 {
		return "", fmt.Errorf("script: no input answers left")
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func sessionSchema() *schema.Schema {
	return &schema.Schema{
		Name: "signup",
		Fields: []schema.Field{
			{Name: "name", Type: schema.TypeString, Label: "Name", Required: true},
			{Name: "age", Type: schema.TypeInteger, Label: "Age", Required: true, Rules: []schema.Rule{schema.Min(18)}},
			{Name: "admin", Type: schema.TypeBoolean, Label: "Admin"},
			{Name: "plan", Type: schema.TypeString, Label: "Plan", Enum: []any{"free", "pro"}},
		},
	}
}

func TestRendererCollectsAndSerializesJSON(t *testing.T) {
	driver := &scriptDriver{
		inputs:   []string{"Ada", "36"},
		confirms: []bool{true},
		selects:  []int{1},
	}

	renderer, err := tui.New(tui.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	output, err := renderer.Render(context.Background(), form.View{Schema: sessionSchema()}, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(output, &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}

	want := map[string]any{
		"name":  "Ada",
		"age":   float64(36),
		"admin": true,
		"plan":  "pro",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collected values mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererRepromptsInvalidAnswers(t *testing.T) {
	driver := &scriptDriver{
		inputs:   []string{"Ada", "10", "25"},
		confirms: []bool{false},
		selects:  []int{0},
	}

	renderer, err := tui.New(tui.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	output, err := renderer.Render(context.Background(), form.View{Schema: sessionSchema()}, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(driver.infos) != 1 || !strings.Contains(driver.infos[0], "Must be at least 18") {
		t.Fatalf("expected a single invalid-age message, got %v", driver.infos)
	}
	if !strings.Contains(string(output), `"age":25`) {
		t.Fatalf("corrected age missing from output: %s", output)
	}
}

func TestRendererContentTypeTracksFormat(t *testing.T) {
	cases := []struct {
		format tui.OutputFormat
		want   string
	}{
		{tui.OutputFormatJSON, "application/json"},
		{tui.OutputFormatFormURLEncoded, "application/x-www-form-urlencoded"},
		{tui.OutputFormatPrettyText, "text/plain"},
	}
	for _, tc := range cases {
		renderer, err := tui.New(tui.WithOutputFormat(tc.format))
		if err != nil {
			t.Fatalf("new renderer: %v", err)
		}
		if got := renderer.ContentType(); got != tc.want {
			t.Fatalf("content type for %q = %q, want %q", tc.format, got, tc.want)
		}
	}
}

func TestFillerSubmitsAndRepromptsFailures(t *testing.T) {
	s := &schema.Schema{
		Name: "tagging",
		Fields: []schema.Field{
			{Name: "name", Type: schema.TypeString, Label: "Name", Required: true},
			{
				Name: "tags", Type: schema.TypeArray, Label: "Tags", Required: true,
				Rules: []schema.Rule{schema.MinItems(1)},
				Items: &schema.Field{Name: "tag", Type: schema.TypeString},
			},
		},
	}

	var submitted map[string]any
	target, err := form.New(s, func(_ context.Context, vals map[string]any) error {
		submitted = vals
		return nil
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	driver := &scriptDriver{
		// First pass: name, decline tags. Reprompt: accept one tag, then stop.
		inputs:   []string{"Ada", "go"},
		confirms: []bool{false, true, false},
	}
	renderer, err := tui.New(tui.WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	filler, err := tui.NewFiller(renderer)
	if err != nil {
		t.Fatalf("new filler: %v", err)
	}

	status, err := filler.Fill(context.Background(), target)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if status != form.StatusSucceeded {
		t.Fatalf("status = %v, want %v", status, form.StatusSucceeded)
	}

	if got := submitted["name"]; got != "Ada" {
		t.Fatalf("submitted name = %v", got)
	}
	tags, ok := submitted["tags"].([]any)
	if !ok || len(tags) != 1 || tags[0] != "go" {
		t.Fatalf("submitted tags = %v", submitted["tags"])
	}

	foundBanner := false
	for _, info := range driver.infos {
		if strings.Contains(info, "validation error") {
			foundBanner = true
		}
	}
	if !foundBanner {
		t.Fatalf("expected consolidated banner in session output, got %v", driver.infos)
	}
}
