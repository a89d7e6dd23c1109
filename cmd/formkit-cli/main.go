package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-formkit/pkg/form"
	pkgopenapi "github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func main() {
	source := flag.String("source", "", "schema document path (.json/.yaml/.toml) or OpenAPI document")
	openapiDoc := flag.Bool("openapi", false, "treat source as an OpenAPI document")
	operation := flag.String("operation", "", "operation key when importing from OpenAPI")
	mode := flag.String("mode", "html", "output mode: html or tui")
	action := flag.String("action", "/submit", "form action used by the html mode")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	if *source == "" {
		log.Fatal("a -source document is required")
	}

	ctx := context.Background()

	doc, err := loadSchema(ctx, *source, *openapiDoc, *operation)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	switch *mode {
	case "html":
		if err := renderHTML(ctx, doc, *action, *output); err != nil {
			log.Fatalf("Failed to render form: %v", err)
		}
	case "tui":
		if err := fillInteractive(ctx, doc); err != nil {
			log.Fatalf("Failed to fill form: %v", err)
		}
	default:
		log.Fatalf("unknown mode: %q", *mode)
	}
}

func loadSchema(ctx context.Context, source string, fromOpenAPI bool, operation string) (*schema.Schema, error) {
	if !fromOpenAPI {
		return schema.LoadFile(source)
	}

	doc, err := pkgopenapi.New().FromFile(ctx, source)
	if err != nil {
		return nil, err
	}
	if operation == "" {
		keys := doc.Keys()
		if len(keys) != 1 {
			return nil, fmt.Errorf("document defines %d forms, pick one with -operation: %v", len(keys), keys)
		}
		operation = keys[0]
	}
	s, ok := doc.Form(operation)
	if !ok {
		return nil, fmt.Errorf("no form for operation %q, available: %v", operation, doc.Keys())
	}
	return s, nil
}

func renderHTML(ctx context.Context, s *schema.Schema, action, output string) error {
	f, err := form.New(s, func(context.Context, map[string]any) error { return nil })
	if err != nil {
		return err
	}

	renderer, err := html.New()
	if err != nil {
		return err
	}

	markup, err := renderer.Render(ctx, f.View(), render.Options{Action: action})
	if err != nil {
		return err
	}

	if output != "" {
		if err := os.WriteFile(output, markup, 0o644); err != nil {
			return err
		}
		fmt.Printf("Form written to %s\n", output)
		return nil
	}
	fmt.Println(string(markup))
	return nil
}

func fillInteractive(ctx context.Context, s *schema.Schema) error {
	var submitted map[string]any
	f, err := form.New(s, func(_ context.Context, values map[string]any) error {
		submitted = values
		return nil
	})
	if err != nil {
		return err
	}

	renderer, err := tui.New()
	if err != nil {
		return err
	}
	filler, err := tui.NewFiller(renderer)
	if err != nil {
		return err
	}

	status, err := filler.Fill(ctx, f)
	if err != nil {
		return err
	}
	if status != form.StatusSucceeded {
		return fmt.Errorf("form not submitted (status %v)", status)
	}

	encoded, err := json.MarshalIndent(submitted, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
