package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/values"
)

// Filler drives a form through an interactive terminal session: prompt for
// every field, submit, and on validation failure show the consolidated
// banner and reprompt only the failing fields.
type Filler struct {
	renderer *Renderer
}

// NewFiller wraps a renderer into a form-driving session.
func NewFiller(renderer *Renderer) (*Filler, error) {
	if renderer == nil {
		return nil, errors.New("tui: renderer is required")
	}
	return &Filler{renderer: renderer}, nil
}

// Fill runs the interactive session until the form submits successfully,
// the handler fails, or the user aborts. The returned status is the final
// submit outcome.
func (f *Filler) Fill(ctx context.Context, target *form.Form) (form.Status, error) {
	if target == nil {
		return form.StatusValidationFailed, errors.New("tui: form is required")
	}

	ctrl := target.Controller()
	sch := ctrl.Schema()
	tree := values.New(ctrl.Values())

	if err := f.renderer.Collect(ctx, sch, tree); err != nil {
		return form.StatusValidationFailed, err
	}
	if err := ctrl.SetValues(tree.Flatten()); err != nil {
		return form.StatusValidationFailed, err
	}

	for {
		status := target.Submit(ctx)
		switch status {
		case form.StatusSucceeded, form.StatusSkipped:
			return status, nil
		case form.StatusHandlerFailed:
			if msg := target.GlobalError(); msg != "" {
				if err := f.renderer.driver.Info(ctx, msg); err != nil {
					return status, err
				}
			}
			return status, nil
		}

		if msg := target.GlobalError(); msg != "" {
			if err := f.renderer.driver.Info(ctx, msg); err != nil {
				return status, err
			}
		}

		failing := failingPaths(ctrl.FieldErrors())
		for _, path := range failing {
			if message := ctrl.FieldError(path); message != "" {
				if err := f.renderer.driver.Info(ctx, fmt.Sprintf("%s: %s", path, message)); err != nil {
					return status, err
				}
			}
			retry := values.New(ctrl.Values())
			if err := f.renderer.Prompt(ctx, sch, path, retry); err != nil {
				return status, err
			}
			if value, ok := retry.Get(path); ok {
				if err := ctrl.SetValue(path, value); err != nil {
					return status, err
				}
			}
		}
	}
}

func failingPaths(errs map[string]string) []string {
	paths := make([]string, 0, len(errs))
	for path := range errs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
