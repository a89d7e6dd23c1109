package form_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func ageSchema() *schema.Schema {
	return &schema.Schema{
		Name: "profile",
		Fields: []schema.Field{
			{Name: "name", Type: schema.TypeString, Required: true, Default: "Ada"},
			{Name: "age", Type: schema.TypeInteger, Required: true, Rules: []schema.Rule{schema.Min(18), schema.Max(120)}},
		},
	}
}

func TestSubmitValidationFailureSetsBanner(t *testing.T) {
	called := false
	f, err := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	if err := f.Controller().SetValue("age", "10"); err != nil {
		t.Fatalf("set value: %v", err)
	}

	status := f.Submit(context.Background())
	if status != form.StatusValidationFailed {
		t.Fatalf("status: want StatusValidationFailed, got %v", status)
	}
	if called {
		t.Fatalf("submit handler must not run on validation failure")
	}
	if got := f.GlobalError(); got != "Please fix 1 validation error" {
		t.Fatalf("banner mismatch: %q", got)
	}
	if got := f.Controller().FieldError("age"); got != "Must be at least 18" {
		t.Fatalf("field error mismatch: %q", got)
	}
}

func TestSubmitBannerPluralises(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return nil
	}, form.WithDefaults(map[string]any{}))

	// name and age both missing.
	if status := f.Submit(context.Background()); status != form.StatusValidationFailed {
		t.Fatalf("expected validation failure")
	}
	if got := f.GlobalError(); got != "Please fix 2 validation errors" {
		t.Fatalf("banner mismatch: %q", got)
	}
}

func TestSubmitHandlerReceivesCoercedTree(t *testing.T) {
	var received map[string]any
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		received = vals
		return nil
	})

	f.Controller().SetValue("age", "25")

	if status := f.Submit(context.Background()); status != form.StatusSucceeded {
		t.Fatalf("expected success, got global error %q", f.GlobalError())
	}
	want := map[string]any{"name": "Ada", "age": 25}
	if diff := cmp.Diff(want, received); diff != "" {
		t.Fatalf("handler values mismatch (-want +got):\n%s", diff)
	}
	if got := f.GlobalError(); got != "" {
		t.Fatalf("global error should be clear, got %q", got)
	}
}

func TestSubmitHandlerErrorSurfacesMessage(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return errors.New("Network timeout")
	})
	f.Controller().SetValue("age", 30)

	if status := f.Submit(context.Background()); status != form.StatusHandlerFailed {
		t.Fatalf("expected handler failure")
	}
	if got := f.GlobalError(); got != "Network timeout" {
		t.Fatalf("banner mismatch: %q", got)
	}
}

func TestSubmitHandlerErrorWithoutMessageUsesFallback(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return errors.New("")
	})
	f.Controller().SetValue("age", 30)

	f.Submit(context.Background())
	if got := f.GlobalError(); got != form.FallbackErrorMessage {
		t.Fatalf("banner mismatch: %q", got)
	}
}

func TestSubmitHandlerPanicIsContained(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		panic("boom")
	})
	f.Controller().SetValue("age", 30)

	if status := f.Submit(context.Background()); status != form.StatusHandlerFailed {
		t.Fatalf("expected handler failure")
	}
	if got := f.GlobalError(); got != "boom" {
		t.Fatalf("banner mismatch: %q", got)
	}
}

func TestSubmitClearsPreviousGlobalError(t *testing.T) {
	fail := true
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		if fail {
			return errors.New("first failure")
		}
		return nil
	})
	f.Controller().SetValue("age", 30)

	f.Submit(context.Background())
	if f.GlobalError() == "" {
		t.Fatalf("expected failure banner")
	}

	fail = false
	if status := f.Submit(context.Background()); status != form.StatusSucceeded {
		t.Fatalf("expected success")
	}
	if got := f.GlobalError(); got != "" {
		t.Fatalf("banner should clear on success, got %q", got)
	}
}

func TestResetOnSuccessRestoresDefaults(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return nil
	}, form.WithResetOnSuccess())

	ctrl := f.Controller()
	ctrl.SetValue("name", "Grace")
	ctrl.SetValue("age", "42")

	if status := f.Submit(context.Background()); status != form.StatusSucceeded {
		t.Fatalf("expected success, got %q", f.GlobalError())
	}

	got, _ := ctrl.Value("name")
	if got != "Ada" {
		t.Fatalf("name not reset: %v", got)
	}
	if _, ok := ctrl.Value("age"); ok {
		t.Fatalf("age should be absent after reset to defaults")
	}
	if ctrl.Dirty("name") {
		t.Fatalf("dirty flags should clear on reset")
	}
}

func TestOnErrorReceivesFullErrorMap(t *testing.T) {
	var captured schema.Errors
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return nil
	}, form.WithDefaults(map[string]any{}), form.WithOnError(func(errs schema.Errors) {
		captured = errs
	}))

	f.Submit(context.Background())

	want := schema.Errors{
		"name": "This field is required",
		"age":  "This field is required",
	}
	if diff := cmp.Diff(want, captured); diff != "" {
		t.Fatalf("error map mismatch (-want +got):\n%s", diff)
	}
}

func TestDismissError(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return errors.New("nope")
	})
	f.Controller().SetValue("age", 30)

	f.Submit(context.Background())
	if f.GlobalError() == "" {
		t.Fatalf("expected banner")
	}
	f.DismissError()
	if got := f.GlobalError(); got != "" {
		t.Fatalf("banner should clear on dismissal, got %q", got)
	}
}

func TestViewSnapshot(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return nil
	}, form.WithID("profile-form"), form.WithClass("stack"))

	f.Controller().SetValue("age", "10")
	f.Submit(context.Background())

	view := f.View()
	if view.ID != "profile-form" || view.Class != "stack" {
		t.Fatalf("id/class passthrough broken: %+v", view)
	}
	if !view.ShowGlobalError {
		t.Fatalf("global error shown by default")
	}
	if view.GlobalError != "Please fix 1 validation error" {
		t.Fatalf("view banner mismatch: %q", view.GlobalError)
	}
	if view.FieldErrors["age"] == "" {
		t.Fatalf("view should carry field errors")
	}
}

func TestModeOnBlurValidatesTouchedFields(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return nil
	})
	ctrl := f.Controller()

	// Changes before first blur stay silent.
	ctrl.SetValue("age", "10")
	if got := ctrl.FieldError("age"); got != "" {
		t.Fatalf("field validated before blur: %q", got)
	}

	ctrl.Blur("age")
	if got := ctrl.FieldError("age"); got != "Must be at least 18" {
		t.Fatalf("blur validation missing: %q", got)
	}

	// Once touched, every change re-validates.
	ctrl.SetValue("age", "30")
	if got := ctrl.FieldError("age"); got != "" {
		t.Fatalf("error should clear after fix: %q", got)
	}
}

func TestModeOnSubmitDefersValidation(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return nil
	}, form.WithMode(form.ModeOnSubmit))
	ctrl := f.Controller()

	ctrl.SetValue("age", "10")
	ctrl.Blur("age")
	if got := ctrl.FieldError("age"); got != "" {
		t.Fatalf("ModeOnSubmit should not validate on blur: %q", got)
	}
}
