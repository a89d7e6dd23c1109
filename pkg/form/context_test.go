package form_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/form"
)

func TestFromContextRoundTrip(t *testing.T) {
	f, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return nil
	})

	ctx := form.NewContext(context.Background(), f.Controller())
	ctrl, ok := form.FromContext(ctx)
	if !ok || ctrl != f.Controller() {
		t.Fatalf("controller not recovered from context")
	}
}

func TestFromContextMissing(t *testing.T) {
	if _, ok := form.FromContext(context.Background()); ok {
		t.Fatalf("bare context must not yield a controller")
	}
}

func TestMustFromContextPanicsOutsideScope(t *testing.T) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatalf("expected panic outside a form scope")
		}
		msg, ok := recovered.(string)
		if !ok || !strings.Contains(msg, "no controller in context") {
			t.Fatalf("panic message not descriptive: %v", recovered)
		}
	}()
	form.MustFromContext(context.Background())
}
