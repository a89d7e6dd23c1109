package inspector_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/inspector"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func TestCaptureReflectsControllerState(t *testing.T) {
	s := &schema.Schema{
		Name: "profile",
		Fields: []schema.Field{
			{Name: "name", Type: schema.TypeString, Required: true},
			{Name: "age", Type: schema.TypeInteger, Required: true, Rules: []schema.Rule{schema.Min(18)}},
		},
	}

	f, err := form.New(s, func(context.Context, map[string]any) error { return nil }, form.WithID("probe"))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	ctrl := f.Controller()
	if err := ctrl.SetValue("age", 10); err != nil {
		t.Fatalf("set value: %v", err)
	}
	f.Submit(context.Background())

	snapshot := inspector.Capture(f)

	if snapshot.FormID != "probe" {
		t.Fatalf("form id = %q", snapshot.FormID)
	}
	if snapshot.SubmitCount != 1 {
		t.Fatalf("submit count = %d", snapshot.SubmitCount)
	}
	if len(snapshot.Dirty) != 1 || snapshot.Dirty[0] != "age" {
		t.Fatalf("dirty = %v", snapshot.Dirty)
	}
	if snapshot.Errors["age"] == "" || snapshot.Errors["name"] == "" {
		t.Fatalf("errors = %v", snapshot.Errors)
	}
	if snapshot.GlobalError == "" {
		t.Fatal("expected banner text after failed submit")
	}
}

func TestDefaultInspectorIsInert(t *testing.T) {
	ins := inspector.New()
	if ins.Enabled() {
		t.Skip("recording build; inertness does not apply")
	}

	ins.Record(inspector.Snapshot{FormID: "x"})
	if got := ins.Snapshots(); got != nil {
		t.Fatalf("snapshots = %v, want nil", got)
	}
	if got := ins.Panel(); got != "" {
		t.Fatalf("panel = %q, want empty", got)
	}
}
