package form_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-formkit/pkg/form"
)

func TestAsyncBusyDuringHandlerOnly(t *testing.T) {
	var async *form.AsyncForm
	var busyDuring bool

	base, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		busyDuring = async.Busy()
		return nil
	})
	async = form.NewAsync(base)
	async.Controller().SetValue("age", 30)

	if async.Busy() {
		t.Fatalf("busy must be false before submit")
	}
	if status := async.Submit(context.Background()); status != form.StatusSucceeded {
		t.Fatalf("expected success")
	}
	if !busyDuring {
		t.Fatalf("busy must be true while the handler runs")
	}
	if async.Busy() {
		t.Fatalf("busy must be false after submit settles")
	}
}

func TestAsyncBusyClearsOnHandlerFailure(t *testing.T) {
	var async *form.AsyncForm
	base, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return errors.New("Network timeout")
	})
	async = form.NewAsync(base)
	async.Controller().SetValue("age", 30)

	if status := async.Submit(context.Background()); status != form.StatusHandlerFailed {
		t.Fatalf("expected handler failure")
	}
	if async.Busy() {
		t.Fatalf("busy must clear even when the handler fails")
	}
	if got := async.GlobalError(); got != "Network timeout" {
		t.Fatalf("error handling must delegate to the base form: %q", got)
	}
}

func TestAsyncBusyClearsOnHandlerPanic(t *testing.T) {
	var async *form.AsyncForm
	base, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		panic("boom")
	})
	async = form.NewAsync(base)
	async.Controller().SetValue("age", 30)

	async.Submit(context.Background())
	if async.Busy() {
		t.Fatalf("busy must clear when the handler panics")
	}
}

func TestAsyncIgnoresDuplicateSubmit(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	base, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		close(started)
		<-release
		return nil
	})
	async := form.NewAsync(base)
	async.Controller().SetValue("age", 30)

	var wg sync.WaitGroup
	wg.Add(1)
	var first form.Status
	go func() {
		defer wg.Done()
		first = async.Submit(context.Background())
	}()

	<-started
	if second := async.Submit(context.Background()); second != form.StatusSkipped {
		t.Fatalf("duplicate submit must be skipped, got %v", second)
	}
	close(release)
	wg.Wait()

	if first != form.StatusSucceeded {
		t.Fatalf("first submit should succeed, got %v", first)
	}
}

func TestAsyncRetriesHandler(t *testing.T) {
	attempts := 0
	base, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	async := form.NewAsync(base,
		form.WithRetryAttempts(3),
		form.WithRetryDelay(time.Millisecond),
	)
	async.Controller().SetValue("age", 30)

	if status := async.Submit(context.Background()); status != form.StatusSucceeded {
		t.Fatalf("expected success after retries, got %q", async.GlobalError())
	}
	if attempts != 3 {
		t.Fatalf("attempts: want 3, got %d", attempts)
	}
}

func TestAsyncViewCarriesBusyFlag(t *testing.T) {
	base, _ := form.New(ageSchema(), func(ctx context.Context, vals map[string]any) error {
		return nil
	})
	async := form.NewAsync(base)

	if async.View().Busy {
		t.Fatalf("idle view must not be busy")
	}
}
