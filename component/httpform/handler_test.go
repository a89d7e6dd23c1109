package httpform_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/component/httpform"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/renderers/html"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func signupSchema() *schema.Schema {
	return &schema.Schema{
		Name: "signup",
		Fields: []schema.Field{
			{Name: "name", Type: schema.TypeString, Label: "Name", Required: true},
			{Name: "age", Type: schema.TypeInteger, Label: "Age", Required: true, Rules: []schema.Rule{schema.Min(18)}},
		},
	}
}

func newHandler(t *testing.T, submitted *map[string]any, fns ...httpform.OptionFn) http.Handler {
	t.Helper()

	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	factory := func(*http.Request) (*form.Form, error) {
		return form.New(signupSchema(), func(_ context.Context, vals map[string]any) error {
			if submitted != nil {
				*submitted = vals
			}
			return nil
		})
	}

	return httpform.Handler(factory, renderer, fns...)
}

func TestHandlerRendersFormOnGet(t *testing.T) {
	handler := newHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/signup", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="name"`) || !strings.Contains(body, `action="/signup"`) {
		t.Fatalf("unexpected body:\n%s", body)
	}
}

func TestHandlerRedirectsAfterValidSubmit(t *testing.T) {
	var submitted map[string]any
	handler := newHandler(t, &submitted, httpform.WithSuccessURL("/thanks"))

	body := url.Values{"name": {"Ada"}, "age": {"36"}, "_csrf": {"tok"}}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body:\n%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/thanks" {
		t.Fatalf("location = %q", got)
	}
	if submitted["name"] != "Ada" {
		t.Fatalf("submitted name = %v", submitted["name"])
	}
	if submitted["age"] != 36 {
		t.Fatalf("submitted age = %v (%T)", submitted["age"], submitted["age"])
	}
}

func TestHandlerRerendersInvalidSubmit(t *testing.T) {
	var submitted map[string]any
	handler := newHandler(t, &submitted)

	body := url.Values{"name": {"Ada"}, "age": {"10"}}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if submitted != nil {
		t.Fatalf("handler ran despite validation failure: %v", submitted)
	}

	rendered := rec.Body.String()
	if !strings.Contains(rendered, "Please fix 1 validation error") {
		t.Fatalf("banner missing:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Must be at least 18") {
		t.Fatalf("field error missing:\n%s", rendered)
	}
	if !strings.Contains(rendered, `value="Ada"`) {
		t.Fatalf("submitted value not preserved:\n%s", rendered)
	}
}

func TestHandlerRejectsUnknownMethods(t *testing.T) {
	handler := newHandler(t, nil)

	req := httptest.NewRequest(http.MethodDelete, "/signup", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Allow"); !strings.Contains(got, http.MethodPost) {
		t.Fatalf("allow header = %q", got)
	}
}

func TestRegisterRoutes(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	factory := func(*http.Request) (*form.Form, error) {
		return form.New(signupSchema(), func(context.Context, map[string]any) error { return nil })
	}

	mux := http.NewServeMux()
	pattern, err := httpform.RegisterRoutes(mux, "/admin", factory, renderer, httpform.WithRoutePath("/signup"))
	if err != nil {
		t.Fatalf("register routes: %v", err)
	}
	if pattern != "/admin/signup" {
		t.Fatalf("pattern = %q", pattern)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/signup", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if _, err := httpform.RegisterRoutes(nil, "", factory, renderer); err == nil {
		t.Fatal("expected error for nil mux")
	}
}
