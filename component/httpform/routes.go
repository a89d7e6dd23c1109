package httpform

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-formkit/pkg/render"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the full mount path for the component route under
// basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes registers the form handler under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, factory FormFactory, renderer render.Renderer, fns ...OptionFn) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, factory, renderer, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers a handler under basePath using a
// pre-built Options value.
func RegisterRoutesWithOptions(mux Mux, basePath string, factory FormFactory, renderer render.Renderer, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("httpform: missing mux")
	}
	if factory == nil {
		return "", fmt.Errorf("httpform: missing form factory")
	}
	if renderer == nil {
		return "", fmt.Errorf("httpform: missing renderer")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	pattern := mountPath(basePath, opts.RoutePath)
	mux.Handle(pattern, HandlerWithOptions(factory, renderer, opts))
	return pattern, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
