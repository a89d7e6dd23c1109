package render

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ResolveTheme runs a go-theme selector and folds the selection into the
// RendererConfig renderers consume. Fallback partials fill any keys the
// selected theme does not provide. A nil selector resolves to no theme.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}

	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: make(map[string]string, len(fallbacks)),
	}
	for key, partial := range fallbacks {
		cfg.Partials[key] = partial
	}
	if selection.Manifest != nil && len(selection.Manifest.Tokens) > 0 {
		cfg.Tokens = make(map[string]string, len(selection.Manifest.Tokens))
		for key, value := range selection.Manifest.Tokens {
			cfg.Tokens[key] = value
		}
	}

	themeName := selection.Theme
	cfg.AssetURL = func(asset string) string {
		return "/themes/" + themeName + "/" + strings.TrimPrefix(asset, "/")
	}
	return cfg, nil
}
