package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// ErrorMapping splits a backend error payload into field-level and
// form-level messages keyed by the dotted paths used throughout the render
// pipeline.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrorPayload normalises server error payloads (JSON pointer, bracketed,
// or dotted paths, possibly prefixed with request wrappers like "body") into
// the schema's dotted field identifiers. Paths that do not resolve to a
// known field become form-level messages so nothing is silently dropped.
func MapErrorPayload(s *schema.Schema, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{})
	if s != nil {
		for _, path := range s.Paths() {
			known[path] = struct{}{}
		}
	}

	for rawPath, messages := range payload {
		cleaned := normalizeMessages(messages)
		if len(cleaned) == 0 {
			continue
		}
		if mapped, ok := resolveErrorPath(rawPath, known); ok {
			mapping.Fields[mapped] = append(mapping.Fields[mapped], cleaned...)
			continue
		}
		mapping.Form = append(mapping.Form, cleaned...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates form-level error slices, trimming whitespace
// and dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func resolveErrorPath(raw string, known map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) || len(known) == 0 {
		return "", false
	}
	segments := splitErrorPath(raw)
	if len(segments) == 0 {
		return "", false
	}

	for _, candidate := range [][]string{
		segments,
		dropWrapperSegments(segments),
		stripIndexSegments(segments),
		stripIndexSegments(dropWrapperSegments(segments)),
	} {
		if path := longestKnownPrefix(candidate, known); path != "" {
			return path, true
		}
	}
	return "", false
}

// splitErrorPath tolerates JSON pointers ("#/body/name"), JSONPath
// ("$.body.name"), and bracketed indices ("tags[0]").
func splitErrorPath(raw string) []string {
	clean := strings.TrimSpace(raw)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "$") ||
		strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") {
		clean = clean[1:]
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body": {}, "request": {}, "payload": {}, "data": {}, "attributes": {},
	}
	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripIndexSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestKnownPrefix(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
