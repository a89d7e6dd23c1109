package values

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyPatch applies an RFC 6902 JSON patch document to the tree. The tree is
// serialised, patched, and replaced atomically: a failing patch leaves the
// tree untouched.
func (t *Tree) ApplyPatch(patch []byte) error {
	if t == nil {
		return fmt.Errorf("values: tree is nil")
	}

	decoded, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("values: decode patch: %w", err)
	}

	doc, err := json.Marshal(t.rootOrEmpty())
	if err != nil {
		return fmt.Errorf("values: marshal tree: %w", err)
	}

	patched, err := decoded.Apply(doc)
	if err != nil {
		return fmt.Errorf("values: apply patch: %w", err)
	}

	next := make(map[string]any)
	if err := json.Unmarshal(patched, &next); err != nil {
		return fmt.Errorf("values: unmarshal patched tree: %w", err)
	}
	t.root = next
	return nil
}

// MergePatch applies an RFC 7386 merge patch, useful for bulk prefill where
// callers hold a partial value document rather than an operation list.
func (t *Tree) MergePatch(patch []byte) error {
	if t == nil {
		return fmt.Errorf("values: tree is nil")
	}

	doc, err := json.Marshal(t.rootOrEmpty())
	if err != nil {
		return fmt.Errorf("values: marshal tree: %w", err)
	}

	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return fmt.Errorf("values: merge patch: %w", err)
	}

	next := make(map[string]any)
	if err := json.Unmarshal(merged, &next); err != nil {
		return fmt.Errorf("values: unmarshal merged tree: %w", err)
	}
	t.root = next
	return nil
}

func (t *Tree) rootOrEmpty() map[string]any {
	if t.root == nil {
		return map[string]any{}
	}
	return t.root
}
