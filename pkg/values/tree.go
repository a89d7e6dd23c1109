package values

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tree is a value store addressed by dotted field paths ("owner.email",
// "tags.0"). Numeric segments index into slices, everything else into
// string-keyed maps. Intermediate containers are created on demand when
// writing. A Tree is not safe for concurrent use; callers that share one
// across goroutines own the synchronisation.
type Tree struct {
	root map[string]any
}

// New returns a Tree seeded with a deep copy of the provided values. A nil
// seed produces an empty tree.
func New(seed map[string]any) *Tree {
	return &Tree{root: cloneMap(seed)}
}

// Map exposes the underlying value map. Mutations through the returned map
// are visible to the tree.
func (t *Tree) Map() map[string]any {
	if t == nil {
		return nil
	}
	return t.root
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return New(nil)
	}
	return New(t.root)
}

// Get resolves a dotted path. The second return reports whether the path
// exists.
func (t *Tree) Get(path string) (any, bool) {
	if t == nil || t.root == nil || path == "" {
		return nil, false
	}
	current := any(t.root)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes a value at a dotted path, creating intermediate maps and slices
// as needed. Slices grow to accommodate out-of-range indices.
func (t *Tree) Set(path string, value any) error {
	if t == nil {
		return fmt.Errorf("values: tree is nil")
	}
	if path == "" {
		return fmt.Errorf("values: path is required")
	}
	if t.root == nil {
		t.root = make(map[string]any)
	}

	segments := strings.Split(path, ".")
	container, key, idx, err := t.walk(segments, true)
	if err != nil {
		return err
	}
	switch node := container.(type) {
	case map[string]any:
		node[key] = value
	case []any:
		node[idx] = value
	}
	return nil
}

// Delete removes the value at a dotted path. Map keys are deleted; slice
// elements are spliced out so array fields shrink. Missing paths are a no-op.
func (t *Tree) Delete(path string) error {
	if t == nil || t.root == nil || path == "" {
		return nil
	}
	segments := strings.Split(path, ".")
	if len(segments) == 1 {
		delete(t.root, segments[0])
		return nil
	}

	parentPath := strings.Join(segments[:len(segments)-1], ".")
	parent, ok := t.Get(parentPath)
	if !ok {
		return nil
	}
	last := segments[len(segments)-1]

	switch node := parent.(type) {
	case map[string]any:
		delete(node, last)
	case []any:
		idx, err := strconv.Atoi(last)
		if err != nil || idx < 0 || idx >= len(node) {
			return nil
		}
		spliced := append(node[:idx:idx], node[idx+1:]...)
		return t.Set(parentPath, spliced)
	}
	return nil
}

// Replace swaps the entire tree for a deep copy of the provided values. Used
// by reset flows that restore defaults.
func (t *Tree) Replace(src map[string]any) {
	if t == nil {
		return
	}
	t.root = cloneMap(src)
}

// Len reports the number of top-level entries.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.root)
}

// Flatten returns every leaf value keyed by its dotted path, sorted for
// deterministic iteration. Empty maps and slices produce no entries.
func (t *Tree) Flatten() map[string]any {
	if t == nil || len(t.root) == 0 {
		return nil
	}
	out := make(map[string]any)
	flattenInto(out, "", t.root)
	return out
}

// Paths returns the sorted dotted paths of every leaf in the tree.
func (t *Tree) Paths() []string {
	flat := t.Flatten()
	if len(flat) == 0 {
		return nil
	}
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// walk descends to the parent container of the final segment, returning the
// container plus the map key or slice index to assign. When create is true
// missing intermediates are materialised, guessing slice vs map from the next
// segment.
func (t *Tree) walk(segments []string, create bool) (any, string, int, error) {
	var (
		current     any = t.root
		parentMap   map[string]any
		parentSlice []any
		parentKey   string
		parentIndex = -1
	)

	for i, segment := range segments {
		last := i == len(segments)-1
		switch node := current.(type) {
		case map[string]any:
			if last {
				return node, segment, -1, nil
			}
			next, err := t.childOf(node[segment], segments[i+1], create)
			if err != nil {
				return nil, "", -1, err
			}
			node[segment] = next
			parentMap, parentSlice, parentKey, parentIndex = node, nil, segment, -1
			current = next

		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return nil, "", -1, fmt.Errorf("values: expected numeric segment, got %q", segment)
			}
			if idx < 0 {
				return nil, "", -1, fmt.Errorf("values: negative index %d", idx)
			}
			if len(node) <= idx {
				if !create {
					return nil, "", -1, fmt.Errorf("values: index %d out of range", idx)
				}
				node = append(node, make([]any, idx+1-len(node))...)
				t.reattach(parentMap, parentSlice, parentKey, parentIndex, node)
			}
			if last {
				return node, "", idx, nil
			}
			next, err := t.childOf(node[idx], segments[i+1], create)
			if err != nil {
				return nil, "", -1, err
			}
			node[idx] = next
			parentMap, parentSlice, parentKey, parentIndex = nil, node, "", idx
			current = next

		default:
			return nil, "", -1, fmt.Errorf("values: unexpected container for segment %q", segment)
		}
	}
	return nil, "", -1, fmt.Errorf("values: empty path")
}

// childOf resolves or creates the container that the next segment descends
// into.
func (t *Tree) childOf(existing any, nextSegment string, create bool) (any, error) {
	if idx, err := strconv.Atoi(nextSegment); err == nil {
		child, ok := existing.([]any)
		if !ok {
			if !create {
				return nil, fmt.Errorf("values: missing slice for segment %q", nextSegment)
			}
			child = make([]any, idx+1)
		} else if len(child) <= idx {
			child = append(child, make([]any, idx+1-len(child))...)
		}
		return child, nil
	}

	child, ok := existing.(map[string]any)
	if !ok || child == nil {
		if !create {
			return nil, fmt.Errorf("values: missing map for segment %q", nextSegment)
		}
		child = make(map[string]any)
	}
	return child, nil
}

func (t *Tree) reattach(parentMap map[string]any, parentSlice []any, key string, idx int, node []any) {
	if parentMap != nil {
		parentMap[key] = node
		return
	}
	if parentSlice != nil && idx >= 0 {
		parentSlice[idx] = node
		return
	}
	// Root-level slices do not occur: the root is always a map.
}

func flattenInto(dest map[string]any, prefix string, value any) {
	switch node := value.(type) {
	case map[string]any:
		for key, child := range node {
			flattenInto(dest, joinPath(prefix, key), child)
		}
	case []any:
		for idx, child := range node {
			flattenInto(dest, joinPath(prefix, strconv.Itoa(idx)), child)
		}
	default:
		if prefix != "" {
			dest[prefix] = node
		}
	}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func cloneMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = deepCopy(value)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for key, child := range typed {
			clone[key] = deepCopy(child)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for idx, child := range typed {
			clone[idx] = deepCopy(child)
		}
		return clone
	default:
		return typed
	}
}
