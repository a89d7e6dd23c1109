package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a schema document from JSON.
func ParseJSON(raw []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("schema: parse json: %w", err)
	}
	if err := validateDocument(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseYAML decodes a schema document from YAML.
func ParseYAML(raw []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}
	if err := validateDocument(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseTOML decodes a schema document from TOML.
func ParseTOML(raw []byte) (*Schema, error) {
	var s Schema
	if err := toml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("schema: parse toml: %w", err)
	}
	if err := validateDocument(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and parses a schema document, dispatching on the file
// extension (.json, .yaml/.yml, .toml).
func LoadFile(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return parseByExtension(path, raw)
}

// LoadFS reads and parses a schema document from an fs.FS, mirroring LoadFile
// for embedded schema catalogs.
func LoadFS(fsys fs.FS, path string) (*Schema, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return parseByExtension(path, raw)
}

func parseByExtension(path string, raw []byte) (*Schema, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(raw)
	case ".yaml", ".yml":
		return ParseYAML(raw)
	case ".toml":
		return ParseTOML(raw)
	default:
		return nil, fmt.Errorf("schema: unsupported document extension %q", filepath.Ext(path))
	}
}

func validateDocument(s *Schema) error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema: document declares no fields")
	}
	return validateFieldDefs(s.Fields, "")
}

func validateFieldDefs(fields []Field, prefix string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("schema: field at %q is missing a name", prefix)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("schema: duplicate field %q", joinPath(prefix, name))
		}
		seen[name] = struct{}{}

		path := joinPath(prefix, name)
		if field.Type == TypeArray && field.Items == nil {
			return fmt.Errorf("schema: array field %q requires items", path)
		}
		if field.Type == TypeObject && len(field.Nested) == 0 {
			return fmt.Errorf("schema: object field %q requires nested fields", path)
		}
		if len(field.Nested) > 0 {
			if err := validateFieldDefs(field.Nested, path); err != nil {
				return err
			}
		}
		if field.Items != nil && len(field.Items.Nested) > 0 {
			if err := validateFieldDefs(field.Items.Nested, path); err != nil {
				return err
			}
		}
	}
	return nil
}
