package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDoc = `
name: article
title: New Article
fields:
  - name: title
    type: string
    required: true
    rules:
      - kind: minLength
        params:
          value: "3"
  - name: rating
    type: integer
    widget: rating
    rules:
      - kind: min
        params: {value: "1"}
      - kind: max
        params: {value: "5"}
`

func TestParseYAML(t *testing.T) {
	s, err := ParseYAML([]byte(yamlDoc))
	require.NoError(t, err)

	assert.Equal(t, "article", s.Name)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, WidgetRating, s.Fields[1].Widget)
	assert.Equal(t, "3", s.Fields[0].RuleParam(RuleMinLength, "value"))
}

func TestParseJSON(t *testing.T) {
	doc := `{"name":"login","fields":[{"name":"password","type":"string","widget":"password","required":true}]}`
	s, err := ParseJSON([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, WidgetPassword, s.Fields[0].Widget)
}

func TestParseTOML(t *testing.T) {
	doc := `
name = "signup"

[[fields]]
name = "email"
type = "string"
required = true
`
	s, err := ParseTOML([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "email", s.Fields[0].Name)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	_, err := ParseJSON([]byte(`{"name":"empty","fields":[]}`))
	assert.Error(t, err)

	_, err = ParseJSON([]byte(`{"fields":[{"name":"tags","type":"array"}]}`))
	assert.Error(t, err)

	_, err = ParseJSON([]byte(`{"fields":[{"name":"a","type":"string"},{"name":"a","type":"string"}]}`))
	assert.Error(t, err)
}

func TestLoadFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "form.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "article", s.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultValues(t *testing.T) {
	s := &Schema{
		Fields: []Field{
			{Name: "level", Type: TypeInteger, Default: 3},
			{Name: "owner", Type: TypeObject, Nested: []Field{
				{Name: "role", Type: TypeString, Default: "viewer"},
			}},
			{Name: "name", Type: TypeString},
		},
	}

	assert.Equal(t, map[string]any{
		"level": 3,
		"owner": map[string]any{"role": "viewer"},
	}, s.DefaultValues())
}
