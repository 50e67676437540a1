package template

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTemplate []byte

// Load reads, parses and validates the template file at path.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a YAML template document and validates it. Unknown keys
// are rejected.
func Parse(data []byte) (*Template, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse template: empty document")
		}
		return nil, fmt.Errorf("parse template: %w", err)
	}

	t := doc.CourseStructure
	if t.Version == "" {
		t.Version = doc.Version
	}
	if err := Validate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Default returns the built-in template.
func Default() *Template {
	t, err := Parse(defaultTemplate)
	if err != nil {
		panic(fmt.Sprintf("built-in template is invalid: %v", err))
	}
	return t
}

// LoadOrDefault loads path, or returns the built-in template when path is
// empty.
func LoadOrDefault(path string) (*Template, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Marshal encodes t in the on-disk layout.
func Marshal(t *Template) ([]byte, error) {
	doc := document{Version: t.Version, CourseStructure: *t}
	doc.CourseStructure.Version = ""
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return buf.Bytes(), nil
}
