package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testDescriptionSchema() *Schema {
	return &Schema{
		Name:        "test-course-description",
		Description: "A rewritten course description",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"description": map[string]any{"type": "string", "minLength": 10},
				"audience":    map[string]any{"type": "string", "enum": []any{"Beginner", "Intermediate", "Advanced"}},
				"highlights": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []any{"description"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"description":"Learn Go from scratch.","audience":"Beginner"}`, false},
		{"optional omitted", `{"description":"Learn Go from scratch."}`, false},
		{"nested array", `{"description":"Learn Go from scratch.","highlights":["projects","testing"]}`, false},
		{"missing required", `{"audience":"Beginner"}`, true},
		{"too short", `{"description":"Go"}`, true},
		{"wrong type", `{"description":42}`, true},
		{"bad enum", `{"description":"Learn Go from scratch.","audience":"Guru"}`, true},
		{"bad array item", `{"description":"Learn Go from scratch.","highlights":[1]}`, true},
		{"extra field", `{"description":"Learn Go from scratch.","price":10}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testDescriptionSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %T", err)
			}
			if string(inv.Content) != tt.raw {
				t.Fatalf("content = %q, want %q", inv.Content, tt.raw)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	s := testDescriptionSchema()
	a, err := compileSchema(s)
	if err != nil {
		t.Fatal(err)
	}
	b, err := compileSchema(s)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("expected the compiled schema to be reused")
	}
}
