package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"count": {"type": "integer", "minimum": 1}
	},
	"required": ["name"]
}`

func writeTestSchema(t *testing.T) string {
	t.Helper()
	schemaPath := filepath.Join(t.TempDir(), "test.schema.json")
	if err := os.WriteFile(schemaPath, []byte(testSchema), 0644); err != nil {
		t.Fatalf("failed to write schema file: %v", err)
	}
	return schemaPath
}

func TestSchemaValidator_ValidateBytes(t *testing.T) {
	validator := NewSchemaValidator()
	schemaPath := writeTestSchema(t)

	tests := []struct {
		name      string
		data      string
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid document",
			data: `{"name": "blade", "count": 3}`,
		},
		{
			name: "valid without optional field",
			data: `{"name": "blade"}`,
		},
		{
			name:      "missing required field",
			data:      `{"count": 3}`,
			wantError: true,
			errorMsg:  "required",
		},
		{
			name:      "wrong type",
			data:      `{"name": "blade", "count": "three"}`,
			wantError: true,
			errorMsg:  "type",
		},
		{
			name:      "below minimum",
			data:      `{"name": "blade", "count": 0}`,
			wantError: true,
			errorMsg:  "minimum",
		},
		{
			name:      "malformed JSON",
			data:      `{"name": `,
			wantError: true,
			errorMsg:  "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateBytes([]byte(tt.data), schemaPath)
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSchemaValidator_ValidateFile(t *testing.T) {
	validator := NewSchemaValidator()
	schemaPath := writeTestSchema(t)

	dataPath := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(dataPath, []byte(`{"name": "blade", "count": 2}`), 0644); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}

	if err := validator.ValidateFile(dataPath, schemaPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := validator.ValidateFile(filepath.Join(t.TempDir(), "missing.json"), schemaPath); err == nil {
		t.Fatal("expected error for missing data file")
	}
}

func TestSchemaValidator_SchemaCaching(t *testing.T) {
	validator := NewSchemaValidator()
	schemaPath := writeTestSchema(t)

	for i := 0; i < 3; i++ {
		if err := validator.ValidateBytes([]byte(`{"name": "blade"}`), schemaPath); err != nil {
			t.Fatalf("pass %d: unexpected error: %v", i, err)
		}
	}
	if len(validator.schemas) != 1 {
		t.Errorf("expected 1 cached schema, got %d", len(validator.schemas))
	}

	if err := validator.ValidateBytes([]byte(`{"name": "blade"}`), filepath.Join(t.TempDir(), "missing.schema.json")); err == nil {
		t.Fatal("expected error for missing schema")
	}
}
