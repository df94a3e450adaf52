package validation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator validates JSON documents against JSON Schema files.
// Compiled schemas are cached, so repeated validation of the same
// document type is cheap.
type SchemaValidator struct {
	mu       sync.Mutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
}

func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

// ValidateBytes validates raw JSON data against the schema at schemaPath.
func (v *SchemaValidator) ValidateBytes(data []byte, schemaPath string) error {
	schema, err := v.loadSchema(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaPath, err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateFile validates the JSON file at dataPath against the schema at schemaPath.
func (v *SchemaValidator) ValidateFile(dataPath, schemaPath string) error {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dataPath, err)
	}
	return v.ValidateBytes(data, schemaPath)
}

func (v *SchemaValidator) loadSchema(schemaPath string) (*jsonschema.Schema, error) {
	abs, err := resolveSchemaPath(schemaPath)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.schemas[abs]; ok {
		return schema, nil
	}

	schema, err := v.compiler.Compile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	v.schemas[abs] = schema
	return schema, nil
}

// resolveSchemaPath turns a project-relative schema path into an absolute
// one. Relative paths are resolved against the module root (the nearest
// ancestor directory containing go.mod) so validation works regardless of
// the process working directory.
func resolveSchemaPath(schemaPath string) (string, error) {
	if filepath.IsAbs(schemaPath) {
		return schemaPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, schemaPath), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// No module root found, fall back to the working directory.
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve schema path: %w", err)
	}
	return abs, nil
}

func formatValidationError(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validation error: %w", err)
	}

	var b strings.Builder
	b.WriteString("document failed schema validation:")
	for _, line := range collectErrors(verr) {
		b.WriteString("\n  - ")
		b.WriteString(line)
	}
	return fmt.Errorf("%s", b.String())
}

// collectErrors flattens a validation error tree into leaf messages with
// their instance locations and the keyword that failed.
func collectErrors(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "(root)"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		keyword := "validation"
		if verr.ErrorKind != nil {
			if path := verr.ErrorKind.KeywordPath(); len(path) > 0 {
				keyword = strings.Join(path, ".")
			}
		}
		return []string{fmt.Sprintf("at %s: %s failed", loc, keyword)}
	}
	var out []string
	for _, cause := range verr.Causes {
		out = append(out, collectErrors(cause)...)
	}
	return out
}
