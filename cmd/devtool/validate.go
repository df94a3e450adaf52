package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/nvalden/arsenal/internal/config"
	"github.com/nvalden/arsenal/internal/importer"
	"github.com/nvalden/arsenal/internal/validation"
)

type ValidateCommand struct{}

func (c *ValidateCommand) Name() string {
	return "validate"
}

func (c *ValidateCommand) Description() string {
	return "Validate a weapons document against the schema without touching the database"
}

func (c *ValidateCommand) Run(args []string) error {
	path := config.ConfigPathWeapons
	if len(args) > 0 {
		path = args[0]
	}

	data, err := os.ReadFile(path) // #nosec G304 - operator-supplied path
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	if err := validation.NewSchemaValidator().ValidateBytes(data, importer.WeaponsSchemaPath); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	var doc importer.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&doc); err != nil {
		return fmt.Errorf("document validation failed: %w", err)
	}

	if _, err := importer.ParseVersion(doc.Version); err != nil {
		return fmt.Errorf("bad document version %q: %w", doc.Version, err)
	}

	PrintSuccess("%s is valid: version %s, %d weapons", path, doc.Version, len(doc.Weapons))
	return nil
}
