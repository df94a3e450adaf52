package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog errors
	ErrMsgDefinitionNotFound = "weapon definition not found"
	ErrMsgInstanceNotFound   = "card instance not found"
	ErrMsgInvalidDefinition  = "invalid weapon definition"

	// Import errors
	ErrMsgCatalogDocument = "malformed catalog document"
	ErrMsgVersionFormat   = "unparsable catalog version"

	// Session errors
	ErrMsgSessionNotFound = "session not found"

	// Customization errors
	ErrMsgPresetNotFound = "preset not found"
	ErrMsgRecordNotFound = "customization record not found"
	ErrMsgPresetExists   = "preset name already exists"

	// Migration errors
	ErrMsgMigrationValidation = "migration validation failed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Catalog errors
	ErrDefinitionNotFound = errors.New(ErrMsgDefinitionNotFound)
	ErrInstanceNotFound   = errors.New(ErrMsgInstanceNotFound)
	ErrInvalidDefinition  = errors.New(ErrMsgInvalidDefinition)

	// Import errors
	ErrCatalogDocument = errors.New(ErrMsgCatalogDocument)
	ErrVersionFormat   = errors.New(ErrMsgVersionFormat)

	// Session errors
	ErrSessionNotFound = errors.New(ErrMsgSessionNotFound)

	// Customization errors
	ErrPresetNotFound = errors.New(ErrMsgPresetNotFound)
	ErrRecordNotFound = errors.New(ErrMsgRecordNotFound)
	ErrPresetExists   = errors.New(ErrMsgPresetExists)

	// Migration errors
	ErrMigrationValidation = errors.New(ErrMsgMigrationValidation)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
