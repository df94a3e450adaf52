package customization

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/logger"
)

// ConflictPolicy decides what an import does when the document's preset name
// is already taken. There is no default; callers choose explicitly.
type ConflictPolicy string

const (
	ConflictReject  ConflictPolicy = "reject"
	ConflictRename  ConflictPolicy = "rename"
	ConflictReplace ConflictPolicy = "replace"
)

// PresetDocument is the portable form of a preset and its records.
type PresetDocument struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Records     []RecordEntry `json:"records"`
}

// RecordEntry is one customization tuple inside a preset document.
type RecordEntry struct {
	DefinitionID  string `json:"definition_id"`
	Enabled       bool   `json:"enabled"`
	CountOverride *int   `json:"count_override,omitempty"`
	Priority      int    `json:"priority"`
}

// ExportPreset renders a preset with its records as a portable JSON
// document. Records are ordered by priority, then definition id, so exports
// are deterministic.
func (s *service) ExportPreset(ctx context.Context, presetID int64) ([]byte, error) {
	preset, err := s.repo.GetPreset(ctx, presetID)
	if err != nil {
		return nil, fmt.Errorf("failed to export preset %d: %w", presetID, err)
	}

	records, err := s.repo.ListPresetRecords(ctx, presetID)
	if err != nil {
		return nil, fmt.Errorf("failed to export preset %d: %w", presetID, err)
	}

	doc := PresetDocument{
		Name:        preset.Name,
		Description: preset.Description,
		Records:     make([]RecordEntry, 0, len(records)),
	}
	for _, r := range records {
		doc.Records = append(doc.Records, RecordEntry{
			DefinitionID:  r.DefinitionID,
			Enabled:       r.Enabled,
			CountOverride: r.CountOverride,
			Priority:      r.Priority,
		})
	}
	sort.Slice(doc.Records, func(i, j int) bool {
		if doc.Records[i].Priority != doc.Records[j].Priority {
			return doc.Records[i].Priority > doc.Records[j].Priority
		}
		return doc.Records[i].DefinitionID < doc.Records[j].DefinitionID
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode preset document: %w", err)
	}
	return data, nil
}

// ImportPreset creates a preset from a document produced by ExportPreset.
// Entries referencing definitions this catalog does not know are skipped
// with a warning.
func (s *service) ImportPreset(ctx context.Context, data []byte, onConflict ConflictPolicy) (*domain.Preset, error) {
	log := logger.FromContext(ctx)

	var doc PresetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: preset document has no name", domain.ErrInvalidInput)
	}

	name, err := s.resolveImportName(ctx, doc.Name, onConflict)
	if err != nil {
		return nil, err
	}

	preset, err := s.CreatePreset(ctx, name, doc.Description)
	if err != nil {
		return nil, err
	}

	imported, err := s.importRecords(ctx, preset.ID, &doc)
	if err != nil {
		return nil, err
	}

	log.Info("preset imported",
		"preset", name,
		"records", imported,
		"skipped", len(doc.Records)-imported)
	return preset, nil
}
