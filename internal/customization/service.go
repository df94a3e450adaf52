package customization

import (
	"context"
	"errors"
	"fmt"

	"github.com/nvalden/arsenal/internal/catalog"
	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/logger"
	"github.com/nvalden/arsenal/internal/repository"
)

// Service manages presets and per-definition customization records and
// resolves the effective customization a deck load consumes.
type Service interface {
	// Presets
	CreatePreset(ctx context.Context, name, description string) (*domain.Preset, error)
	GetPreset(ctx context.Context, id int64) (*domain.Preset, error)
	GetPresetByName(ctx context.Context, name string) (*domain.Preset, error)
	ListPresets(ctx context.Context) ([]domain.Preset, error)
	UpdatePreset(ctx context.Context, preset *domain.Preset) error
	DeletePreset(ctx context.Context, id int64) error

	// Records
	CreateRecord(ctx context.Context, record domain.CustomizationRecord) (*domain.CustomizationRecord, error)
	UpdateRecord(ctx context.Context, record domain.CustomizationRecord) error
	DeleteRecord(ctx context.Context, id int64) error
	ListGlobalRecords(ctx context.Context) ([]domain.CustomizationRecord, error)
	ListPresetRecords(ctx context.Context, presetID int64) ([]domain.CustomizationRecord, error)

	// ResolveEffective applies precedence: preset-scoped record over global
	// record over the definition default. Within a scope the highest
	// priority record wins.
	ResolveEffective(ctx context.Context, definitionID string, presetID *int64) (domain.EffectiveCustomization, error)

	// Preset portability
	ExportPreset(ctx context.Context, presetID int64) ([]byte, error)
	ImportPreset(ctx context.Context, data []byte, onConflict ConflictPolicy) (*domain.Preset, error)
}

type service struct {
	repo    repository.Customization
	catalog catalog.Service
}

// NewService creates a customization service backed by repo, using the
// catalog for definition defaults and existence checks.
func NewService(repo repository.Customization, catalogSvc catalog.Service) Service {
	return &service{repo: repo, catalog: catalogSvc}
}

func (s *service) CreatePreset(ctx context.Context, name, description string) (*domain.Preset, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: preset name is empty", domain.ErrInvalidInput)
	}

	preset := &domain.Preset{Name: name, Description: description}
	id, err := s.repo.CreatePreset(ctx, preset)
	if err != nil {
		return nil, fmt.Errorf("failed to create preset %s: %w", name, err)
	}
	preset.ID = id
	return preset, nil
}

func (s *service) GetPreset(ctx context.Context, id int64) (*domain.Preset, error) {
	preset, err := s.repo.GetPreset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get preset %d: %w", id, err)
	}
	return preset, nil
}

func (s *service) GetPresetByName(ctx context.Context, name string) (*domain.Preset, error) {
	preset, err := s.repo.GetPresetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get preset %s: %w", name, err)
	}
	return preset, nil
}

func (s *service) ListPresets(ctx context.Context) ([]domain.Preset, error) {
	presets, err := s.repo.ListPresets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	return presets, nil
}

func (s *service) UpdatePreset(ctx context.Context, preset *domain.Preset) error {
	if err := s.repo.UpdatePreset(ctx, preset); err != nil {
		return fmt.Errorf("failed to update preset %d: %w", preset.ID, err)
	}
	return nil
}

func (s *service) DeletePreset(ctx context.Context, id int64) error {
	if err := s.repo.DeletePreset(ctx, id); err != nil {
		return fmt.Errorf("failed to delete preset %d: %w", id, err)
	}
	return nil
}

func (s *service) CreateRecord(ctx context.Context, record domain.CustomizationRecord) (*domain.CustomizationRecord, error) {
	if record.DefinitionID == "" {
		return nil, fmt.Errorf("%w: record has no definition id", domain.ErrInvalidInput)
	}
	// The referenced definition must exist; deprecated ones may still carry
	// records so their settings survive a revival.
	if _, err := s.catalog.GetDefinition(ctx, record.DefinitionID); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	if record.PresetID != nil {
		if _, err := s.repo.GetPreset(ctx, *record.PresetID); err != nil {
			return nil, fmt.Errorf("failed to create record: %w", err)
		}
	}

	id, err := s.repo.CreateRecord(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to create record for %s: %w", record.DefinitionID, err)
	}
	record.ID = id
	return &record, nil
}

func (s *service) UpdateRecord(ctx context.Context, record domain.CustomizationRecord) error {
	if err := s.repo.UpdateRecord(ctx, &record); err != nil {
		return fmt.Errorf("failed to update record %d: %w", record.ID, err)
	}
	return nil
}

func (s *service) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record %d: %w", id, err)
	}
	return nil
}

func (s *service) ListGlobalRecords(ctx context.Context) ([]domain.CustomizationRecord, error) {
	records, err := s.repo.ListGlobalRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list global records: %w", err)
	}
	return records, nil
}

func (s *service) ListPresetRecords(ctx context.Context, presetID int64) ([]domain.CustomizationRecord, error) {
	records, err := s.repo.ListPresetRecords(ctx, presetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records of preset %d: %w", presetID, err)
	}
	return records, nil
}

func (s *service) ResolveEffective(ctx context.Context, definitionID string, presetID *int64) (domain.EffectiveCustomization, error) {
	def, err := s.catalog.GetDefinition(ctx, definitionID)
	if err != nil {
		return domain.EffectiveCustomization{}, fmt.Errorf("failed to resolve customization: %w", err)
	}

	records, err := s.repo.ListRecordsByDefinition(ctx, definitionID)
	if err != nil {
		return domain.EffectiveCustomization{}, fmt.Errorf("failed to resolve customization for %s: %w", definitionID, err)
	}

	if presetID != nil {
		if record := pickRecord(records, func(r *domain.CustomizationRecord) bool {
			return r.PresetID != nil && *r.PresetID == *presetID
		}); record != nil {
			return applyRecord(def, record), nil
		}
	}

	if record := pickRecord(records, func(r *domain.CustomizationRecord) bool {
		return r.PresetID == nil
	}); record != nil {
		return applyRecord(def, record), nil
	}

	return domain.EffectiveCustomization{Enabled: true, Count: def.DefaultCount}, nil
}

// pickRecord returns the matching record with the highest priority, newest
// record winning a tie.
func pickRecord(records []domain.CustomizationRecord, match func(*domain.CustomizationRecord) bool) *domain.CustomizationRecord {
	var best *domain.CustomizationRecord
	for i := range records {
		r := &records[i]
		if !match(r) {
			continue
		}
		if best == nil || r.Priority > best.Priority || (r.Priority == best.Priority && r.ID > best.ID) {
			best = r
		}
	}
	return best
}

func applyRecord(def *domain.WeaponDefinition, record *domain.CustomizationRecord) domain.EffectiveCustomization {
	count := def.DefaultCount
	if record.CountOverride != nil {
		count = *record.CountOverride
	}
	return domain.EffectiveCustomization{Enabled: record.Enabled, Count: count}
}

// renameLimit bounds the candidate names tried under ConflictRename.
const renameLimit = 100

func (s *service) resolveImportName(ctx context.Context, name string, onConflict ConflictPolicy) (string, error) {
	existing, err := s.repo.GetPresetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrPresetNotFound) {
			return name, nil
		}
		return "", fmt.Errorf("failed to check preset name %s: %w", name, err)
	}

	switch onConflict {
	case ConflictReject:
		return "", fmt.Errorf("%w: %s", domain.ErrPresetExists, name)
	case ConflictReplace:
		if err := s.repo.DeletePreset(ctx, existing.ID); err != nil {
			return "", fmt.Errorf("failed to replace preset %s: %w", name, err)
		}
		return name, nil
	case ConflictRename:
		for n := 2; n < renameLimit; n++ {
			candidate := fmt.Sprintf("%s (%d)", name, n)
			_, err := s.repo.GetPresetByName(ctx, candidate)
			if errors.Is(err, domain.ErrPresetNotFound) {
				return candidate, nil
			}
			if err != nil {
				return "", fmt.Errorf("failed to check preset name %s: %w", candidate, err)
			}
		}
		return "", fmt.Errorf("%w: no free name near %s", domain.ErrPresetExists, name)
	default:
		return "", fmt.Errorf("%w: unknown conflict policy %q", domain.ErrInvalidInput, onConflict)
	}
}

func (s *service) importRecords(ctx context.Context, presetID int64, doc *PresetDocument) (int, error) {
	log := logger.FromContext(ctx)

	imported := 0
	for i := range doc.Records {
		entry := &doc.Records[i]
		if _, err := s.catalog.GetDefinition(ctx, entry.DefinitionID); err != nil {
			if errors.Is(err, domain.ErrDefinitionNotFound) {
				log.Warn("preset references unknown definition, skipping",
					"definition_id", entry.DefinitionID)
				continue
			}
			return imported, fmt.Errorf("failed to check definition %s: %w", entry.DefinitionID, err)
		}

		pid := presetID
		record := &domain.CustomizationRecord{
			DefinitionID:  entry.DefinitionID,
			Enabled:       entry.Enabled,
			CountOverride: entry.CountOverride,
			Priority:      entry.Priority,
			PresetID:      &pid,
		}
		if _, err := s.repo.CreateRecord(ctx, record); err != nil {
			return imported, fmt.Errorf("failed to import record for %s: %w", entry.DefinitionID, err)
		}
		imported++
	}
	return imported, nil
}
