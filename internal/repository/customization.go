package repository

import (
	"context"

	"github.com/nvalden/arsenal/internal/domain"
)

// Customization defines the interface for preset and override persistence
type Customization interface {
	// Preset operations
	CreatePreset(ctx context.Context, preset *domain.Preset) (int64, error)
	GetPreset(ctx context.Context, id int64) (*domain.Preset, error)
	GetPresetByName(ctx context.Context, name string) (*domain.Preset, error)
	ListPresets(ctx context.Context) ([]domain.Preset, error)
	UpdatePreset(ctx context.Context, preset *domain.Preset) error
	// DeletePreset removes the preset and, by cascade, its records.
	DeletePreset(ctx context.Context, id int64) error

	// Record operations
	CreateRecord(ctx context.Context, record *domain.CustomizationRecord) (int64, error)
	UpdateRecord(ctx context.Context, record *domain.CustomizationRecord) error
	DeleteRecord(ctx context.Context, id int64) error
	// ListGlobalRecords returns records not owned by any preset.
	ListGlobalRecords(ctx context.Context) ([]domain.CustomizationRecord, error)
	// ListPresetRecords returns a preset's records in priority order.
	ListPresetRecords(ctx context.Context, presetID int64) ([]domain.CustomizationRecord, error)
	ListRecordsByDefinition(ctx context.Context, definitionID string) ([]domain.CustomizationRecord, error)
}
