package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/repository"
)

// CustomizationRepository implements repository.Customization for PostgreSQL
type CustomizationRepository struct {
	pool *pgxpool.Pool
}

// NewCustomizationRepository creates a new CustomizationRepository
func NewCustomizationRepository(pool *pgxpool.Pool) repository.Customization {
	return &CustomizationRepository{pool: pool}
}

const presetColumns = `preset_id, preset_name, description, is_default, created_at, updated_at`

// CreatePreset inserts a new preset and returns its id
func (r *CustomizationRepository) CreatePreset(ctx context.Context, preset *domain.Preset) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO presets (preset_name, description, is_default)
		 VALUES ($1, $2, $3)
		 RETURNING preset_id`,
		preset.Name, preset.Description, preset.IsDefault).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", domain.ErrPresetExists, preset.Name)
		}
		return 0, fmt.Errorf("failed to create preset: %w", err)
	}
	return id, nil
}

// GetPreset retrieves one preset by id
func (r *CustomizationRepository) GetPreset(ctx context.Context, id int64) (*domain.Preset, error) {
	var p domain.Preset
	err := r.pool.QueryRow(ctx,
		`SELECT `+presetColumns+` FROM presets WHERE preset_id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", domain.ErrPresetNotFound, id)
		}
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}
	return &p, nil
}

// GetPresetByName retrieves one preset by its unique name
func (r *CustomizationRepository) GetPresetByName(ctx context.Context, name string) (*domain.Preset, error) {
	var p domain.Preset
	err := r.pool.QueryRow(ctx,
		`SELECT `+presetColumns+` FROM presets WHERE preset_name = $1`, name).
		Scan(&p.ID, &p.Name, &p.Description, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPresetNotFound, name)
		}
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}
	return &p, nil
}

// ListPresets retrieves every preset, default first then by name
func (r *CustomizationRepository) ListPresets(ctx context.Context) ([]domain.Preset, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+presetColumns+` FROM presets ORDER BY is_default DESC, preset_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	var presets []domain.Preset
	for rows.Next() {
		var p domain.Preset
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preset: %w", err)
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	return presets, nil
}

// UpdatePreset updates a preset's mutable fields
func (r *CustomizationRepository) UpdatePreset(ctx context.Context, preset *domain.Preset) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE presets SET preset_name = $2, description = $3, is_default = $4, updated_at = NOW()
		 WHERE preset_id = $1`,
		preset.ID, preset.Name, preset.Description, preset.IsDefault)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrPresetExists, preset.Name)
		}
		return fmt.Errorf("failed to update preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrPresetNotFound, preset.ID)
	}
	return nil
}

// DeletePreset removes a preset; its records go with it by cascade
func (r *CustomizationRepository) DeletePreset(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM presets WHERE preset_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrPresetNotFound, id)
	}
	return nil
}

const recordColumns = `record_id, definition_id, enabled, count_override, priority, preset_id, created_at`

// CreateRecord inserts a customization record and returns its id
func (r *CustomizationRepository) CreateRecord(ctx context.Context, record *domain.CustomizationRecord) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customization_records (definition_id, enabled, count_override, priority, preset_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING record_id`,
		record.DefinitionID, record.Enabled, intPtrToInt4(record.CountOverride),
		record.Priority, int64PtrToInt8(record.PresetID)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create customization record: %w", err)
	}
	return id, nil
}

// UpdateRecord updates a record's mutable fields
func (r *CustomizationRepository) UpdateRecord(ctx context.Context, record *domain.CustomizationRecord) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customization_records
		 SET enabled = $2, count_override = $3, priority = $4
		 WHERE record_id = $1`,
		record.ID, record.Enabled, intPtrToInt4(record.CountOverride), record.Priority)
	if err != nil {
		return fmt.Errorf("failed to update customization record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrRecordNotFound, record.ID)
	}
	return nil
}

// DeleteRecord removes one record
func (r *CustomizationRepository) DeleteRecord(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customization_records WHERE record_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customization record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", domain.ErrRecordNotFound, id)
	}
	return nil
}

// ListGlobalRecords retrieves records not owned by any preset
func (r *CustomizationRepository) ListGlobalRecords(ctx context.Context) ([]domain.CustomizationRecord, error) {
	return r.listRecords(ctx,
		`SELECT `+recordColumns+` FROM customization_records
		 WHERE preset_id IS NULL ORDER BY priority DESC, record_id`)
}

// ListPresetRecords retrieves one preset's records in priority order
func (r *CustomizationRepository) ListPresetRecords(ctx context.Context, presetID int64) ([]domain.CustomizationRecord, error) {
	return r.listRecords(ctx,
		`SELECT `+recordColumns+` FROM customization_records
		 WHERE preset_id = $1 ORDER BY priority DESC, record_id`, presetID)
}

// ListRecordsByDefinition retrieves every record touching one definition
func (r *CustomizationRepository) ListRecordsByDefinition(ctx context.Context, definitionID string) ([]domain.CustomizationRecord, error) {
	return r.listRecords(ctx,
		`SELECT `+recordColumns+` FROM customization_records
		 WHERE definition_id = $1 ORDER BY priority DESC, record_id`, definitionID)
}

func (r *CustomizationRepository) listRecords(ctx context.Context, query string, args ...any) ([]domain.CustomizationRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customization records: %w", err)
	}
	defer rows.Close()

	var records []domain.CustomizationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customization record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customization records: %w", err)
	}
	return records, nil
}
