package customization

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nvalden/arsenal/internal/domain"
)

// FakeRepository is a stateful in-memory implementation of
// repository.Customization for testing.
type FakeRepository struct {
	mu           sync.Mutex
	presets      map[int64]*domain.Preset
	records      map[int64]*domain.CustomizationRecord
	nextPresetID int64
	nextRecordID int64
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		presets: make(map[int64]*domain.Preset),
		records: make(map[int64]*domain.CustomizationRecord),
	}
}

func (f *FakeRepository) CreatePreset(ctx context.Context, preset *domain.Preset) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.presets {
		if strings.EqualFold(p.Name, preset.Name) {
			return 0, domain.ErrPresetExists
		}
	}
	f.nextPresetID++
	p := *preset
	p.ID = f.nextPresetID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	f.presets[p.ID] = &p
	return p.ID, nil
}

func (f *FakeRepository) GetPreset(ctx context.Context, id int64) (*domain.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.presets[id]
	if !ok {
		return nil, domain.ErrPresetNotFound
	}
	preset := *p
	return &preset, nil
}

func (f *FakeRepository) GetPresetByName(ctx context.Context, name string) (*domain.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.presets {
		if strings.EqualFold(p.Name, name) {
			preset := *p
			return &preset, nil
		}
	}
	return nil, domain.ErrPresetNotFound
}

func (f *FakeRepository) ListPresets(ctx context.Context) ([]domain.Preset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Preset, 0, len(f.presets))
	for _, p := range f.presets {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeRepository) UpdatePreset(ctx context.Context, preset *domain.Preset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.presets[preset.ID]; !ok {
		return domain.ErrPresetNotFound
	}
	p := *preset
	p.UpdatedAt = time.Now()
	f.presets[p.ID] = &p
	return nil
}

func (f *FakeRepository) DeletePreset(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.presets[id]; !ok {
		return domain.ErrPresetNotFound
	}
	delete(f.presets, id)
	// Cascade: drop the preset's records.
	for rid, r := range f.records {
		if r.PresetID != nil && *r.PresetID == id {
			delete(f.records, rid)
		}
	}
	return nil
}

func (f *FakeRepository) CreateRecord(ctx context.Context, record *domain.CustomizationRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.PresetID != nil {
		if _, ok := f.presets[*record.PresetID]; !ok {
			return 0, domain.ErrPresetNotFound
		}
	}
	f.nextRecordID++
	r := *record
	r.ID = f.nextRecordID
	r.CreatedAt = time.Now()
	f.records[r.ID] = &r
	return r.ID, nil
}

func (f *FakeRepository) UpdateRecord(ctx context.Context, record *domain.CustomizationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	r := *record
	f.records[r.ID] = &r
	return nil
}

func (f *FakeRepository) DeleteRecord(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *FakeRepository) ListGlobalRecords(ctx context.Context) ([]domain.CustomizationRecord, error) {
	return f.listRecords(func(r *domain.CustomizationRecord) bool {
		return r.PresetID == nil
	}), nil
}

func (f *FakeRepository) ListPresetRecords(ctx context.Context, presetID int64) ([]domain.CustomizationRecord, error) {
	return f.listRecords(func(r *domain.CustomizationRecord) bool {
		return r.PresetID != nil && *r.PresetID == presetID
	}), nil
}

func (f *FakeRepository) ListRecordsByDefinition(ctx context.Context, definitionID string) ([]domain.CustomizationRecord, error) {
	return f.listRecords(func(r *domain.CustomizationRecord) bool {
		return r.DefinitionID == definitionID
	}), nil
}

func (f *FakeRepository) listRecords(match func(*domain.CustomizationRecord) bool) []domain.CustomizationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CustomizationRecord
	for _, r := range f.records {
		if match(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
