package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/repository"
)

// FakeRepository is a stateful in-memory implementation of repository.Catalog
// for testing. Import transactions stage their writes and apply them on
// Commit, so rollback behavior can be exercised without a database.
type FakeRepository struct {
	mu          sync.Mutex
	definitions map[string]*domain.WeaponDefinition
	instances   map[string][]domain.CardInstance // keyed by definition id
	version     *domain.CatalogVersion
	referenced  map[string]bool // instance serials held by inventory items
	nextID      int64

	// CommitErr, when set, is returned by the next ImportTx.Commit.
	CommitErr error
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		definitions: make(map[string]*domain.WeaponDefinition),
		instances:   make(map[string][]domain.CardInstance),
		referenced:  make(map[string]bool),
	}
}

// AddDefinition seeds a definition together with copies 1..count.
func (f *FakeRepository) AddDefinition(def domain.WeaponDefinition, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := def
	f.definitions[def.ID] = &d
	for i := 1; i <= count; i++ {
		f.nextID++
		f.instances[def.ID] = append(f.instances[def.ID], domain.CardInstance{
			ID:           f.nextID,
			DefinitionID: def.ID,
			CopyIndex:    i,
			Serial:       domain.InstanceSerial(def.ID, i),
			CreatedAt:    time.Now(),
		})
	}
}

// MarkReferenced records that an inventory item holds the given serial,
// protecting that instance from shrink deletion.
func (f *FakeRepository) MarkReferenced(serial string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.referenced[serial] = true
}

func (f *FakeRepository) GetDefinitionByID(ctx context.Context, id string) (*domain.WeaponDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	def, ok := f.definitions[id]
	if !ok {
		return nil, domain.ErrDefinitionNotFound
	}
	d := *def
	return &d, nil
}

func (f *FakeRepository) GetDefinitionByNameAndSet(ctx context.Context, name, set string) (*domain.WeaponDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, def := range f.definitions {
		if strings.EqualFold(def.Name, name) && strings.EqualFold(def.Set, set) {
			d := *def
			return &d, nil
		}
	}
	return nil, domain.ErrDefinitionNotFound
}

func (f *FakeRepository) ListDefinitions(ctx context.Context) ([]domain.WeaponDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedDefinitions(), nil
}

func (f *FakeRepository) ListDefinitionsByDeckType(ctx context.Context, deckType domain.DeckType) ([]domain.WeaponDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.WeaponDefinition
	for _, def := range f.sortedDefinitions() {
		if def.DeckType == deckType {
			out = append(out, def)
		}
	}
	return out, nil
}

func (f *FakeRepository) ListDefinitionsByCategory(ctx context.Context, category domain.Category) ([]domain.WeaponDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.WeaponDefinition
	for _, def := range f.sortedDefinitions() {
		if def.Category == category {
			out = append(out, def)
		}
	}
	return out, nil
}

func (f *FakeRepository) ListInstancesByDefinition(ctx context.Context, definitionID string) ([]domain.CardInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.CardInstance(nil), f.instances[definitionID]...), nil
}

func (f *FakeRepository) CountInstances(ctx context.Context, definitionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.instances[definitionID]), nil
}

func (f *FakeRepository) GetCatalogVersion(ctx context.Context) (*domain.CatalogVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.version == nil {
		return &domain.CatalogVersion{}, nil
	}
	v := *f.version
	return &v, nil
}

func (f *FakeRepository) BeginImport(ctx context.Context) (repository.ImportTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tx := &fakeImportTx{
		repo:        f,
		definitions: make(map[string]*domain.WeaponDefinition, len(f.definitions)),
		instances:   make(map[string][]domain.CardInstance, len(f.instances)),
		version:     f.version,
		nextID:      f.nextID,
	}
	for id, def := range f.definitions {
		d := *def
		tx.definitions[id] = &d
	}
	for id, copies := range f.instances {
		tx.instances[id] = append([]domain.CardInstance(nil), copies...)
	}
	return tx, nil
}

func (f *FakeRepository) sortedDefinitions() []domain.WeaponDefinition {
	out := make([]domain.WeaponDefinition, 0, len(f.definitions))
	for _, def := range f.definitions {
		out = append(out, *def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// fakeImportTx stages writes against copies of the repository state and
// publishes them on Commit.
type fakeImportTx struct {
	repo        *FakeRepository
	definitions map[string]*domain.WeaponDefinition
	instances   map[string][]domain.CardInstance
	version     *domain.CatalogVersion
	nextID      int64
	done        bool
}

func (tx *fakeImportTx) ListDefinitions(ctx context.Context) ([]domain.WeaponDefinition, error) {
	out := make([]domain.WeaponDefinition, 0, len(tx.definitions))
	for _, def := range tx.definitions {
		out = append(out, *def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (tx *fakeImportTx) InsertDefinition(ctx context.Context, def *domain.WeaponDefinition) error {
	d := *def
	tx.definitions[def.ID] = &d
	return nil
}

func (tx *fakeImportTx) UpdateDefinition(ctx context.Context, def *domain.WeaponDefinition) error {
	if _, ok := tx.definitions[def.ID]; !ok {
		return domain.ErrDefinitionNotFound
	}
	d := *def
	tx.definitions[def.ID] = &d
	return nil
}

func (tx *fakeImportTx) SetDeprecated(ctx context.Context, definitionID string, deprecated bool) error {
	def, ok := tx.definitions[definitionID]
	if !ok {
		return domain.ErrDefinitionNotFound
	}
	def.Deprecated = deprecated
	return nil
}

func (tx *fakeImportTx) CountInstances(ctx context.Context, definitionID string) (int, error) {
	return len(tx.instances[definitionID]), nil
}

func (tx *fakeImportTx) InsertInstances(ctx context.Context, definitionID string, n int) error {
	base := 0
	serials := make(map[string]bool, len(tx.instances[definitionID]))
	for _, inst := range tx.instances[definitionID] {
		if inst.CopyIndex > base {
			base = inst.CopyIndex
		}
		serials[inst.Serial] = true
	}
	for i := base + 1; i <= base+n; i++ {
		serial := domain.InstanceSerial(definitionID, i)
		// Same rejection the UNIQUE(serial) constraint gives in Postgres.
		if serials[serial] {
			return fmt.Errorf("duplicate serial %s", serial)
		}
		tx.nextID++
		tx.instances[definitionID] = append(tx.instances[definitionID], domain.CardInstance{
			ID:           tx.nextID,
			DefinitionID: definitionID,
			CopyIndex:    i,
			Serial:       serial,
			CreatedAt:    time.Now(),
		})
	}
	return nil
}

func (tx *fakeImportTx) DeleteUnreferencedInstances(ctx context.Context, definitionID string, surplus int) (int, error) {
	copies := tx.instances[definitionID]
	sort.Slice(copies, func(i, j int) bool { return copies[i].CopyIndex > copies[j].CopyIndex })

	removed := 0
	kept := make([]domain.CardInstance, 0, len(copies))
	for _, inst := range copies {
		if removed < surplus && !tx.repo.referenced[inst.Serial] {
			removed++
			continue
		}
		kept = append(kept, inst)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].CopyIndex < kept[j].CopyIndex })
	tx.instances[definitionID] = kept
	return removed, nil
}

func (tx *fakeImportTx) UpsertCatalogVersion(ctx context.Context, version domain.CatalogVersion) error {
	v := version
	tx.version = &v
	return nil
}

func (tx *fakeImportTx) Commit(ctx context.Context) error {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()
	if tx.done {
		return nil
	}
	tx.done = true
	if tx.repo.CommitErr != nil {
		err := tx.repo.CommitErr
		tx.repo.CommitErr = nil
		return err
	}
	tx.repo.definitions = tx.definitions
	tx.repo.instances = tx.instances
	tx.repo.version = tx.version
	tx.repo.nextID = tx.nextID
	return nil
}

func (tx *fakeImportTx) Rollback(ctx context.Context) error {
	tx.done = true
	return nil
}
