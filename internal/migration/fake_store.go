package migration

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/repository"
)

// FakeStore is a stateful in-memory implementation of repository.Session and
// repository.Inventory for testing. Migration transactions stage their
// writes and apply them on Commit.
type FakeStore struct {
	mu             sync.Mutex
	sessions       map[string]*domain.Session
	items          []domain.InventoryItem
	instances      []domain.CardInstance
	definitions    map[string]*domain.WeaponDefinition
	nextItemID     int64
	nextInstanceID int64

	// CommitErr, when set, is returned by the next MigrationTx.Commit.
	CommitErr error
	// InsertItemHook, when set, can mutate items before they are staged.
	// Tests use it to manufacture invalid inventory shapes.
	InsertItemHook func(item *domain.InventoryItem)
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		sessions:    make(map[string]*domain.Session),
		definitions: make(map[string]*domain.WeaponDefinition),
	}
}

// AddSession seeds a session.
func (f *FakeStore) AddSession(session domain.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := session
	f.sessions[s.ID] = &s
}

// AddDefinition seeds a definition together with copies 1..count.
func (f *FakeStore) AddDefinition(def domain.WeaponDefinition, count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := def
	f.definitions[d.ID] = &d
	for i := 1; i <= count; i++ {
		f.nextInstanceID++
		f.instances = append(f.instances, domain.CardInstance{
			ID:           f.nextInstanceID,
			DefinitionID: d.ID,
			CopyIndex:    i,
			Serial:       domain.InstanceSerial(d.ID, i),
		})
	}
}

// AddItem seeds an inventory item directly, bypassing any migration.
func (f *FakeStore) AddItem(sessionID string, slot domain.SlotType, slotIndex int, instanceID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextItemID++
	f.items = append(f.items, domain.InventoryItem{
		ID:         f.nextItemID,
		SessionID:  sessionID,
		SlotType:   slot,
		SlotIndex:  slotIndex,
		InstanceID: instanceID,
	})
}

// Instances returns the current instances of a definition.
func (f *FakeStore) Instances(definitionID string) []domain.CardInstance {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.CardInstance
	for _, inst := range f.instances {
		if inst.DefinitionID == definitionID {
			out = append(out, inst)
		}
	}
	return out
}

// --- repository.Session ---

func (f *FakeStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	session := *s
	return &session, nil
}

func (f *FakeStore) ListSessions(ctx context.Context) ([]domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Session, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeStore) CreateSession(ctx context.Context, session *domain.Session) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := *session
	s.CreatedAt = time.Now()
	f.sessions[s.ID] = &s
	return s.ID, nil
}

// --- repository.Inventory ---

func (f *FakeStore) ListItemsBySession(ctx context.Context, sessionID string) ([]domain.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return joinItems(f.items, f.instances, f.definitions, sessionID), nil
}

func (f *FakeStore) CountItemsBySession(ctx context.Context, sessionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for i := range f.items {
		if f.items[i].SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (f *FakeStore) BeginMigration(ctx context.Context) (repository.MigrationTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &fakeMigrationTx{
		store:          f,
		items:          append([]domain.InventoryItem(nil), f.items...),
		instances:      append([]domain.CardInstance(nil), f.instances...),
		nextItemID:     f.nextItemID,
		nextInstanceID: f.nextInstanceID,
		migrated:       make(map[string]time.Time),
	}, nil
}

// fakeMigrationTx stages writes against copies of the store state.
type fakeMigrationTx struct {
	store          *FakeStore
	items          []domain.InventoryItem
	instances      []domain.CardInstance
	nextItemID     int64
	nextInstanceID int64
	migrated       map[string]time.Time
	done           bool
}

func (tx *fakeMigrationTx) InsertItem(ctx context.Context, item *domain.InventoryItem) (int64, error) {
	staged := *item
	if tx.store.InsertItemHook != nil {
		tx.store.InsertItemHook(&staged)
	}
	tx.nextItemID++
	staged.ID = tx.nextItemID
	staged.CreatedAt = time.Now()
	tx.items = append(tx.items, staged)
	return staged.ID, nil
}

func (tx *fakeMigrationTx) ListItemsBySession(ctx context.Context, sessionID string) ([]domain.InventoryItem, error) {
	return joinItems(tx.items, tx.instances, tx.store.definitions, sessionID), nil
}

func (tx *fakeMigrationTx) FindFreeInstance(ctx context.Context, definitionID string) (*domain.CardInstance, error) {
	taken := make(map[int64]bool, len(tx.items))
	for i := range tx.items {
		taken[tx.items[i].InstanceID] = true
	}
	for _, inst := range tx.instances {
		if inst.DefinitionID == definitionID && !taken[inst.ID] {
			free := inst
			return &free, nil
		}
	}
	return nil, nil
}

func (tx *fakeMigrationTx) InsertInstance(ctx context.Context, definitionID string) (*domain.CardInstance, error) {
	maxCopy := 0
	for _, inst := range tx.instances {
		if inst.DefinitionID == definitionID && inst.CopyIndex > maxCopy {
			maxCopy = inst.CopyIndex
		}
	}
	tx.nextInstanceID++
	inst := domain.CardInstance{
		ID:           tx.nextInstanceID,
		DefinitionID: definitionID,
		CopyIndex:    maxCopy + 1,
		Serial:       domain.InstanceSerial(definitionID, maxCopy+1),
	}
	tx.instances = append(tx.instances, inst)
	return &inst, nil
}

func (tx *fakeMigrationTx) MarkSessionMigrated(ctx context.Context, sessionID string, at time.Time) error {
	tx.migrated[sessionID] = at
	return nil
}

func (tx *fakeMigrationTx) Commit(ctx context.Context) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	if tx.done {
		return nil
	}
	tx.done = true
	if tx.store.CommitErr != nil {
		err := tx.store.CommitErr
		tx.store.CommitErr = nil
		return err
	}
	tx.store.items = tx.items
	tx.store.instances = tx.instances
	tx.store.nextItemID = tx.nextItemID
	tx.store.nextInstanceID = tx.nextInstanceID
	for id, at := range tx.migrated {
		if s, ok := tx.store.sessions[id]; ok {
			t := at
			s.MigratedAt = &t
		}
	}
	return nil
}

func (tx *fakeMigrationTx) Rollback(ctx context.Context) error {
	tx.done = true
	return nil
}

// joinItems attaches instances and definitions to a session's items the way
// the SQL reads do.
func joinItems(items []domain.InventoryItem, instances []domain.CardInstance, definitions map[string]*domain.WeaponDefinition, sessionID string) []domain.InventoryItem {
	byID := make(map[int64]domain.CardInstance, len(instances))
	for _, inst := range instances {
		byID[inst.ID] = inst
	}

	var out []domain.InventoryItem
	for i := range items {
		if items[i].SessionID != sessionID {
			continue
		}
		item := items[i]
		if inst, ok := byID[item.InstanceID]; ok {
			inst.Definition = definitions[inst.DefinitionID]
			item.Instance = &inst
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SlotType != out[j].SlotType {
			return out[i].SlotType < out[j].SlotType
		}
		return out[i].SlotIndex < out[j].SlotIndex
	})
	return out
}
