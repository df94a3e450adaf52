package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/nvalden/arsenal/internal/catalog"
	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/logger"
	"github.com/nvalden/arsenal/internal/metrics"
	"github.com/nvalden/arsenal/internal/repository"
)

// Report summarizes one session's migration.
type Report struct {
	SessionID       string
	AlreadyMigrated bool
	ActivePlaced    int
	BackpackPlaced  int
	SkippedParse    int
	SkippedLookup   int
}

// SessionReport pairs a session with its migration outcome in a MigrateAll
// run.
type SessionReport struct {
	SessionID string
	Report    *Report
	Err       error
}

// Service converts legacy free-text loadouts into structured inventory
// items.
type Service interface {
	// Migrate converts one session. It is idempotent: a session that
	// already owns items is a no-op.
	Migrate(ctx context.Context, sessionID string) (*Report, error)

	// Validate checks the structural invariants of a session's inventory
	// against an expected item count.
	Validate(ctx context.Context, sessionID string, expected int) (bool, []string, error)

	// MigrateAll migrates every session independently; one failure never
	// blocks the rest.
	MigrateAll(ctx context.Context) ([]SessionReport, error)
}

type service struct {
	sessions  repository.Session
	inventory repository.Inventory
	catalog   catalog.Service
}

func NewService(sessions repository.Session, inventory repository.Inventory, catalogSvc catalog.Service) Service {
	return &service{
		sessions:  sessions,
		inventory: inventory,
		catalog:   catalogSvc,
	}
}

// resolved is an entry matched to its catalog definition and destined for a
// slot.
type resolved struct {
	definitionID string
	slotType     domain.SlotType
	slotIndex    int
}

func (s *service) Migrate(ctx context.Context, sessionID string) (*Report, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate session %s: %w", sessionID, err)
	}

	count, err := s.inventory.CountItemsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate session %s: %w", sessionID, err)
	}
	if session.Migrated() || count > 0 {
		log.Info("session already migrated, skipping", "session_id", sessionID, "items", count)
		metrics.MigrationsRun.WithLabelValues(metrics.OutcomeNoop).Inc()
		return &Report{SessionID: sessionID, AlreadyMigrated: true}, nil
	}

	report := &Report{SessionID: sessionID}
	plan, err := s.buildPlan(ctx, session, report)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, sessionID, plan); err != nil {
		if _, ok := err.(*ValidationError); ok {
			metrics.MigrationsRun.WithLabelValues(metrics.OutcomeRolledBack).Inc()
		} else {
			metrics.MigrationsRun.WithLabelValues(metrics.OutcomeFailed).Inc()
		}
		return nil, err
	}

	metrics.MigrationsRun.WithLabelValues(metrics.OutcomeMigrated).Inc()
	log.Info("session migrated",
		"session_id", sessionID,
		"active", report.ActivePlaced,
		"backpack", report.BackpackPlaced,
		"skipped_parse", report.SkippedParse,
		"skipped_lookup", report.SkippedLookup)
	return report, nil
}

// buildPlan parses both legacy fields and resolves entries against the
// catalog. Unresolvable entries are logged and skipped.
func (s *service) buildPlan(ctx context.Context, session *domain.Session, report *Report) ([]resolved, error) {
	log := logger.FromContext(ctx)

	defs, err := s.catalog.ListDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog for migration: %w", err)
	}
	byKey := make(map[string]*domain.WeaponDefinition, len(defs))
	for i := range defs {
		byKey[entryKey(defs[i].Name, defs[i].Set)] = &defs[i]
	}

	fields := []struct {
		slot domain.SlotType
		text string
	}{
		{domain.SlotActive, session.ActiveLoadoutText},
		{domain.SlotBackpack, session.BackpackText},
	}

	var plan []resolved
	for _, field := range fields {
		entries, malformed := parseLoadout(field.text)
		for _, bad := range malformed {
			log.Warn("malformed loadout entry, skipping",
				"session_id", session.ID, "slot_type", field.slot, "entry", bad)
			metrics.MigrationEntriesSkipped.WithLabelValues(metrics.ReasonParse).Inc()
			report.SkippedParse++
		}

		slotIndex := 0
		for _, entry := range entries {
			def, ok := byKey[entryKey(entry.Name, entry.Set)]
			if !ok {
				log.Warn("loadout entry matches no definition, skipping",
					"session_id", session.ID, "slot_type", field.slot, "entry", entry.Raw)
				metrics.MigrationEntriesSkipped.WithLabelValues(metrics.ReasonLookup).Inc()
				report.SkippedLookup++
				continue
			}

			plan = append(plan, resolved{
				definitionID: def.ID,
				slotType:     field.slot,
				slotIndex:    slotIndex,
			})
			slotIndex++
			if field.slot == domain.SlotActive {
				report.ActivePlaced++
			} else {
				report.BackpackPlaced++
			}
		}
	}
	return plan, nil
}

// apply places the plan inside one transaction and validates the result
// before committing. A failed validation rolls everything back, legacy text
// untouched.
func (s *service) apply(ctx context.Context, sessionID string, plan []resolved) error {
	tx, err := s.inventory.BeginMigration(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	for _, r := range plan {
		instance, err := tx.FindFreeInstance(ctx, r.definitionID)
		if err != nil {
			return fmt.Errorf("failed to find instance of %s: %w", r.definitionID, err)
		}
		if instance == nil {
			// Every printed copy is taken; mint an ad-hoc one.
			instance, err = tx.InsertInstance(ctx, r.definitionID)
			if err != nil {
				return fmt.Errorf("failed to create instance of %s: %w", r.definitionID, err)
			}
		}

		item := &domain.InventoryItem{
			SessionID:  sessionID,
			SlotType:   r.slotType,
			SlotIndex:  r.slotIndex,
			InstanceID: instance.ID,
		}
		if _, err := tx.InsertItem(ctx, item); err != nil {
			return fmt.Errorf("failed to place item in %s slot %d: %w", r.slotType, r.slotIndex, err)
		}
	}

	items, err := tx.ListItemsBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to read back migrated items: %w", err)
	}
	if violations := checkInvariants(items, len(plan)); len(violations) > 0 {
		return &ValidationError{SessionID: sessionID, Violations: violations}
	}

	if err := tx.MarkSessionMigrated(ctx, sessionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark session migrated: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}

func (s *service) Validate(ctx context.Context, sessionID string, expected int) (bool, []string, error) {
	items, err := s.inventory.ListItemsBySession(ctx, sessionID)
	if err != nil {
		return false, nil, fmt.Errorf("failed to validate session %s: %w", sessionID, err)
	}
	violations := checkInvariants(items, expected)
	return len(violations) == 0, violations, nil
}

func (s *service) MigrateAll(ctx context.Context) ([]SessionReport, error) {
	log := logger.FromContext(ctx)

	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	reports := make([]SessionReport, 0, len(sessions))
	for i := range sessions {
		id := sessions[i].ID
		report, err := s.Migrate(ctx, id)
		if err != nil {
			log.Error("session migration failed, continuing", "session_id", id, "error", err)
		}
		reports = append(reports, SessionReport{SessionID: id, Report: report, Err: err})
	}
	return reports, nil
}
