package catalog

import (
	"context"
	"fmt"

	"github.com/nvalden/arsenal/internal/domain"
	"github.com/nvalden/arsenal/internal/logger"
	"github.com/nvalden/arsenal/internal/repository"
)

// Service is the read surface of the card catalog. By-id lookups are served
// from an in-memory cache; everything else goes straight to the repository.
type Service interface {
	GetDefinition(ctx context.Context, id string) (*domain.WeaponDefinition, error)
	GetDefinitionByNameAndSet(ctx context.Context, name, set string) (*domain.WeaponDefinition, error)
	ListDefinitions(ctx context.Context) ([]domain.WeaponDefinition, error)
	ListDefinitionsByDeckType(ctx context.Context, deckType domain.DeckType) ([]domain.WeaponDefinition, error)
	ListDefinitionsByCategory(ctx context.Context, category domain.Category) ([]domain.WeaponDefinition, error)

	ListInstances(ctx context.Context, definitionID string) ([]domain.CardInstance, error)
	CountInstances(ctx context.Context, definitionID string) (int, error)

	Version(ctx context.Context) (*domain.CatalogVersion, error)

	// InvalidateCache drops every cached definition. The importer calls this
	// after a successful ingest so readers see the reconciled catalog.
	InvalidateCache()
}

type service struct {
	repo  repository.Catalog
	cache *definitionCache
}

// NewService creates a catalog service with the default cache configuration.
func NewService(repo repository.Catalog) Service {
	return &service{
		repo:  repo,
		cache: newDefinitionCache(DefaultCacheSize, DefaultCacheTTL),
	}
}

func (s *service) GetDefinition(ctx context.Context, id string) (*domain.WeaponDefinition, error) {
	if def, ok := s.cache.Get(id); ok {
		return def, nil
	}

	def, err := s.repo.GetDefinitionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get definition %s: %w", id, err)
	}

	s.cache.Set(id, def)
	return def, nil
}

func (s *service) GetDefinitionByNameAndSet(ctx context.Context, name, set string) (*domain.WeaponDefinition, error) {
	def, err := s.repo.GetDefinitionByNameAndSet(ctx, name, set)
	if err != nil {
		return nil, fmt.Errorf("failed to get definition %s|%s: %w", name, set, err)
	}
	// Warm the by-id cache while we have the row.
	s.cache.Set(def.ID, def)
	return def, nil
}

func (s *service) ListDefinitions(ctx context.Context) ([]domain.WeaponDefinition, error) {
	defs, err := s.repo.ListDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	return defs, nil
}

func (s *service) ListDefinitionsByDeckType(ctx context.Context, deckType domain.DeckType) ([]domain.WeaponDefinition, error) {
	if !deckType.Valid() {
		return nil, fmt.Errorf("%w: unknown deck type %q", domain.ErrInvalidInput, deckType)
	}
	defs, err := s.repo.ListDefinitionsByDeckType(ctx, deckType)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s definitions: %w", deckType, err)
	}
	return defs, nil
}

func (s *service) ListDefinitionsByCategory(ctx context.Context, category domain.Category) ([]domain.WeaponDefinition, error) {
	defs, err := s.repo.ListDefinitionsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s definitions: %w", category, err)
	}
	return defs, nil
}

func (s *service) ListInstances(ctx context.Context, definitionID string) ([]domain.CardInstance, error) {
	instances, err := s.repo.ListInstancesByDefinition(ctx, definitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances of %s: %w", definitionID, err)
	}
	return instances, nil
}

func (s *service) CountInstances(ctx context.Context, definitionID string) (int, error) {
	count, err := s.repo.CountInstances(ctx, definitionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count instances of %s: %w", definitionID, err)
	}
	return count, nil
}

func (s *service) Version(ctx context.Context) (*domain.CatalogVersion, error) {
	version, err := s.repo.GetCatalogVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog version: %w", err)
	}
	return version, nil
}

func (s *service) InvalidateCache() {
	log := logger.FromContext(context.Background())
	log.Debug("purging definition cache", "entries", s.cache.Len())
	s.cache.Clear()
}
