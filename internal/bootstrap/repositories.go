package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nvalden/arsenal/internal/database/postgres"
	"github.com/nvalden/arsenal/internal/repository"
)

// Repositories holds every repository implementation the application uses.
type Repositories struct {
	Catalog       repository.Catalog
	Inventory     repository.Inventory
	Session       repository.Session
	Customization repository.Customization
}

// InitializeRepositories creates all repository implementations over one
// pool.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Catalog:       postgres.NewCatalogRepository(dbPool),
		Inventory:     postgres.NewInventoryRepository(dbPool),
		Session:       postgres.NewSessionRepository(dbPool),
		Customization: postgres.NewCustomizationRepository(dbPool),
	}
}
