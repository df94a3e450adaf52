package domain

import "time"

// CatalogVersion is the single-row import bookkeeping record: which declared
// catalog version was imported last and when the source was last checked.
type CatalogVersion struct {
	LastImported  string    `json:"last_imported" db:"last_imported"`
	LastCheckedAt time.Time `json:"last_checked_at" db:"last_checked_at"`
}
