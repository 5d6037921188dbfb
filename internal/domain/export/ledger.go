package export

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrLedgerConflict indicates a concurrent writer recorded the same entity
// for the same job instance first.
var ErrLedgerConflict = errors.New("export: ledger entry already recorded")

// LedgerEntry records the last successful export of one entity under one job
// instance. The (EntityID, JobInstanceID) pair is unique.
type LedgerEntry struct {
	EntityID       string
	JobInstanceID  uuid.UUID
	LastExportedAt time.Time
}

// LedgerStore persists export ledger entries.
type LedgerStore interface {
	// Find returns the entry for the entity under the job instance, or
	// (nil, nil) when none exists.
	Find(ctx context.Context, entityID string, jobInstanceID uuid.UUID) (*LedgerEntry, error)

	// Upsert inserts the entry or refreshes LastExportedAt on an existing one.
	Upsert(ctx context.Context, entry LedgerEntry) error
}

// Summary accumulates counters over one export run. ProductsRead counts every
// product the delta reader emitted, exported or not.
type Summary struct {
	AttributesCreated int
	AttributesUpdated int
	ProductsRead      int
	ProductsExported  int
	ProductsSkipped   int
	GroupsExported    int
	GroupsSkipped     int
	Warnings          int
}
