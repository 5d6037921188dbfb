package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pimsync/connector/internal/domain/catalog"
	exportdomain "github.com/pimsync/connector/internal/domain/export"
)

// DeltaReader walks an ordered product cursor and yields only products that
// changed since their last recorded export under the current job instance.
type DeltaReader struct {
	cursor        catalog.ProductCursor
	ledger        exportdomain.LedgerStore
	jobInstanceID uuid.UUID
	now           func() time.Time
}

// NewDeltaReader creates a reader over the cursor for the given job instance.
func NewDeltaReader(cursor catalog.ProductCursor, ledger exportdomain.LedgerStore, jobInstanceID uuid.UUID) *DeltaReader {
	return &DeltaReader{
		cursor:        cursor,
		ledger:        ledger,
		jobInstanceID: jobInstanceID,
		now:           time.Now,
	}
}

// Read returns the next product needing export, or (nil, nil) when the
// cursor is exhausted. Products whose ledger timestamp is not strictly older
// than their modification timestamp are skipped.
func (r *DeltaReader) Read(ctx context.Context) (*catalog.Product, error) {
	for r.cursor.Next(ctx) {
		p := r.cursor.Product()
		stale, err := r.needsExport(ctx, p)
		if err != nil {
			return nil, err
		}
		if stale {
			return p, nil
		}
	}
	if err := r.cursor.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

// MarkExported records the product as exported at the current time. Callers
// invoke it only after processing succeeded, so a crash mid-entity leaves the
// product eligible for the next run.
func (r *DeltaReader) MarkExported(ctx context.Context, p *catalog.Product) error {
	return r.ledger.Upsert(ctx, exportdomain.LedgerEntry{
		EntityID:       p.Identifier,
		JobInstanceID:  r.jobInstanceID,
		LastExportedAt: r.now(),
	})
}

// needsExport reports whether the product changed since its last export. A
// product with no ledger entry always needs export; a ledger timestamp equal
// to the modification timestamp does not.
func (r *DeltaReader) needsExport(ctx context.Context, p *catalog.Product) (bool, error) {
	entry, err := r.ledger.Find(ctx, p.Identifier, r.jobInstanceID)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return true, nil
	}
	return entry.LastExportedAt.Before(p.UpdatedAt), nil
}
