package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pimsync/connector/internal/domain/export"
	"github.com/pimsync/connector/internal/infrastructure/persistence/models"
)

// GormLedgerRepository implements export.LedgerStore using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Find returns the ledger entry for the entity under the job instance, or
// (nil, nil) when none exists.
func (r *GormLedgerRepository) Find(ctx context.Context, entityID string, jobInstanceID uuid.UUID) (*export.LedgerEntry, error) {
	var model models.ExportLedgerModel
	err := r.db.WithContext(ctx).
		Where("entity_id = ? AND job_instance_id = ?", entityID, jobInstanceID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entry := model.ToDomain()
	return &entry, nil
}

// Upsert inserts the entry or refreshes last_exported_at on conflict with the
// composite (entity_id, job_instance_id) index. A unique violation surfacing
// despite the conflict clause means the index is missing or broken and is
// reported as export.ErrLedgerConflict.
func (r *GormLedgerRepository) Upsert(ctx context.Context, entry export.LedgerEntry) error {
	model := models.ExportLedgerModelFromDomain(entry)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "entity_id"}, {Name: "job_instance_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"last_exported_at": entry.LastExportedAt,
				"updated_at":       time.Now(),
			}),
		}).
		Create(model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return export.ErrLedgerConflict
		}
		return err
	}
	return nil
}

// Ensure GormLedgerRepository implements export.LedgerStore
var _ export.LedgerStore = (*GormLedgerRepository)(nil)
