package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pimsync/connector/internal/domain/mapping"
	"github.com/pimsync/connector/internal/infrastructure/persistence/models"
)

// GormMappingRepository implements mapping.Store using GORM
type GormMappingRepository struct {
	db *gorm.DB
}

// NewGormMappingRepository creates a new GormMappingRepository
func NewGormMappingRepository(db *gorm.DB) *GormMappingRepository {
	return &GormMappingRepository{db: db}
}

// Find loads the mapping saved under the name
func (r *GormMappingRepository) Find(ctx context.Context, name string) (*mapping.Collection, error) {
	var model models.MappingModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mapping.ErrMappingNotFound
		}
		return nil, err
	}

	c, err := mapping.Decode([]byte(model.Payload), model.Priority)
	if err != nil {
		return nil, fmt.Errorf("decode mapping %q: %w", name, err)
	}
	return c, nil
}

// Save persists the collection under the name, replacing any previous version
func (r *GormMappingRepository) Save(ctx context.Context, name string, c *mapping.Collection) error {
	payload, err := c.Serialize()
	if err != nil {
		return fmt.Errorf("serialize mapping %q: %w", name, err)
	}

	model := &models.MappingModel{
		ID:       uuid.New(),
		Name:     name,
		Payload:  string(payload),
		Priority: c.Priority(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"payload":    string(payload),
				"priority":   c.Priority(),
				"updated_at": time.Now(),
			}),
		}).
		Create(model).Error
}

// Ensure GormMappingRepository implements mapping.Store
var _ mapping.Store = (*GormMappingRepository)(nil)
