package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pimsync/connector/internal/domain/export"
)

// ExportLedgerModel is the persistence model for one export ledger entry.
// The (entity_id, job_instance_id) pair is unique so insert-or-update
// semantics hold under the composite index.
type ExportLedgerModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	EntityID       string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_export_ledger_entity_job,priority:1"`
	JobInstanceID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_export_ledger_entity_job,priority:2"`
	LastExportedAt time.Time `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExportLedgerModel) TableName() string {
	return "export_ledger"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *ExportLedgerModel) ToDomain() export.LedgerEntry {
	return export.LedgerEntry{
		EntityID:       m.EntityID,
		JobInstanceID:  m.JobInstanceID,
		LastExportedAt: m.LastExportedAt,
	}
}

// ExportLedgerModelFromDomain creates a persistence model from a domain entry.
func ExportLedgerModelFromDomain(e export.LedgerEntry) *ExportLedgerModel {
	return &ExportLedgerModel{
		ID:             uuid.New(),
		EntityID:       e.EntityID,
		JobInstanceID:  e.JobInstanceID,
		LastExportedAt: e.LastExportedAt,
	}
}

// MappingModel is the persistence model for a named mapping. Payload holds
// the serialized source-to-target object.
type MappingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_mappings_name"`
	Payload   string    `gorm:"type:jsonb;not null;default:'{}'"`
	Priority  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MappingModel) TableName() string {
	return "mappings"
}
