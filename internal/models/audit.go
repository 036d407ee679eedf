package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions beyond the review statuses themselves.
const (
	// AuditActionCreate records the initial student submission.
	AuditActionCreate = "CREATE"
	// AuditActionOverride records a teacher override with its justification.
	AuditActionOverride = "OVERRIDE"
)

// AuditLogEntry is one immutable record of a submission mutation. Rows are
// append-only: nothing in this service updates or deletes them, and they
// outlive the submission they describe.
type AuditLogEntry struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null" json:"action"`
	EntityType string            `gorm:"size:64;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   uint              `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	OldValue   datatypes.JSONMap `gorm:"type:json" json:"old_value"`
	NewValue   datatypes.JSONMap `gorm:"type:json" json:"new_value"`
	Reason     string            `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}
