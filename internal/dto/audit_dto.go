package dto

import (
	"time"

	"github.com/noah-isme/gradebook-go-api/internal/models"
)

// AuditEntryResponse serializes one immutable audit trail entry.
type AuditEntryResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   uint                   `json:"entity_id"`
	OldValue   map[string]interface{} `json:"old_value"`
	NewValue   map[string]interface{} `json:"new_value"`
	Reason     string                 `json:"reason,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewAuditEntryResponse converts an AuditLogEntry model into a DTO.
func NewAuditEntryResponse(model models.AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         model.ID,
		ActorID:    model.ActorID,
		ActorRole:  model.ActorRole,
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		OldValue:   model.OldValue,
		NewValue:   model.NewValue,
		Reason:     model.Reason,
		CreatedAt:  model.CreatedAt,
	}
}

// NewAuditEntryResponseSlice converts audit entries into DTOs.
func NewAuditEntryResponseSlice(entries []models.AuditLogEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewAuditEntryResponse(entry))
	}

	return responses
}
