package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a mutation.
type AuditLog struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	UserID         *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Action         string     `json:"action" db:"action"`
	Entity         string     `json:"entity" db:"entity"`
	EntityID       string     `json:"entity_id" db:"entity_id"`
	Details        JSONB      `json:"details,omitempty" db:"details"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionGenerate = "GENERATE"
	ActionRequest  = "REQUEST"
)

// AuditLogFilters represents filters for querying audit logs
type AuditLogFilters struct {
	Entity   *string
	EntityID *string
	Action   *string
	Limit    int
	Offset   int
}
