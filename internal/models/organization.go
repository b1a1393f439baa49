package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization owns every other record. Organizations are provisioned
// outside this service; the API only reads them.
type Organization struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	GSTIN     *string   `json:"gstin,omitempty" db:"gstin"`
	StateCode *string   `json:"state_code,omitempty" db:"state_code"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

const (
	OrganizationActive    = "active"
	OrganizationSuspended = "suspended"
)
