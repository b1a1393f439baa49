package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee statuses
const (
	EmployeeActive    = "active"
	EmployeeProbation = "probation"
	EmployeeInactive  = "inactive"
)

type Employee struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organizationId" db:"organization_id"`
	EmployeeCode   string          `json:"employeeCode" db:"employee_code"`
	FullName       string          `json:"fullName" db:"full_name"`
	RoleTitle      *string         `json:"roleTitle,omitempty" db:"role_title"`
	Email          *string         `json:"email,omitempty" db:"email"`
	Phone          *string         `json:"phone,omitempty" db:"phone"`
	Salary         decimal.Decimal `json:"salary" db:"salary"`
	JoiningDate    *time.Time      `json:"joiningDate,omitempty" db:"joining_date"`
	Status         string          `json:"status" db:"status"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

type EmployeeFilter struct {
	Status string
	Role   string
	Search string
	Limit  int
	Offset int
}
