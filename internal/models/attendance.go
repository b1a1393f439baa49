package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLeave   = "leave"
)

// AttendanceRecord is unique per (organization, employee, date).
type AttendanceRecord struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organizationId" db:"organization_id"`
	EmployeeID     uuid.UUID `json:"employeeId" db:"employee_id"`
	Date           time.Time `json:"date" db:"date"`
	Status         string    `json:"status" db:"status"`
	CheckIn        *string   `json:"checkIn,omitempty" db:"check_in"`
	CheckOut       *string   `json:"checkOut,omitempty" db:"check_out"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

type AttendanceFilter struct {
	Date       *time.Time
	EmployeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// AttendanceTotals counts recorded days by status.
type AttendanceTotals struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Leave   int `json:"leave"`
	Total   int `json:"total"`
}

// Add counts one record with the given status.
func (t *AttendanceTotals) Add(status string) {
	switch status {
	case AttendancePresent:
		t.Present++
	case AttendanceAbsent:
		t.Absent++
	case AttendanceLeave:
		t.Leave++
	default:
		return
	}
	t.Total++
}

type EmployeeAttendanceSummary struct {
	EmployeeID   uuid.UUID `json:"employeeId"`
	EmployeeCode string    `json:"employeeCode"`
	FullName     string    `json:"fullName"`
	RoleTitle    string    `json:"roleTitle"`
	Status       string    `json:"status"`
	AttendanceTotals
}

// EmployeeSummaryReport lists per-employee rows under "totals"; Overall sums
// every row.
type EmployeeSummaryReport struct {
	Range     DateRange                   `json:"range"`
	Employees []EmployeeAttendanceSummary `json:"totals"`
	Overall   AttendanceTotals            `json:"overall"`
}

type MonthlyAttendanceSummary struct {
	Month int `json:"month"`
	AttendanceTotals
}

type MonthlySummaryReport struct {
	Year    int                        `json:"year"`
	Months  []MonthlyAttendanceSummary `json:"months"`
	Overall AttendanceTotals           `json:"overall"`
}

// AttendanceSaveResult reports a batch save. Failed entries carry the index
// of the offending input record.
type AttendanceSaveResult struct {
	Saved  []AttendanceRecord  `json:"saved"`
	Failed []AttendanceFailure `json:"failed"`
}

type AttendanceFailure struct {
	Index      int    `json:"index"`
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Message    string `json:"message"`
}

// DateRange is an inclusive range of calendar dates rendered as YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
