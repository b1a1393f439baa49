package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"bizledger/internal/models"
)

type AttendanceRepository interface {
	// Upsert writes the record keyed by (organization, employee, date); a
	// later save overwrites status, times and notes of the earlier one.
	Upsert(ctx context.Context, record *models.AttendanceRecord) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.AttendanceRecord, error)
	List(ctx context.Context, orgID uuid.UUID, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
	Update(ctx context.Context, record *models.AttendanceRecord) error
}

type attendanceRepo struct {
	db DBTX
}

func NewAttendanceRepo(db DBTX) AttendanceRepository {
	return &attendanceRepo{db: db}
}

const attendanceColumns = `id, organization_id, employee_id, date, status, check_in, check_out, notes, created_at, updated_at`

func scanAttendance(row rowScanner) (*models.AttendanceRecord, error) {
	a := &models.AttendanceRecord{}
	err := row.Scan(&a.ID, &a.OrganizationID, &a.EmployeeID, &a.Date, &a.Status, &a.CheckIn, &a.CheckOut,
		&a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *attendanceRepo) Upsert(ctx context.Context, a *models.AttendanceRecord) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO attendance_records (id, organization_id, employee_id, date, status, check_in, check_out, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (organization_id, employee_id, date)
		DO UPDATE SET
			status = EXCLUDED.status,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, a.ID, a.OrganizationID, a.EmployeeID, a.Date, a.Status, a.CheckIn, a.CheckOut, a.Notes).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return mapError(err, "attendance record")
}

func (r *attendanceRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE organization_id = $1 AND id = $2`
	a, err := scanAttendance(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, mapError(err, "attendance record")
	}
	return a, nil
}

func (r *attendanceRepo) List(ctx context.Context, orgID uuid.UUID, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE organization_id = $1`
	args := []interface{}{orgID}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		query += fmt.Sprintf(" AND date = $%d", len(args))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date ASC, employee_id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.AttendanceRecord{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *a)
	}
	return records, rows.Err()
}

func (r *attendanceRepo) Update(ctx context.Context, a *models.AttendanceRecord) error {
	query := `
		UPDATE attendance_records
		SET status = $1, check_in = $2, check_out = $3, notes = $4, updated_at = NOW()
		WHERE organization_id = $5 AND id = $6
		RETURNING updated_at`
	err := r.db.QueryRow(ctx, query, a.Status, a.CheckIn, a.CheckOut, a.Notes, a.OrganizationID, a.ID).Scan(&a.UpdatedAt)
	return mapError(err, "attendance record")
}
