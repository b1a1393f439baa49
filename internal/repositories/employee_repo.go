package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bizledger/internal/models"
)

type EmployeeRepository interface {
	// Create assigns the next EMP-NNNN code for the organization.
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, orgID uuid.UUID, filter models.EmployeeFilter) ([]*models.Employee, int, error)
	ListAll(ctx context.Context, orgID uuid.UUID) ([]models.Employee, error)
	ExistingIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type employeeRepo struct {
	db DBTX
}

func NewEmployeeRepo(db DBTX) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, organization_id, employee_code, full_name, role_title, email, phone, salary, joining_date,
	status, notes, created_at, updated_at`

func scanEmployee(row rowScanner) (*models.Employee, error) {
	e := &models.Employee{}
	err := row.Scan(&e.ID, &e.OrganizationID, &e.EmployeeCode, &e.FullName, &e.RoleTitle, &e.Email, &e.Phone,
		&e.Salary, &e.JoiningDate, &e.Status, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FormatEmployeeCode renders EMP-NNNN.
func FormatEmployeeCode(seq int64) string {
	return fmt.Sprintf("EMP-%04d", seq)
}

func (r *employeeRepo) Create(ctx context.Context, e *models.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		seq, err := nextSequence(ctx, tx, e.OrganizationID, "employee", "all")
		if err != nil {
			return err
		}
		e.EmployeeCode = FormatEmployeeCode(seq)

		query := `
			INSERT INTO employees (` + employeeColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
		_, err = tx.Exec(ctx, query, e.ID, e.OrganizationID, e.EmployeeCode, e.FullName, e.RoleTitle, e.Email, e.Phone,
			e.Salary, e.JoiningDate, e.Status, e.Notes, e.CreatedAt, e.UpdatedAt)
		return mapError(err, "employee")
	})
}

func (r *employeeRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE organization_id = $1 AND id = $2`
	e, err := scanEmployee(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, mapError(err, "employee")
	}
	return e, nil
}

func (r *employeeRepo) List(ctx context.Context, orgID uuid.UUID, filter models.EmployeeFilter) ([]*models.Employee, int, error) {
	where := ` WHERE organization_id = $1`
	args := []interface{}{orgID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where += fmt.Sprintf(" AND role_title ILIKE $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (full_name ILIKE $%d OR employee_code ILIKE $%d OR email ILIKE $%d)", len(args), len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + employeeColumns + ` FROM employees` + where +
		fmt.Sprintf(" ORDER BY employee_code ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := []*models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}

func (r *employeeRepo) ListAll(ctx context.Context, orgID uuid.UUID) ([]models.Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employees WHERE organization_id = $1 ORDER BY employee_code`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

func (r *employeeRepo) ExistingIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM employees WHERE organization_id = $1 AND id = ANY($2)`, orgID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[uuid.UUID]bool, len(ids))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	return found, rows.Err()
}

func (r *employeeRepo) Update(ctx context.Context, e *models.Employee) error {
	e.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE employees
		SET full_name = $1, role_title = $2, email = $3, phone = $4, salary = $5, joining_date = $6,
			status = $7, notes = $8, updated_at = $9
		WHERE organization_id = $10 AND id = $11`
	tag, err := r.db.Exec(ctx, query, e.FullName, e.RoleTitle, e.Email, e.Phone, e.Salary, e.JoiningDate,
		e.Status, e.Notes, e.UpdatedAt, e.OrganizationID, e.ID)
	if err != nil {
		return mapError(err, "employee")
	}
	if tag.RowsAffected() == 0 {
		return mapError(errNoRows, "employee")
	}
	return nil
}

func (r *employeeRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE organization_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return mapError(err, "employee")
	}
	if tag.RowsAffected() == 0 {
		return mapError(errNoRows, "employee")
	}
	return nil
}
