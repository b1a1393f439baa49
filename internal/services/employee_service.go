package services

import (
	"context"
	"strings"

	"bizledger/internal/common"
	"bizledger/internal/models"
	"bizledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const entityEmployee = "employee"

var employeeStatuses = []string{models.EmployeeActive, models.EmployeeProbation, models.EmployeeInactive}

type EmployeeInput struct {
	FullName    string          `json:"fullName" validate:"required,max=200"`
	RoleTitle   *string         `json:"roleTitle" validate:"omitempty,max=100"`
	Email       *string         `json:"email" validate:"omitempty,email,max=254"`
	Phone       *string         `json:"phone" validate:"omitempty,max=20"`
	Salary      decimal.Decimal `json:"salary"`
	JoiningDate string          `json:"joiningDate" validate:"omitempty,isodate"`
	Status      string          `json:"status" validate:"omitempty,oneof=active probation inactive"`
	Notes       *string         `json:"notes" validate:"omitempty,max=2000"`
}

type EmployeeService interface {
	Create(ctx context.Context, orgID uuid.UUID, input EmployeeInput) (*models.Employee, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, orgID uuid.UUID, filter models.EmployeeFilter, page, limit int) (*common.PagedData, error)
	Update(ctx context.Context, orgID, id uuid.UUID, input EmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	effects      *Effects
}

func NewEmployeeService(employeeRepo repositories.EmployeeRepository, effects *Effects) EmployeeService {
	return &employeeService{employeeRepo: employeeRepo, effects: effects}
}

func applyEmployeeInput(e *models.Employee, input EmployeeInput) error {
	name := strings.TrimSpace(input.FullName)
	if err := common.ValidateRequiredString(name, "fullName"); err != nil {
		return err
	}
	if input.Salary.IsNegative() {
		return common.Validationf("salary cannot be negative")
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = models.EmployeeActive
	}
	if err := common.ValidateOneOf(status, "status", employeeStatuses...); err != nil {
		return err
	}
	joining, err := parseOptionalDate(input.JoiningDate, "joiningDate")
	if err != nil {
		return err
	}

	e.FullName = name
	e.RoleTitle = trimOptional(input.RoleTitle)
	e.Email = trimOptional(input.Email)
	e.Phone = trimOptional(input.Phone)
	e.Salary = input.Salary.Round(2)
	e.JoiningDate = joining
	e.Status = status
	e.Notes = trimOptional(input.Notes)
	return nil
}

// Create stores a new employee; the repository assigns the next EMP code.
func (s *employeeService) Create(ctx context.Context, orgID uuid.UUID, input EmployeeInput) (*models.Employee, error) {
	employee := &models.Employee{OrganizationID: orgID}
	if err := applyEmployeeInput(employee, input); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.effects.Invalidate(ctx, orgID)
	s.effects.Audit(ctx, orgID, models.ActionCreate, entityEmployee, employee.ID.String(), models.JSONB{
		"employee_code": employee.EmployeeCode,
		"full_name":     employee.FullName,
	})
	return employee, nil
}

func (s *employeeService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Employee, error) {
	return s.employeeRepo.GetByID(ctx, orgID, id)
}

func (s *employeeService) List(ctx context.Context, orgID uuid.UUID, filter models.EmployeeFilter, page, limit int) (*common.PagedData, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status != "" && filter.Status != "all" {
		if err := common.ValidateOneOf(filter.Status, "status", employeeStatuses...); err != nil {
			return nil, err
		}
	} else {
		filter.Status = ""
	}
	filter.Role = common.SanitizeSearchQuery(filter.Role)
	filter.Search = common.SanitizeSearchQuery(filter.Search)

	page, limit, offset, err := pageWindow(page, limit)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = limit, offset

	employees, total, err := s.employeeRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, common.SecureErrorMessage("list employees", err)
	}
	return &common.PagedData{Data: employees, Total: total, Page: page, Limit: limit}, nil
}

func (s *employeeService) Update(ctx context.Context, orgID, id uuid.UUID, input EmployeeInput) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := applyEmployeeInput(employee, input); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}

	s.effects.Audit(ctx, orgID, models.ActionUpdate, entityEmployee, id.String(), models.JSONB{"status": employee.Status})
	return employee, nil
}

func (s *employeeService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.employeeRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	s.effects.Invalidate(ctx, orgID)
	s.effects.Audit(ctx, orgID, models.ActionDelete, entityEmployee, id.String(), nil)
	return nil
}
