package services

import (
	"context"
	"errors"
	"strings"

	"bizledger/internal/common"
	"bizledger/internal/models"
	"bizledger/internal/repositories"

	"github.com/google/uuid"
)

const entityCustomer = "customer"

// CustomerInput is the writable part of a customer.
type CustomerInput struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   *string `json:"email" validate:"omitempty,email,max=254"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	GSTIN   *string `json:"gstin" validate:"omitempty,gstin"`
}

type CustomerService interface {
	Create(ctx context.Context, orgID uuid.UUID, input CustomerInput) (*models.Customer, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, orgID uuid.UUID, search string, page, limit int) (*common.PagedData, error)
	Update(ctx context.Context, orgID, id uuid.UUID, input CustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	effects      *Effects
}

func NewCustomerService(customerRepo repositories.CustomerRepository, effects *Effects) CustomerService {
	return &customerService{customerRepo: customerRepo, effects: effects}
}

func normalizeCustomer(input CustomerInput) (CustomerInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return input, err
	}
	input.Email = trimOptional(input.Email)
	if input.Email != nil {
		lower := strings.ToLower(*input.Email)
		input.Email = &lower
	}
	input.Phone = trimOptional(input.Phone)
	input.Address = trimOptional(input.Address)
	input.GSTIN = trimOptional(input.GSTIN)
	if input.GSTIN != nil {
		upper := strings.ToUpper(*input.GSTIN)
		if err := common.ValidateGSTIN(upper, "gstin"); err != nil {
			return input, err
		}
		input.GSTIN = &upper
	}
	return input, nil
}

// duplicateEmail rewrites the unique-index conflict into a message naming the email.
func duplicateEmail(err error, email *string) error {
	if errors.Is(err, common.ErrConflict) && email != nil {
		return common.Conflictf("a customer with email %s already exists", *email)
	}
	return err
}

func (s *customerService) Create(ctx context.Context, orgID uuid.UUID, input CustomerInput) (*models.Customer, error) {
	input, err := normalizeCustomer(input)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		OrganizationID: orgID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Address:        input.Address,
		GSTIN:          input.GSTIN,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, duplicateEmail(err, input.Email)
	}

	s.effects.Invalidate(ctx, orgID)
	s.effects.Audit(ctx, orgID, models.ActionCreate, entityCustomer, customer.ID.String(), models.JSONB{"name": customer.Name})
	return customer, nil
}

func (s *customerService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, orgID, id)
}

func (s *customerService) List(ctx context.Context, orgID uuid.UUID, search string, page, limit int) (*common.PagedData, error) {
	page, limit, offset, err := pageWindow(page, limit)
	if err != nil {
		return nil, err
	}
	customers, total, err := s.customerRepo.List(ctx, orgID, models.CustomerFilter{
		Search: common.SanitizeSearchQuery(search),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, common.SecureErrorMessage("list customers", err)
	}
	return &common.PagedData{Data: customers, Total: total, Page: page, Limit: limit}, nil
}

func (s *customerService) Update(ctx context.Context, orgID, id uuid.UUID, input CustomerInput) (*models.Customer, error) {
	input, err := normalizeCustomer(input)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.GSTIN = input.GSTIN
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, duplicateEmail(err, input.Email)
	}

	s.effects.Audit(ctx, orgID, models.ActionUpdate, entityCustomer, id.String(), models.JSONB{"name": customer.Name})
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.customerRepo.Delete(ctx, orgID, id); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return common.Conflictf("customer has invoices and cannot be deleted")
		}
		return err
	}
	s.effects.Invalidate(ctx, orgID)
	s.effects.Audit(ctx, orgID, models.ActionDelete, entityCustomer, id.String(), nil)
	return nil
}
