package services

import (
	"context"
	"errors"
	"strings"

	"bizledger/internal/common"
	"bizledger/internal/events"
	"bizledger/internal/models"
	"bizledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const entityItem = "item"

var maxTaxRate = decimal.NewFromInt(100)

// ItemInput is the writable part of an item.
type ItemInput struct {
	Name          string          `json:"name" validate:"required,max=200"`
	ItemType      string          `json:"item_type" validate:"required,oneof=product service"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	HSNSACCode    *string         `json:"hsn_sac_code" validate:"omitempty,max=16"`
	StockQuantity *int            `json:"stock_quantity"`
}

// StockAdjustmentInput is a manual stock correction.
type StockAdjustmentInput struct {
	ItemID         uuid.UUID `json:"item_id" validate:"required"`
	QuantityChange int       `json:"quantity_change"`
	Reason         string    `json:"reason" validate:"max=500"`
}

type ItemService interface {
	Create(ctx context.Context, orgID uuid.UUID, input ItemInput) (*models.Item, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context, orgID uuid.UUID, itemType, search string, page, limit int) (*common.PagedData, error)
	Update(ctx context.Context, orgID, id uuid.UUID, input ItemInput) (*models.Item, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	AdjustStock(ctx context.Context, orgID uuid.UUID, input StockAdjustmentInput) (*models.Item, error)
}

type itemService struct {
	itemRepo repositories.ItemRepository
	effects  *Effects
}

func NewItemService(itemRepo repositories.ItemRepository, effects *Effects) ItemService {
	return &itemService{itemRepo: itemRepo, effects: effects}
}

func normalizeItem(input ItemInput) (ItemInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return input, err
	}
	input.ItemType = strings.ToLower(strings.TrimSpace(input.ItemType))
	if err := common.ValidateOneOf(input.ItemType, "item_type", models.ItemTypeProduct, models.ItemTypeService); err != nil {
		return input, err
	}
	if input.UnitPrice.IsNegative() {
		return input, common.Validationf("unit_price cannot be negative")
	}
	if input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(maxTaxRate) {
		return input, common.Validationf("tax_rate must be between 0 and 100")
	}
	input.UnitPrice = input.UnitPrice.Round(2)
	input.HSNSACCode = trimOptional(input.HSNSACCode)

	if input.ItemType == models.ItemTypeService {
		input.StockQuantity = nil
		return input, nil
	}
	if input.StockQuantity == nil {
		zero := 0
		input.StockQuantity = &zero
	}
	if *input.StockQuantity < 0 {
		return input, common.Validationf("stock_quantity cannot be negative")
	}
	return input, nil
}

func (s *itemService) Create(ctx context.Context, orgID uuid.UUID, input ItemInput) (*models.Item, error) {
	input, err := normalizeItem(input)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		OrganizationID: orgID,
		Name:           input.Name,
		ItemType:       input.ItemType,
		UnitPrice:      input.UnitPrice,
		TaxRate:        input.TaxRate,
		HSNSACCode:     input.HSNSACCode,
		StockQuantity:  input.StockQuantity,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.effects.Invalidate(ctx, orgID)
	s.effects.Audit(ctx, orgID, models.ActionCreate, entityItem, item.ID.String(), models.JSONB{"name": item.Name, "item_type": item.ItemType})
	return item, nil
}

func (s *itemService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Item, error) {
	return s.itemRepo.GetByID(ctx, orgID, id)
}

func (s *itemService) List(ctx context.Context, orgID uuid.UUID, itemType, search string, page, limit int) (*common.PagedData, error) {
	itemType = strings.ToLower(strings.TrimSpace(itemType))
	if itemType != "" {
		if err := common.ValidateOneOf(itemType, "item_type", models.ItemTypeProduct, models.ItemTypeService); err != nil {
			return nil, err
		}
	}
	page, limit, offset, err := pageWindow(page, limit)
	if err != nil {
		return nil, err
	}
	items, total, err := s.itemRepo.List(ctx, orgID, models.ItemFilter{
		ItemType: itemType,
		Search:   common.SanitizeSearchQuery(search),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, common.SecureErrorMessage("list items", err)
	}
	return &common.PagedData{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *itemService) Update(ctx context.Context, orgID, id uuid.UUID, input ItemInput) (*models.Item, error) {
	input, err := normalizeItem(input)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	item.Name = input.Name
	item.ItemType = input.ItemType
	item.UnitPrice = input.UnitPrice
	item.TaxRate = input.TaxRate
	item.HSNSACCode = input.HSNSACCode
	item.StockQuantity = input.StockQuantity
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.effects.Invalidate(ctx, orgID)
	s.effects.Audit(ctx, orgID, models.ActionUpdate, entityItem, id.String(), models.JSONB{"name": item.Name})
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.itemRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	s.effects.Invalidate(ctx, orgID)
	s.effects.Audit(ctx, orgID, models.ActionDelete, entityItem, id.String(), nil)
	return nil
}

// AdjustStock applies a signed correction to a product's stock. The
// repository refuses corrections that would drive stock below zero.
func (s *itemService) AdjustStock(ctx context.Context, orgID uuid.UUID, input StockAdjustmentInput) (*models.Item, error) {
	if input.ItemID == uuid.Nil {
		return nil, common.Validationf("item_id is required")
	}
	if input.QuantityChange == 0 {
		return nil, common.Validationf("quantity_change cannot be zero")
	}

	item, err := s.itemRepo.AdjustStock(ctx, orgID, input.ItemID, input.QuantityChange)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFound("item")
		}
		return nil, err
	}

	adjustment := models.StockAdjustment{
		ItemID:         item.ID,
		QuantityChange: input.QuantityChange,
		Reason:         strings.TrimSpace(input.Reason),
	}
	s.effects.Invalidate(ctx, orgID)
	s.effects.Publish(ctx, events.StockAdjusted, orgID, adjustment)
	s.effects.Audit(ctx, orgID, models.ActionUpdate, entityItem, item.ID.String(), models.JSONB{
		"quantity_change": input.QuantityChange,
		"reason":          adjustment.Reason,
		"stock_quantity":  item.StockQuantity,
	})
	return item, nil
}
