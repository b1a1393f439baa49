package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ItemTypeProduct = "product"
	ItemTypeService = "service"
)

// Item is a sellable product or service. StockQuantity is tracked for
// products only and is nil for services.
type Item struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	Name           string          `json:"name" db:"name"`
	ItemType       string          `json:"item_type" db:"item_type"`
	UnitPrice      decimal.Decimal `json:"unit_price" db:"unit_price"`
	TaxRate        decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	HSNSACCode     *string         `json:"hsn_sac_code,omitempty" db:"hsn_sac_code"`
	StockQuantity  *int            `json:"stock_quantity,omitempty" db:"stock_quantity"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IsProduct reports whether stock is tracked for the item.
func (i *Item) IsProduct() bool { return i.ItemType == ItemTypeProduct }

type ItemFilter struct {
	ItemType string
	Search   string
	Limit    int
	Offset   int
}

// StockAdjustment is a manual correction of a product's stock level.
type StockAdjustment struct {
	ItemID         uuid.UUID `json:"item_id"`
	QuantityChange int       `json:"quantity_change"`
	Reason         string    `json:"reason"`
}
