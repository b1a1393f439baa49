package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment modes
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentUPI          = "upi"
	PaymentBankTransfer = "bank_transfer"
	PaymentCheque       = "cheque"
)

// PaymentModes lists accepted payment modes.
var PaymentModes = []string{PaymentCash, PaymentCard, PaymentUPI, PaymentBankTransfer, PaymentCheque}

// Payment is immutable once recorded.
type Payment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	InvoiceID      uuid.UUID       `json:"invoice_id" db:"invoice_id"`
	CustomerID     uuid.UUID       `json:"customer_id" db:"customer_id"`
	AmountReceived decimal.Decimal `json:"amount_received" db:"amount_received"`
	PaymentMode    string          `json:"payment_mode" db:"payment_mode"`
	PaymentDate    time.Time       `json:"payment_date" db:"payment_date"`
	Reference      *string         `json:"reference,omitempty" db:"reference"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type PaymentFilter struct {
	InvoiceID *uuid.UUID
	Limit     int
	Offset    int
}
