package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	InvoiceDraft     = "Draft"
	InvoiceSent      = "Sent"
	InvoicePaid      = "Paid"
	InvoiceOverdue   = "Overdue"
	InvoiceCancelled = "Cancelled"
)

// GST treatments
const (
	TreatmentB2B    = "b2b"
	TreatmentB2C    = "b2c"
	TreatmentExport = "export"
	TreatmentSEZ    = "sez"
)

var hundred = decimal.NewFromInt(100)

// Invoice is created at checkout. Line items are frozen on creation; only
// status and the payment columns change afterwards.
type Invoice struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	CustomerID     uuid.UUID       `json:"customer_id" db:"customer_id"`
	InvoiceNumber  string          `json:"invoice_number" db:"invoice_number"`
	CustomerName   string          `json:"customer_name" db:"customer_name"`
	CustomerGSTIN  *string         `json:"customer_gstin,omitempty" db:"customer_gstin"`
	LineItems      []LineItem      `json:"line_items" db:"line_items"`
	IssueDate      time.Time       `json:"issue_date" db:"issue_date"`
	DueDate        *time.Time      `json:"due_date,omitempty" db:"due_date"`
	Status         string          `json:"status" db:"status"`
	GSTTreatment   string          `json:"gst_treatment" db:"gst_treatment"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total" db:"grand_total"`
	AmountPaid     decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	BalanceDue     decimal.Decimal `json:"balance_due" db:"balance_due"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

type LineItem struct {
	ItemID     uuid.UUID       `json:"item_id"`
	Name       string          `json:"name"`
	HSNSACCode string          `json:"hsn_sac_code,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	Subtotal   decimal.Decimal `json:"line_subtotal"`
	Tax        decimal.Decimal `json:"line_tax"`
}

// Compute fills the line subtotal and tax, rounded to paise.
func (l *LineItem) Compute() {
	l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
	l.Tax = l.Subtotal.Mul(l.TaxRate).Div(hundred).Round(2)
}

// ComputeTotals recomputes every line and the invoice totals, and resets the
// balance against the amount already paid.
func (inv *Invoice) ComputeTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range inv.LineItems {
		inv.LineItems[i].Compute()
		subtotal = subtotal.Add(inv.LineItems[i].Subtotal)
		tax = tax.Add(inv.LineItems[i].Tax)
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = tax
	inv.GrandTotal = subtotal.Add(tax)
	inv.BalanceDue = inv.GrandTotal.Sub(inv.AmountPaid)
}

// IsOpen reports whether the invoice can still take payments.
func (inv *Invoice) IsOpen() bool {
	return inv.Status != InvoiceCancelled && inv.Status != InvoicePaid
}

type InvoiceFilter struct {
	Status     string
	CustomerID *uuid.UUID
	Limit      int
	Offset     int
}

// InvoiceListItem is the projection used by the GST aggregator.
type InvoiceListItem struct {
	ID            uuid.UUID
	InvoiceNumber string
	IssueDate     time.Time
	CustomerName  string
	CustomerGSTIN *string
	GSTTreatment  string
	Status        string
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	GrandTotal    decimal.Decimal
}
