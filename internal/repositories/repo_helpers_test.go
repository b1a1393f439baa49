package repositories

import (
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"bizledger/internal/models"
)

func fixedTime() time.Time {
	return time.Date(2025, 11, 15, 10, 0, 0, 0, time.UTC)
}

var invoiceColumnNames = []string{"id", "organization_id", "customer_id", "invoice_number", "customer_name", "customer_gstin",
	"line_items", "issue_date", "due_date", "status", "gst_treatment", "subtotal", "tax_amount", "grand_total",
	"amount_paid", "balance_due", "notes", "created_at", "updated_at"}

// invoiceRowValues builds a scan row for invoiceColumns.
func invoiceRowValues(inv models.Invoice) []any {
	lineItems := []byte(`[]`)
	return []any{inv.ID, inv.OrganizationID, inv.CustomerID, inv.InvoiceNumber, inv.CustomerName, inv.CustomerGSTIN,
		lineItems, inv.IssueDate, nil, inv.Status, inv.GSTTreatment, inv.Subtotal, inv.TaxAmount, inv.GrandTotal,
		inv.AmountPaid, inv.BalanceDue, nil, inv.CreatedAt, inv.UpdatedAt}
}

func sampleInvoice(orgID uuid.UUID) models.Invoice {
	now := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	return models.Invoice{
		ID:             uuid.New(),
		OrganizationID: orgID,
		CustomerID:     uuid.New(),
		InvoiceNumber:  "INV-202511-0001",
		CustomerName:   "Sharma Traders",
		IssueDate:      now,
		Status:         models.InvoiceSent,
		GSTTreatment:   models.TreatmentB2B,
		Subtotal:       decimal.NewFromInt(1000),
		TaxAmount:      decimal.NewFromInt(180),
		GrandTotal:     decimal.NewFromInt(1180),
		AmountPaid:     decimal.Zero,
		BalanceDue:     decimal.NewFromInt(1180),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// anyArgs matches n arguments of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
