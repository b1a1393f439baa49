package services

import (
	"context"

	"bizledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutPayment is the optional settlement taken at the counter. A nil
// amount settles the full grand total.
type CheckoutPayment struct {
	AmountReceived *decimal.Decimal `json:"amount_received"`
	PaymentMode    string           `json:"payment_mode" validate:"required,oneof=cash card upi bank_transfer cheque"`
	Reference      *string          `json:"reference" validate:"omitempty,max=100"`
}

type CheckoutInput struct {
	CustomerID   uuid.UUID        `json:"customer_id" validate:"required"`
	LineItems    []LineItemInput  `json:"line_items" validate:"required,min=1,dive"`
	DueDate      string           `json:"due_date" validate:"omitempty,isodate"`
	GSTTreatment string           `json:"gst_treatment" validate:"omitempty,oneof=b2b b2c export sez"`
	Notes        *string          `json:"notes" validate:"omitempty,max=2000"`
	Payment      *CheckoutPayment `json:"payment"`
}

type CheckoutResult struct {
	Invoice *models.Invoice `json:"invoice"`
	Payment *models.Payment `json:"payment,omitempty"`
}

type BillingService interface {
	Checkout(ctx context.Context, orgID uuid.UUID, input CheckoutInput) (*CheckoutResult, error)
}

type billingService struct {
	invoices InvoiceService
	payments PaymentService
}

func NewBillingService(invoices InvoiceService, payments PaymentService) BillingService {
	return &billingService{invoices: invoices, payments: payments}
}

// Checkout issues an invoice dated today and, when a payment is supplied,
// records it against the new invoice. If the payment is rejected the issued
// invoice stays open and the error is returned with it.
func (s *billingService) Checkout(ctx context.Context, orgID uuid.UUID, input CheckoutInput) (*CheckoutResult, error) {
	invoice, err := s.invoices.Create(ctx, orgID, CreateInvoiceInput{
		CustomerID:   input.CustomerID,
		LineItems:    input.LineItems,
		DueDate:      input.DueDate,
		GSTTreatment: input.GSTTreatment,
		Status:       models.InvoiceSent,
		Notes:        input.Notes,
	})
	if err != nil {
		return nil, err
	}
	result := &CheckoutResult{Invoice: invoice}
	if input.Payment == nil || !invoice.BalanceDue.IsPositive() {
		return result, nil
	}

	amount := invoice.GrandTotal
	if input.Payment.AmountReceived != nil {
		amount = *input.Payment.AmountReceived
	}
	paid, err := s.payments.Record(ctx, orgID, RecordPaymentInput{
		InvoiceID:      invoice.ID,
		AmountReceived: amount,
		PaymentMode:    input.Payment.PaymentMode,
		Reference:      input.Payment.Reference,
	})
	if err != nil {
		return result, err
	}
	result.Invoice = paid.Invoice
	result.Payment = paid.Payment
	return result, nil
}
