package services

import (
	"context"
	"strings"
	"time"

	"bizledger/internal/common"
	"bizledger/internal/events"
	"bizledger/internal/models"
	"bizledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const entityPayment = "payment"

type RecordPaymentInput struct {
	InvoiceID      uuid.UUID       `json:"invoice_id" validate:"required"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	PaymentMode    string          `json:"payment_mode" validate:"required,oneof=cash card upi bank_transfer cheque"`
	PaymentDate    string          `json:"payment_date" validate:"omitempty,isodate"`
	Reference      *string         `json:"reference" validate:"omitempty,max=100"`
}

// PaymentResult is a stored payment together with the invoice it settled.
type PaymentResult struct {
	Payment *models.Payment `json:"payment"`
	Invoice *models.Invoice `json:"invoice"`
}

type PaymentService interface {
	Record(ctx context.Context, orgID uuid.UUID, input RecordPaymentInput) (*PaymentResult, error)
	List(ctx context.Context, orgID uuid.UUID, invoiceID *uuid.UUID, page, limit int) (*common.PagedData, error)
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	effects     *Effects
	now         func() time.Time
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, effects *Effects) PaymentService {
	return &paymentService{paymentRepo: paymentRepo, effects: effects, now: time.Now}
}

// Record stores a payment and settles it against its invoice in one
// transaction. Amounts above the balance due are rejected.
func (s *paymentService) Record(ctx context.Context, orgID uuid.UUID, input RecordPaymentInput) (*PaymentResult, error) {
	if input.InvoiceID == uuid.Nil {
		return nil, common.Validationf("invoice_id is required")
	}
	if !input.AmountReceived.IsPositive() {
		return nil, common.Validationf("amount_received must be greater than zero")
	}
	mode := strings.ToLower(strings.TrimSpace(input.PaymentMode))
	if err := common.ValidateOneOf(mode, "payment_mode", models.PaymentModes...); err != nil {
		return nil, err
	}
	paymentDate := today(s.now())
	if parsed, err := parseOptionalDate(input.PaymentDate, "payment_date"); err != nil {
		return nil, err
	} else if parsed != nil {
		paymentDate = *parsed
	}

	payment := &models.Payment{
		OrganizationID: orgID,
		InvoiceID:      input.InvoiceID,
		AmountReceived: input.AmountReceived.Round(2),
		PaymentMode:    mode,
		PaymentDate:    paymentDate,
		Reference:      trimOptional(input.Reference),
	}
	invoice, err := s.paymentRepo.Record(ctx, payment)
	if err != nil {
		return nil, err
	}

	s.effects.Invalidate(ctx, orgID)
	s.effects.Publish(ctx, events.PaymentRecorded, orgID, payment)
	s.effects.Audit(ctx, orgID, models.ActionCreate, entityPayment, payment.ID.String(), models.JSONB{
		"invoice_id":      input.InvoiceID.String(),
		"amount_received": payment.AmountReceived.StringFixed(2),
		"invoice_status":  invoice.Status,
	})
	return &PaymentResult{Payment: payment, Invoice: invoice}, nil
}

func (s *paymentService) List(ctx context.Context, orgID uuid.UUID, invoiceID *uuid.UUID, page, limit int) (*common.PagedData, error) {
	page, limit, offset, err := pageWindow(page, limit)
	if err != nil {
		return nil, err
	}
	payments, total, err := s.paymentRepo.List(ctx, orgID, models.PaymentFilter{
		InvoiceID: invoiceID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, common.SecureErrorMessage("list payments", err)
	}
	return &common.PagedData{Data: payments, Total: total, Page: page, Limit: limit}, nil
}
