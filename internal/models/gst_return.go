package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GST return types
const (
	ReturnGSTR1  = "GSTR1"
	ReturnGSTR3B = "GSTR3B"
	ReturnAnnual = "ANNUAL"
)

// GST return statuses
const (
	GstStatusDraft     = "draft"
	GstStatusSubmitted = "submitted"
	GstStatusFiled     = "filed"
	GstStatusPaid      = "paid"
)

var (
	ReturnTypes     = []string{ReturnGSTR1, ReturnGSTR3B, ReturnAnnual}
	GstReturnStatus = []string{GstStatusDraft, GstStatusSubmitted, GstStatusFiled, GstStatusPaid}
)

// GstReturn is the persisted computation for (organization, period, return type).
type GstReturn struct {
	ID                      uuid.UUID       `json:"id" db:"id"`
	OrganizationID          uuid.UUID       `json:"organization_id" db:"organization_id"`
	Period                  string          `json:"period" db:"period"`
	PeriodStart             time.Time       `json:"period_start" db:"period_start"`
	PeriodEnd               time.Time       `json:"period_end" db:"period_end"`
	ReturnType              string          `json:"return_type" db:"return_type"`
	Status                  string          `json:"status" db:"status"`
	TotalTaxableValue       decimal.Decimal `json:"total_taxable_value" db:"total_taxable_value"`
	TotalTax                decimal.Decimal `json:"total_tax" db:"total_tax"`
	TotalCess               decimal.Decimal `json:"total_cess" db:"total_cess"`
	GrossTurnover           decimal.Decimal `json:"gross_turnover" db:"gross_turnover"`
	PaymentsReceived        decimal.Decimal `json:"payments_received" db:"payments_received"`
	OutstandingTaxLiability decimal.Decimal `json:"outstanding_tax_liability" db:"outstanding_tax_liability"`
	TotalInvoices           int             `json:"total_invoices" db:"total_invoices"`
	TotalTransactions       int             `json:"total_transactions" db:"total_transactions"`
	SummaryBreakup          GstBreakup      `json:"summary_breakup" db:"summary_breakup"`
	Notes                   *string         `json:"notes,omitempty" db:"notes"`
	ReferenceNumber         *string         `json:"reference_number,omitempty" db:"reference_number"`
	FiledAt                 *time.Time      `json:"filed_at,omitempty" db:"filed_at"`
	GeneratedBy             *uuid.UUID      `json:"generated_by,omitempty" db:"generated_by"`
	CreatedAt               time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at" db:"updated_at"`
}

type GstBreakup struct {
	Invoices    map[string]BreakupBucket `json:"invoices"`
	Collections CollectionsBreakup       `json:"collections"`
}

type BreakupBucket struct {
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
	Tax   decimal.Decimal `json:"tax"`
}

type CollectionsBreakup struct {
	Received decimal.Decimal `json:"received"`
	Payments int             `json:"payments"`
}

// GstStatusUpdate is a partial update of a return's filing state.
type GstStatusUpdate struct {
	Status          string
	Notes           *string
	ReferenceNumber *string
}

// GstDraft is the unpersisted preview of a period's outward supplies.
type GstDraft struct {
	Period   string                `json:"period"`
	Range    DateRange             `json:"range"`
	Totals   GstTotals             `json:"totals"`
	Sections map[string]GstSection `json:"sections"`
	Invoices []InvoicePreview      `json:"invoices"`
}

type GstTotals struct {
	TaxableValue decimal.Decimal `json:"taxableValue"`
	Tax          decimal.Decimal `json:"tax"`
	Cess         decimal.Decimal `json:"cess"`
	GrandTotal   decimal.Decimal `json:"grandTotal"`
	Invoices     int             `json:"invoices"`
	Collections  decimal.Decimal `json:"collections"`
	Payments     int             `json:"payments"`
}

type GstSection struct {
	Label        string          `json:"label"`
	Count        int             `json:"count"`
	TaxableValue decimal.Decimal `json:"taxableValue"`
	Tax          decimal.Decimal `json:"tax"`
}

type InvoicePreview struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   string          `json:"invoiceDate"`
	CustomerName  string          `json:"customerName"`
	CustomerGSTIN string          `json:"customerGSTIN"`
	GstTreatment  string          `json:"gstTreatment"`
	Status        string          `json:"status"`
	SubTotal      decimal.Decimal `json:"subTotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

// TransactionFilter narrows the invoice previews of a period.
type TransactionFilter struct {
	Query     string
	Treatment string
	Status    string
	Limit     int
}

// PaymentLink is the part of a payment the GST aggregator needs.
type PaymentLink struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}
