package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger/internal/common"
	"bizledger/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse(common.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParsePeriod(t *testing.T) {
	start, end, err := ParsePeriod("2025-11")
	require.NoError(t, err)
	assert.Equal(t, day("2025-11-01"), start)
	assert.Equal(t, day("2025-11-30"), end)

	_, end, err = ParsePeriod("2024-02")
	require.NoError(t, err)
	assert.Equal(t, day("2024-02-29"), end)

	for _, bad := range []string{"", "2025-13", "11-2025", "2025/11"} {
		_, _, err := ParsePeriod(bad)
		assert.ErrorIs(t, err, common.ErrValidation, bad)
	}
}

func TestReturnPeriodRange_Annual(t *testing.T) {
	start, end, err := ReturnPeriodRange("2025-11", models.ReturnAnnual)
	require.NoError(t, err)
	assert.Equal(t, day("2025-04-01"), start)
	assert.Equal(t, day("2026-03-31"), end)

	start, end, err = ReturnPeriodRange("2026-02", models.ReturnAnnual)
	require.NoError(t, err)
	assert.Equal(t, day("2025-04-01"), start)
	assert.Equal(t, day("2026-03-31"), end)

	start, end, err = ReturnPeriodRange("2025-11", models.ReturnGSTR3B)
	require.NoError(t, err)
	assert.Equal(t, day("2025-11-01"), start)
	assert.Equal(t, day("2025-11-30"), end)
}

func TestBuildGstDraft_EmptyPeriod(t *testing.T) {
	start, end, _ := ParsePeriod("2025-10")
	draft := BuildGstDraft("2025-10", start, end, nil, nil)

	assert.True(t, draft.Totals.TaxableValue.IsZero())
	assert.True(t, draft.Totals.Tax.IsZero())
	assert.Equal(t, 0, draft.Totals.Invoices)
	assert.Empty(t, draft.Sections)
	assert.NotNil(t, draft.Sections)
	assert.Empty(t, draft.Invoices)
}

func TestBuildGstDraft_SingleB2BInvoice(t *testing.T) {
	start, end, _ := ParsePeriod("2025-11")
	inv := models.InvoiceListItem{
		ID:            uuid.New(),
		InvoiceNumber: "INV-202511-0001",
		IssueDate:     day("2025-11-15"),
		CustomerName:  "Acme Traders",
		CustomerGSTIN: strPtr("27AAPFU0939F1ZV"),
		GSTTreatment:  models.TreatmentB2B,
		Status:        models.InvoiceSent,
		Subtotal:      dec("1000"),
		TaxAmount:     dec("180"),
		GrandTotal:    dec("1180"),
	}

	draft := BuildGstDraft("2025-11", start, end, []models.InvoiceListItem{inv}, nil)

	require.Contains(t, draft.Sections, models.TreatmentB2B)
	b2b := draft.Sections[models.TreatmentB2B]
	assert.Equal(t, 1, b2b.Count)
	assert.True(t, b2b.TaxableValue.Equal(dec("1000")))
	assert.Equal(t, "B2B Invoices", b2b.Label)
	assert.True(t, draft.Totals.Tax.Equal(dec("180")))
	assert.Equal(t, 1, draft.Totals.Invoices)
	assert.Len(t, draft.Sections, 1)
	assert.Equal(t, "2025-11-15", draft.Invoices[0].InvoiceDate)
}

func TestBuildGstDraft_BucketsFallbacksAndCollections(t *testing.T) {
	start, end, _ := ParsePeriod("2025-11")
	paid := uuid.New()
	invoices := []models.InvoiceListItem{
		{ID: paid, InvoiceNumber: "INV-2", IssueDate: day("2025-11-02"), GSTTreatment: "B2C", Status: models.InvoicePaid,
			Subtotal: dec("200"), TaxAmount: dec("10"), GrandTotal: dec("210")},
		{ID: uuid.New(), InvoiceNumber: "INV-1", IssueDate: day("2025-11-02"), CustomerName: "Globex", GSTTreatment: models.TreatmentExport,
			Status: models.InvoiceSent, Subtotal: dec("500"), TaxAmount: dec("0"), GrandTotal: dec("500")},
		{ID: uuid.New(), InvoiceNumber: "INV-X", IssueDate: day("2025-11-03"), GSTTreatment: models.TreatmentB2B,
			Status: models.InvoiceCancelled, Subtotal: dec("999"), TaxAmount: dec("99"), GrandTotal: dec("1098")},
		{ID: uuid.New(), InvoiceNumber: "INV-OLD", IssueDate: day("2025-10-31"), GSTTreatment: models.TreatmentB2B,
			Status: models.InvoiceSent, Subtotal: dec("50"), TaxAmount: dec("9"), GrandTotal: dec("59")},
	}
	payments := []models.PaymentLink{
		{InvoiceID: paid, Amount: dec("210")},
		{InvoiceID: uuid.New(), Amount: dec("75")},
	}

	draft := BuildGstDraft("2025-11", start, end, invoices, payments)

	assert.Equal(t, 2, draft.Totals.Invoices)
	assert.True(t, draft.Totals.TaxableValue.Equal(dec("700")))
	assert.True(t, draft.Totals.Tax.Equal(dec("10")))
	assert.True(t, draft.Totals.GrandTotal.Equal(dec("710")))
	assert.True(t, draft.Totals.Collections.Equal(dec("210")))
	assert.Equal(t, 1, draft.Totals.Payments)

	assert.Len(t, draft.Sections, 2)
	assert.Equal(t, "Exports", draft.Sections[models.TreatmentExport].Label)
	assert.Equal(t, 1, draft.Sections[models.TreatmentB2C].Count)

	require.Len(t, draft.Invoices, 2)
	assert.Equal(t, "INV-1", draft.Invoices[0].InvoiceNumber)
	assert.Equal(t, "N/A", draft.Invoices[0].CustomerGSTIN)
	assert.Equal(t, "N/A", draft.Invoices[1].CustomerName)
	assert.Equal(t, models.TreatmentB2C, draft.Invoices[1].GstTreatment)
}

func TestBuildGstDraft_Idempotent(t *testing.T) {
	start, end, _ := ParsePeriod("2025-11")
	invoices := []models.InvoiceListItem{
		{ID: uuid.New(), InvoiceNumber: "INV-1", IssueDate: day("2025-11-10"), GSTTreatment: models.TreatmentB2B,
			Status: models.InvoiceSent, Subtotal: dec("1000"), TaxAmount: dec("180"), GrandTotal: dec("1180")},
		{ID: uuid.New(), InvoiceNumber: "INV-2", IssueDate: day("2025-11-11"), GSTTreatment: models.TreatmentSEZ,
			Status: models.InvoiceSent, Subtotal: dec("400"), TaxAmount: dec("72"), GrandTotal: dec("472")},
	}

	first := &models.GstReturn{Status: models.GstStatusDraft}
	ApplyDraft(first, BuildGstDraft("2025-11", start, end, invoices, nil), start, end)
	second := &models.GstReturn{Status: models.GstStatusDraft}
	ApplyDraft(second, BuildGstDraft("2025-11", start, end, invoices, nil), start, end)

	assert.Equal(t, first.TotalInvoices, second.TotalInvoices)
	assert.True(t, first.TotalTaxableValue.Equal(second.TotalTaxableValue))
	assert.True(t, first.TotalTax.Equal(second.TotalTax))
	assert.Equal(t, first.SummaryBreakup, second.SummaryBreakup)
	assert.True(t, first.OutstandingTaxLiability.Equal(dec("252")))
	assert.True(t, first.GrossTurnover.Equal(dec("1652")))
}

func TestApplyDraft_KeepsFilingState(t *testing.T) {
	start, end, _ := ParsePeriod("2025-11")
	ret := &models.GstReturn{Status: models.GstStatusFiled, ReferenceNumber: strPtr("ARN-1"), Notes: strPtr("filed late")}
	ApplyDraft(ret, BuildGstDraft("2025-11", start, end, nil, nil), start, end)

	assert.Equal(t, models.GstStatusFiled, ret.Status)
	assert.Equal(t, "ARN-1", *ret.ReferenceNumber)
	assert.Equal(t, start, ret.PeriodStart)
	assert.Empty(t, ret.SummaryBreakup.Invoices)
}

func TestFilterTransactions(t *testing.T) {
	previews := []models.InvoicePreview{
		{InvoiceNumber: "INV-202511-0001", CustomerName: "Acme Traders", CustomerGSTIN: "27AAPFU0939F1ZV", GstTreatment: "b2b", Status: "Sent"},
		{InvoiceNumber: "INV-202511-0002", CustomerName: "Walk-in", CustomerGSTIN: "N/A", GstTreatment: "b2c", Status: "Paid"},
		{InvoiceNumber: "INV-202511-0003", CustomerName: "acme exports", CustomerGSTIN: "N/A", GstTreatment: "export", Status: "Paid"},
	}

	assert.Len(t, FilterTransactions(previews, models.TransactionFilter{}), 3)
	assert.Len(t, FilterTransactions(previews, models.TransactionFilter{Query: "ACME"}), 2)
	assert.Len(t, FilterTransactions(previews, models.TransactionFilter{Query: "0939f"}), 1)
	assert.Len(t, FilterTransactions(previews, models.TransactionFilter{Treatment: "all", Status: "paid"}), 2)
	assert.Len(t, FilterTransactions(previews, models.TransactionFilter{Treatment: "b2c"}), 1)
	assert.Len(t, FilterTransactions(previews, models.TransactionFilter{Limit: 1}), 1)
	assert.Empty(t, FilterTransactions(previews, models.TransactionFilter{Query: "nobody"}))
}
