package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bizledger/internal/common"
	"bizledger/internal/models"
)

const (
	fallbackLabel           = "N/A"
	DefaultTransactionLimit = 50
	MaxTransactionLimit     = 500
)

var sectionLabels = map[string]string{
	models.TreatmentB2B:    "B2B Invoices",
	models.TreatmentB2C:    "B2C Invoices",
	models.TreatmentExport: "Exports",
	models.TreatmentSEZ:    "SEZ Supplies",
}

// SectionLabel returns the display label of a treatment bucket.
func SectionLabel(treatment string) string {
	if label, ok := sectionLabels[treatment]; ok {
		return label
	}
	return strings.ToUpper(treatment)
}

// NormalizeTreatment lower-cases a treatment; an empty treatment counts as b2c.
func NormalizeTreatment(treatment string) string {
	t := strings.ToLower(strings.TrimSpace(treatment))
	if t == "" {
		return models.TreatmentB2C
	}
	return t
}

// BuildGstDraft aggregates the invoices issued within [start, end] into
// per-treatment sections and period totals. Cancelled invoices are left out.
// Collections count only payments against the selected invoices.
func BuildGstDraft(period string, start, end time.Time, invoices []models.InvoiceListItem, payments []models.PaymentLink) *models.GstDraft {
	draft := &models.GstDraft{
		Period:   period,
		Range:    formatRange(start, end),
		Sections: map[string]models.GstSection{},
		Invoices: []models.InvoicePreview{},
		Totals: models.GstTotals{
			TaxableValue: decimal.Zero,
			Tax:          decimal.Zero,
			Cess:         decimal.Zero,
			GrandTotal:   decimal.Zero,
			Collections:  decimal.Zero,
		},
	}

	selected := make(map[uuid.UUID]struct{}, len(invoices))
	for _, inv := range invoices {
		if inv.Status == models.InvoiceCancelled || !inRange(inv.IssueDate, start, end) {
			continue
		}
		selected[inv.ID] = struct{}{}

		treatment := NormalizeTreatment(inv.GSTTreatment)
		section, ok := draft.Sections[treatment]
		if !ok {
			section = models.GstSection{
				Label:        SectionLabel(treatment),
				TaxableValue: decimal.Zero,
				Tax:          decimal.Zero,
			}
		}
		section.Count++
		section.TaxableValue = section.TaxableValue.Add(inv.Subtotal)
		section.Tax = section.Tax.Add(inv.TaxAmount)
		draft.Sections[treatment] = section

		draft.Totals.Invoices++
		draft.Totals.TaxableValue = draft.Totals.TaxableValue.Add(inv.Subtotal)
		draft.Totals.Tax = draft.Totals.Tax.Add(inv.TaxAmount)
		draft.Totals.GrandTotal = draft.Totals.GrandTotal.Add(inv.GrandTotal)

		draft.Invoices = append(draft.Invoices, toPreview(inv, treatment))
	}

	for _, p := range payments {
		if _, ok := selected[p.InvoiceID]; !ok {
			continue
		}
		draft.Totals.Collections = draft.Totals.Collections.Add(p.Amount)
		draft.Totals.Payments++
	}

	sort.SliceStable(draft.Invoices, func(i, j int) bool {
		a, b := draft.Invoices[i], draft.Invoices[j]
		if a.InvoiceDate != b.InvoiceDate {
			return a.InvoiceDate < b.InvoiceDate
		}
		return a.InvoiceNumber < b.InvoiceNumber
	})

	return draft
}

func toPreview(inv models.InvoiceListItem, treatment string) models.InvoicePreview {
	name := strings.TrimSpace(inv.CustomerName)
	if name == "" {
		name = fallbackLabel
	}
	gstin := strings.TrimSpace(common.SafeString(inv.CustomerGSTIN))
	if gstin == "" {
		gstin = fallbackLabel
	}
	return models.InvoicePreview{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.IssueDate.Format(common.DateLayout),
		CustomerName:  name,
		CustomerGSTIN: gstin,
		GstTreatment:  treatment,
		Status:        inv.Status,
		SubTotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		GrandTotal:    inv.GrandTotal,
	}
}

// ApplyDraft copies the computed figures of a draft onto a return. Filing
// state (status, notes, reference) is left untouched.
func ApplyDraft(ret *models.GstReturn, draft *models.GstDraft, start, end time.Time) {
	ret.PeriodStart = start
	ret.PeriodEnd = end
	ret.TotalTaxableValue = draft.Totals.TaxableValue
	ret.TotalTax = draft.Totals.Tax
	ret.TotalCess = draft.Totals.Cess
	ret.GrossTurnover = draft.Totals.GrandTotal
	ret.PaymentsReceived = draft.Totals.Collections
	// No input tax credit is tracked, so the whole output tax is owed.
	ret.OutstandingTaxLiability = draft.Totals.Tax.Add(draft.Totals.Cess)
	ret.TotalInvoices = draft.Totals.Invoices
	ret.TotalTransactions = draft.Totals.Payments

	breakup := models.GstBreakup{
		Invoices: make(map[string]models.BreakupBucket, len(draft.Sections)),
		Collections: models.CollectionsBreakup{
			Received: draft.Totals.Collections,
			Payments: draft.Totals.Payments,
		},
	}
	for key, s := range draft.Sections {
		breakup.Invoices[key] = models.BreakupBucket{Count: s.Count, Value: s.TaxableValue, Tax: s.Tax}
	}
	ret.SummaryBreakup = breakup
}

// FilterTransactions applies the free-text, treatment and status filters to
// a period's previews and caps the result.
func FilterTransactions(previews []models.InvoicePreview, f models.TransactionFilter) []models.InvoicePreview {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if limit > MaxTransactionLimit {
		limit = MaxTransactionLimit
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	treatment := strings.ToLower(strings.TrimSpace(f.Treatment))
	status := strings.TrimSpace(f.Status)

	out := make([]models.InvoicePreview, 0, min(limit, len(previews)))
	for _, p := range previews {
		if treatment != "" && treatment != "all" && p.GstTreatment != treatment {
			continue
		}
		if status != "" && !strings.EqualFold(status, "all") && !strings.EqualFold(p.Status, status) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.InvoiceNumber), q) &&
			!strings.Contains(strings.ToLower(p.CustomerName), q) &&
			!strings.Contains(strings.ToLower(p.CustomerGSTIN), q) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}
