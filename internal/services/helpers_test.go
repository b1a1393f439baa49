package services

import (
	"time"

	"bizledger/internal/caching"
	"bizledger/internal/events"
	applog "bizledger/internal/log"
	"bizledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedClock(s string) func() time.Time {
	t := date(s).Add(10 * time.Hour)
	return func() time.Time { return t }
}

// quietEffects discards every follow-up of a write.
func quietEffects() *Effects {
	return NewEffects(nil, events.NewNoopPublisher(), caching.NewNoopCacheService(), applog.Discard())
}

func sampleServiceInvoice(orgID uuid.UUID) *models.Invoice {
	inv := &models.Invoice{
		ID:             uuid.New(),
		OrganizationID: orgID,
		CustomerID:     uuid.New(),
		InvoiceNumber:  "INV-202511-0007",
		CustomerName:   "Asha Traders",
		CustomerGSTIN:  stringPtr("27AAPFU0939F1ZV"),
		LineItems: []models.LineItem{{
			ItemID:     uuid.New(),
			Name:       "Rice 25kg",
			HSNSACCode: "1006",
			Quantity:   2,
			UnitPrice:  decimal.NewFromInt(500),
			TaxRate:    decimal.NewFromInt(18),
		}},
		IssueDate:    date("2025-11-03"),
		Status:       models.InvoiceSent,
		GSTTreatment: models.TreatmentB2B,
		AmountPaid:   decimal.Zero,
	}
	inv.ComputeTotals()
	return inv
}
