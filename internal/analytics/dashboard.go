package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"bizledger/internal/common"
	"bizledger/internal/models"
)

// Entity keys of the dashboard summary
const (
	EntityCustomer  = "Customer"
	EntityItem      = "Item"
	EntityInvoice   = "Invoice"
	EntityPayment   = "Payment"
	EntityEmployee  = "Employee"
	EntityGstReturn = "GstReturn"

	SumGrandTotal     = "grand_total"
	SumTaxAmount      = "tax_amount"
	SumAmountReceived = "amount_received"

	MaxTimeseriesDays = 366
)

// BuildDashboardSummary derives the sales and payment headlines from the
// per-entity stats.
func BuildDashboardSummary(from, to *time.Time, entities map[string]models.EntityStats, inventory models.InventorySummary) *models.DashboardSummary {
	summary := &models.DashboardSummary{
		Entities:  entities,
		Inventory: inventory,
		Sales:     models.SalesSummary{Revenue: decimal.Zero, Tax: decimal.Zero},
		Payments:  models.PaymentsSummary{Collected: decimal.Zero},
	}
	if from != nil {
		summary.Range.Start = from.Format(common.DateLayout)
	}
	if to != nil {
		summary.Range.End = to.Format(common.DateLayout)
	}

	if inv, ok := entities[EntityInvoice]; ok {
		summary.Sales.Total = inv.Count
		summary.Sales.Revenue = sumOf(inv, SumGrandTotal)
		summary.Sales.Tax = sumOf(inv, SumTaxAmount)
	}
	if pay, ok := entities[EntityPayment]; ok {
		summary.Payments.Total = pay.Count
		summary.Payments.Collected = sumOf(pay, SumAmountReceived)
	}
	return summary
}

func sumOf(s models.EntityStats, key string) decimal.Decimal {
	if v, ok := s.Sums[key]; ok {
		return v
	}
	return decimal.Zero
}

// BuildTimeseries zero-fills day buckets between from and to, inclusive. A
// missing bound is taken from the data and the derived window is clamped to
// MaxTimeseriesDays, anchored at the given bound or the last data day. With
// no bounds and no data the series is empty.
func BuildTimeseries(from, to *time.Time, days []models.DailyTotals) ([]models.TimeseriesPoint, error) {
	byDay := make(map[string]models.DailyTotals, len(days))
	var first, last time.Time
	for _, d := range days {
		t, err := time.Parse(common.DateLayout, d.Day)
		if err != nil {
			continue
		}
		byDay[d.Day] = d
		if first.IsZero() || t.Before(first) {
			first = t
		}
		if last.IsZero() || t.After(last) {
			last = t
		}
	}

	span := MaxTimeseriesDays - 1
	var start, end time.Time
	switch {
	case from != nil && to != nil:
		start, end = dayOf(*from), dayOf(*to)
		if end.Before(start) {
			return nil, common.Validationf("from cannot be after to")
		}
		if int(end.Sub(start).Hours()/24)+1 > MaxTimeseriesDays {
			return nil, common.Validationf("timeseries range cannot exceed %d days", MaxTimeseriesDays)
		}
	case from != nil:
		start = dayOf(*from)
		end = start
		if last.After(end) {
			end = last
		}
		if limit := start.AddDate(0, 0, span); end.After(limit) {
			end = limit
		}
	case to != nil:
		end = dayOf(*to)
		start = end
		if !first.IsZero() && first.Before(start) {
			start = first
		}
		if limit := end.AddDate(0, 0, -span); start.Before(limit) {
			start = limit
		}
	default:
		if last.IsZero() {
			return []models.TimeseriesPoint{}, nil
		}
		start, end = first, last
		if limit := end.AddDate(0, 0, -span); start.Before(limit) {
			start = limit
		}
	}

	points := make([]models.TimeseriesPoint, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(common.DateLayout)
		p := models.TimeseriesPoint{Date: key, Revenue: decimal.Zero, Collected: decimal.Zero}
		if v, ok := byDay[key]; ok {
			p.Revenue = v.Revenue
			p.Invoices = v.Invoices
			p.Collected = v.Collected
		}
		points = append(points, p)
	}
	return points, nil
}
