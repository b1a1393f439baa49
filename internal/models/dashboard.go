package models

import "github.com/shopspring/decimal"

// EntityStats is a per-entity count with optional money sums.
type EntityStats struct {
	Count int                        `json:"count"`
	Sums  map[string]decimal.Decimal `json:"sums,omitempty"`
}

type SalesSummary struct {
	Total   int             `json:"total"`
	Revenue decimal.Decimal `json:"revenue"`
	Tax     decimal.Decimal `json:"tax"`
}

type PaymentsSummary struct {
	Total     int             `json:"total"`
	Collected decimal.Decimal `json:"collected"`
}

type InventorySummary struct {
	Products int `json:"products"`
	Services int `json:"services"`
	LowStock int `json:"lowStock"`
}

type DashboardSummary struct {
	Range     DateRange              `json:"range"`
	Entities  map[string]EntityStats `json:"entities"`
	Sales     SalesSummary           `json:"sales"`
	Payments  PaymentsSummary        `json:"payments"`
	Inventory InventorySummary       `json:"inventory"`
}

// DailyTotals is one day's raw sums as read from storage.
type DailyTotals struct {
	Day       string
	Revenue   decimal.Decimal
	Invoices  int
	Collected decimal.Decimal
}

type TimeseriesPoint struct {
	Date      string          `json:"date"`
	Revenue   decimal.Decimal `json:"revenue"`
	Invoices  int             `json:"invoices"`
	Collected decimal.Decimal `json:"collected"`
}
