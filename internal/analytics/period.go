package analytics

import (
	"strings"
	"time"

	"bizledger/internal/common"
	"bizledger/internal/models"
)

// PeriodLayout is the YYYY-MM form of a reporting period.
const PeriodLayout = "2006-01"

// ParsePeriod returns the first and last calendar day of a YYYY-MM period.
func ParsePeriod(period string) (time.Time, time.Time, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return time.Time{}, time.Time{}, common.Validationf("period is required")
	}
	start, err := time.Parse(PeriodLayout, period)
	if err != nil {
		return time.Time{}, time.Time{}, common.Validationf("period must be in YYYY-MM format")
	}
	return start, start.AddDate(0, 1, -1), nil
}

// ReturnPeriodRange widens the period for annual returns to the April-March
// financial year containing the given month.
func ReturnPeriodRange(period, returnType string) (time.Time, time.Time, error) {
	start, end, err := ParsePeriod(period)
	if err != nil {
		return start, end, err
	}
	if returnType != models.ReturnAnnual {
		return start, end, nil
	}
	fyStartYear := start.Year()
	if start.Month() < time.April {
		fyStartYear--
	}
	fyStart := time.Date(fyStartYear, time.April, 1, 0, 0, 0, 0, time.UTC)
	return fyStart, fyStart.AddDate(1, 0, -1), nil
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// ResolveRange picks the reporting window for attendance summaries: an
// explicit month wins, then an explicit start/end pair, then the month of now.
func ResolveRange(month, startDate, endDate string, now time.Time) (time.Time, time.Time, error) {
	if strings.TrimSpace(month) != "" {
		return ParsePeriod(month)
	}
	if startDate != "" || endDate != "" {
		if startDate == "" || endDate == "" {
			return time.Time{}, time.Time{}, common.Validationf("startDate and endDate must be provided together")
		}
		start, err := common.ParseDate(startDate, "startDate")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := common.ParseDate(endDate, "endDate")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if err := common.ValidateDateRange(start, end); err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	}
	start, end := MonthRange(now)
	return start, end, nil
}

func formatRange(start, end time.Time) models.DateRange {
	return models.DateRange{Start: start.Format(common.DateLayout), End: end.Format(common.DateLayout)}
}

func inRange(t, start, end time.Time) bool {
	d := dayOf(t)
	return !d.Before(dayOf(start)) && !d.After(dayOf(end))
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
