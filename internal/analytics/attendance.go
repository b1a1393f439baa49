package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"bizledger/internal/common"
	"bizledger/internal/models"
)

// SummarizeByEmployee counts present/absent/leave days per employee within
// [start, end]. Every listed employee gets a row, including those with no
// records; records of employees missing from the list still get a row.
func SummarizeByEmployee(start, end time.Time, records []models.AttendanceRecord, employees []models.Employee) *models.EmployeeSummaryReport {
	rows := make(map[uuid.UUID]*models.EmployeeAttendanceSummary, len(employees))
	for _, e := range employees {
		rows[e.ID] = &models.EmployeeAttendanceSummary{
			EmployeeID:   e.ID,
			EmployeeCode: e.EmployeeCode,
			FullName:     e.FullName,
			RoleTitle:    common.SafeString(e.RoleTitle),
			Status:       e.Status,
		}
	}

	report := &models.EmployeeSummaryReport{Range: formatRange(start, end)}
	for _, r := range records {
		if !inRange(r.Date, start, end) {
			continue
		}
		row, ok := rows[r.EmployeeID]
		if !ok {
			row = &models.EmployeeAttendanceSummary{EmployeeID: r.EmployeeID}
			rows[r.EmployeeID] = row
		}
		row.Add(r.Status)
		report.Overall.Add(r.Status)
	}

	report.Employees = make([]models.EmployeeAttendanceSummary, 0, len(rows))
	for _, row := range rows {
		report.Employees = append(report.Employees, *row)
	}
	sort.Slice(report.Employees, func(i, j int) bool {
		a, b := report.Employees[i], report.Employees[j]
		if a.EmployeeCode != b.EmployeeCode {
			return a.EmployeeCode < b.EmployeeCode
		}
		if a.FullName != b.FullName {
			return a.FullName < b.FullName
		}
		return a.EmployeeID.String() < b.EmployeeID.String()
	})
	return report
}

// SummarizeByMonth returns twelve rows, one per calendar month of year,
// zero-filled where nothing was recorded.
func SummarizeByMonth(year int, records []models.AttendanceRecord) *models.MonthlySummaryReport {
	report := &models.MonthlySummaryReport{
		Year:   year,
		Months: make([]models.MonthlyAttendanceSummary, 12),
	}
	for i := range report.Months {
		report.Months[i].Month = i + 1
	}
	for _, r := range records {
		if r.Date.Year() != year {
			continue
		}
		report.Months[int(r.Date.Month())-1].Add(r.Status)
		report.Overall.Add(r.Status)
	}
	return report
}
