package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"bizledger/internal/analytics"
	"bizledger/internal/common"
	"bizledger/internal/events"
	applog "bizledger/internal/log"
	"bizledger/internal/models"
	"bizledger/internal/repositories"

	"github.com/google/uuid"
)

const (
	entityAttendance = "attendance"

	clockLayout = "15:04"
)

var attendanceStatuses = []string{models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLeave}

// AttendanceEntry is one (employee, date) tuple of a batch save. Fields stay
// raw strings so a bad entry is reported instead of failing the batch.
type AttendanceEntry struct {
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	CheckIn    *string `json:"checkIn"`
	CheckOut   *string `json:"checkOut"`
	Notes      *string `json:"notes"`
}

// SaveAttendanceInput is a batch save. Date applies to entries without one.
type SaveAttendanceInput struct {
	Date    string            `json:"date"`
	Records []AttendanceEntry `json:"records"`
}

// AttendancePatch is a partial update of a single record.
type AttendancePatch struct {
	Status   *string `json:"status"`
	CheckIn  *string `json:"checkIn"`
	CheckOut *string `json:"checkOut"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
}

type AttendanceService interface {
	Save(ctx context.Context, orgID uuid.UUID, input SaveAttendanceInput) (*models.AttendanceSaveResult, error)
	List(ctx context.Context, orgID uuid.UUID, date, employeeID string) ([]models.AttendanceRecord, error)
	Update(ctx context.Context, orgID, id uuid.UUID, patch AttendancePatch) (*models.AttendanceRecord, error)
	EmployeeSummary(ctx context.Context, orgID uuid.UUID, month, startDate, endDate string) (*models.EmployeeSummaryReport, error)
	MonthlySummary(ctx context.Context, orgID uuid.UUID, year, employeeID string) (*models.MonthlySummaryReport, error)
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	employeeRepo   repositories.EmployeeRepository
	effects        *Effects
	logger         *applog.Logger
	now            func() time.Time
}

func NewAttendanceService(attendanceRepo repositories.AttendanceRepository, employeeRepo repositories.EmployeeRepository, effects *Effects, logger *applog.Logger) AttendanceService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		effects:        effects,
		logger:         logger.WithComponent(applog.ComponentAttendance),
		now:            time.Now,
	}
}

func validateClock(value *string, field string) (*string, error) {
	value = trimOptional(value)
	if value == nil {
		return nil, nil
	}
	if _, err := time.Parse(clockLayout, *value); err != nil {
		return nil, common.Validationf("%s must be in HH:MM format", field)
	}
	return value, nil
}

// parseEntry validates one batch entry against the batch date.
func parseEntry(orgID uuid.UUID, batchDate string, e AttendanceEntry) (*models.AttendanceRecord, error) {
	employeeID, err := common.ValidateUUID(strings.TrimSpace(e.EmployeeID), "employeeId")
	if err != nil {
		return nil, err
	}
	dateStr := strings.TrimSpace(e.Date)
	if dateStr == "" {
		dateStr = strings.TrimSpace(batchDate)
	}
	if dateStr == "" {
		return nil, common.Validationf("date is required")
	}
	date, err := common.ParseDate(dateStr, "date")
	if err != nil {
		return nil, err
	}
	status := strings.ToLower(strings.TrimSpace(e.Status))
	if err := common.ValidateOneOf(status, "status", attendanceStatuses...); err != nil {
		return nil, err
	}
	checkIn, err := validateClock(e.CheckIn, "checkIn")
	if err != nil {
		return nil, err
	}
	checkOut, err := validateClock(e.CheckOut, "checkOut")
	if err != nil {
		return nil, err
	}
	return &models.AttendanceRecord{
		OrganizationID: orgID,
		EmployeeID:     employeeID,
		Date:           date,
		Status:         status,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Notes:          trimOptional(e.Notes),
	}, nil
}

// failureMessage keeps domain messages and hides storage errors.
func failureMessage(err error) string {
	var de *common.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "failed to save attendance record"
}

// Save upserts every entry independently. Entries that fail validation, name
// an unknown employee or fail to store are reported in Failed; the others
// are kept.
func (s *attendanceService) Save(ctx context.Context, orgID uuid.UUID, input SaveAttendanceInput) (*models.AttendanceSaveResult, error) {
	if len(input.Records) == 0 {
		return nil, common.Validationf("records are required")
	}

	result := &models.AttendanceSaveResult{
		Saved:  []models.AttendanceRecord{},
		Failed: []models.AttendanceFailure{},
	}
	fail := func(i int, e AttendanceEntry, msg string) {
		date := strings.TrimSpace(e.Date)
		if date == "" {
			date = strings.TrimSpace(input.Date)
		}
		result.Failed = append(result.Failed, models.AttendanceFailure{
			Index:      i,
			EmployeeID: e.EmployeeID,
			Date:       date,
			Message:    msg,
		})
	}

	parsed := make([]*models.AttendanceRecord, len(input.Records))
	ids := make([]uuid.UUID, 0, len(input.Records))
	for i, e := range input.Records {
		rec, err := parseEntry(orgID, input.Date, e)
		if err != nil {
			fail(i, e, failureMessage(err))
			continue
		}
		parsed[i] = rec
		ids = append(ids, rec.EmployeeID)
	}

	known := map[uuid.UUID]bool{}
	if len(ids) > 0 {
		var err error
		known, err = s.employeeRepo.ExistingIDs(ctx, orgID, ids)
		if err != nil {
			return nil, common.SecureErrorMessage("look up employees", err)
		}
	}

	for i, rec := range parsed {
		if rec == nil {
			continue
		}
		if !known[rec.EmployeeID] {
			fail(i, input.Records[i], "employee not found")
			continue
		}
		if err := s.attendanceRepo.Upsert(ctx, rec); err != nil {
			s.logger.WarnContext(ctx, "failed to save attendance record",
				applog.FieldOrganizationID, orgID.String(),
				applog.FieldEmployeeID, rec.EmployeeID.String(),
				applog.FieldError, err.Error())
			fail(i, input.Records[i], failureMessage(err))
			continue
		}
		result.Saved = append(result.Saved, *rec)
	}

	if len(result.Saved) > 0 {
		summary := models.JSONB{"saved": len(result.Saved), "failed": len(result.Failed)}
		s.effects.Publish(ctx, events.AttendanceSaved, orgID, summary)
		s.effects.Audit(ctx, orgID, models.ActionCreate, entityAttendance, "", summary)
	}
	return result, nil
}

func (s *attendanceService) List(ctx context.Context, orgID uuid.UUID, date, employeeID string) ([]models.AttendanceRecord, error) {
	var filter models.AttendanceFilter
	d, err := parseOptionalDate(date, "date")
	if err != nil {
		return nil, err
	}
	filter.Date = d
	if strings.TrimSpace(employeeID) != "" {
		id, err := common.ValidateUUID(strings.TrimSpace(employeeID), "employeeId")
		if err != nil {
			return nil, err
		}
		filter.EmployeeID = &id
	}

	records, err := s.attendanceRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, common.SecureErrorMessage("list attendance", err)
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}

func (s *attendanceService) Update(ctx context.Context, orgID, id uuid.UUID, patch AttendancePatch) (*models.AttendanceRecord, error) {
	record, err := s.attendanceRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*patch.Status))
		if err := common.ValidateOneOf(status, "status", attendanceStatuses...); err != nil {
			return nil, err
		}
		record.Status = status
	}
	if patch.CheckIn != nil {
		if record.CheckIn, err = validateClock(patch.CheckIn, "checkIn"); err != nil {
			return nil, err
		}
	}
	if patch.CheckOut != nil {
		if record.CheckOut, err = validateClock(patch.CheckOut, "checkOut"); err != nil {
			return nil, err
		}
	}
	if patch.Notes != nil {
		record.Notes = trimOptional(patch.Notes)
	}

	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	s.effects.Audit(ctx, orgID, models.ActionUpdate, entityAttendance, id.String(), models.JSONB{"status": record.Status})
	return record, nil
}

// EmployeeSummary counts days per employee for a month, an explicit range,
// or the current month when neither is given.
func (s *attendanceService) EmployeeSummary(ctx context.Context, orgID uuid.UUID, month, startDate, endDate string) (*models.EmployeeSummaryReport, error) {
	start, end, err := analytics.ResolveRange(month, startDate, endDate, s.now().UTC())
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListAll(ctx, orgID)
	if err != nil {
		return nil, common.SecureErrorMessage("list employees", err)
	}
	records, err := s.attendanceRepo.List(ctx, orgID, models.AttendanceFilter{From: &start, To: &end})
	if err != nil {
		return nil, common.SecureErrorMessage("list attendance", err)
	}
	return analytics.SummarizeByEmployee(start, end, records, employees), nil
}

// MonthlySummary returns twelve month rows for the year, defaulting to the
// current year.
func (s *attendanceService) MonthlySummary(ctx context.Context, orgID uuid.UUID, year, employeeID string) (*models.MonthlySummaryReport, error) {
	y := s.now().UTC().Year()
	if strings.TrimSpace(year) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(year))
		if err != nil || parsed < 1900 || parsed > 9999 {
			return nil, common.Validationf("year must be a four digit year")
		}
		y = parsed
	}

	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	filter := models.AttendanceFilter{From: &start, To: &end}
	if strings.TrimSpace(employeeID) != "" {
		id, err := common.ValidateUUID(strings.TrimSpace(employeeID), "employeeId")
		if err != nil {
			return nil, err
		}
		filter.EmployeeID = &id
	}

	records, err := s.attendanceRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, common.SecureErrorMessage("list attendance", err)
	}
	return analytics.SummarizeByMonth(y, records), nil
}
