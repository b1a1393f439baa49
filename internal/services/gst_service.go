package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"bizledger/internal/analytics"
	"bizledger/internal/caching"
	"bizledger/internal/common"
	"bizledger/internal/events"
	applog "bizledger/internal/log"
	"bizledger/internal/models"
	"bizledger/internal/repositories"

	"github.com/google/uuid"
)

const (
	entityGstReturn = "gst_return"

	DefaultDraftTTL = 5 * time.Minute
)

type GenerateGstInput struct {
	Period     string `json:"period" validate:"required"`
	ReturnType string `json:"returnType"`
}

type GstStatusInput struct {
	Status          string  `json:"status" validate:"required"`
	Notes           *string `json:"notes" validate:"omitempty,max=2000"`
	ReferenceNumber *string `json:"referenceNumber" validate:"omitempty,max=100"`
}

type GstService interface {
	List(ctx context.Context, orgID uuid.UUID, page, limit int) (*common.PagedData, error)
	Generate(ctx context.Context, orgID uuid.UUID, input GenerateGstInput) (*models.GstReturn, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.GstReturn, error)
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, input GstStatusInput) (*models.GstReturn, error)
	DraftPreview(ctx context.Context, orgID uuid.UUID, period string) (*models.GstDraft, error)
	SearchTransactions(ctx context.Context, orgID uuid.UUID, period string, filter models.TransactionFilter) ([]models.InvoicePreview, error)
	// WarmDraft recomputes a period's draft and refreshes the cache.
	WarmDraft(ctx context.Context, orgID uuid.UUID, period string) error
}

type gstService struct {
	gstRepo     repositories.GstReturnRepository
	invoiceRepo repositories.InvoiceRepository
	paymentRepo repositories.PaymentRepository
	cache       caching.CacheService
	effects     *Effects
	logger      *applog.Logger
	draftTTL    time.Duration
}

func NewGstService(gstRepo repositories.GstReturnRepository, invoiceRepo repositories.InvoiceRepository, paymentRepo repositories.PaymentRepository, cache caching.CacheService, effects *Effects, logger *applog.Logger, draftTTL time.Duration) GstService {
	if logger == nil {
		logger = applog.Discard()
	}
	if cache == nil {
		cache = caching.NewNoopCacheService()
	}
	if draftTTL <= 0 {
		draftTTL = DefaultDraftTTL
	}
	return &gstService{
		gstRepo:     gstRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		cache:       cache,
		effects:     effects,
		logger:      logger.WithComponent(applog.ComponentGST),
		draftTTL:    draftTTL,
	}
}

func (s *gstService) List(ctx context.Context, orgID uuid.UUID, page, limit int) (*common.PagedData, error) {
	page, limit, offset, err := pageWindow(page, limit)
	if err != nil {
		return nil, err
	}
	returns, total, err := s.gstRepo.List(ctx, orgID, limit, offset)
	if err != nil {
		return nil, common.SecureErrorMessage("list gst returns", err)
	}
	return &common.PagedData{Data: returns, Total: total, Page: page, Limit: limit}, nil
}

// buildDraft aggregates the invoices and payments of [start, end].
func (s *gstService) buildDraft(ctx context.Context, orgID uuid.UUID, period string, start, end time.Time) (*models.GstDraft, error) {
	invoices, err := s.invoiceRepo.ListForPeriod(ctx, orgID, start, end)
	if err != nil {
		return nil, common.SecureErrorMessage("load invoices for period", err)
	}
	payments, err := s.paymentRepo.ListLinksForPeriod(ctx, orgID, start, end)
	if err != nil {
		return nil, common.SecureErrorMessage("load payments for period", err)
	}
	return analytics.BuildGstDraft(period, start, end, invoices, payments), nil
}

// Generate recomputes the return for (period, return type) and upserts it.
// Running it again replaces the figures and keeps the filing state.
func (s *gstService) Generate(ctx context.Context, orgID uuid.UUID, input GenerateGstInput) (*models.GstReturn, error) {
	period := strings.TrimSpace(input.Period)
	returnType := strings.ToUpper(strings.TrimSpace(input.ReturnType))
	if returnType == "" {
		returnType = models.ReturnGSTR1
	}
	if err := common.ValidateOneOf(returnType, "returnType", models.ReturnTypes...); err != nil {
		return nil, err
	}
	start, end, err := analytics.ReturnPeriodRange(period, returnType)
	if err != nil {
		return nil, err
	}
	// annual returns are keyed by the first month of their financial year
	if returnType == models.ReturnAnnual {
		period = start.Format(analytics.PeriodLayout)
	}

	draft, err := s.buildDraft(ctx, orgID, period, start, end)
	if err != nil {
		return nil, err
	}

	ret := &models.GstReturn{
		OrganizationID: orgID,
		Period:         period,
		ReturnType:     returnType,
		Status:         models.GstStatusDraft,
	}
	if userID, ok := common.GetUserIDFromContext(ctx); ok && userID != uuid.Nil {
		ret.GeneratedBy = &userID
	}
	analytics.ApplyDraft(ret, draft, start, end)

	saved, err := s.gstRepo.Upsert(ctx, ret)
	if err != nil {
		return nil, err
	}

	details := models.JSONB{
		"period":      saved.Period,
		"return_type": saved.ReturnType,
		"invoices":    saved.TotalInvoices,
		"total_tax":   saved.TotalTax.StringFixed(2),
	}
	s.logger.InfoContext(ctx, "gst return generated",
		applog.FieldOrganizationID, orgID.String(),
		applog.FieldPeriod, saved.Period,
		applog.FieldReturnType, saved.ReturnType)
	s.effects.Invalidate(ctx, orgID)
	s.effects.Publish(ctx, events.GstReturnGenerated, orgID, saved)
	s.effects.Audit(ctx, orgID, models.ActionGenerate, entityGstReturn, saved.ID.String(), details)
	return saved, nil
}

func (s *gstService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.GstReturn, error) {
	return s.gstRepo.GetByID(ctx, orgID, id)
}

// UpdateStatus sets the filing state. Any status may follow any other; a
// move back down the draft → submitted → filed → paid ladder is logged.
func (s *gstService) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, input GstStatusInput) (*models.GstReturn, error) {
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if err := common.ValidateOneOf(status, "status", models.GstReturnStatus...); err != nil {
		return nil, err
	}

	current, err := s.gstRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if slices.Index(models.GstReturnStatus, status) < slices.Index(models.GstReturnStatus, current.Status) {
		s.logger.WarnContext(ctx, "gst return status moved backwards",
			applog.FieldOrganizationID, orgID.String(),
			applog.FieldPeriod, current.Period,
			applog.FieldReturnType, current.ReturnType,
			"from", current.Status,
			"to", status)
	}

	updated, err := s.gstRepo.UpdateStatus(ctx, orgID, id, models.GstStatusUpdate{
		Status:          status,
		Notes:           clearableText(input.Notes),
		ReferenceNumber: clearableText(input.ReferenceNumber),
	})
	if err != nil {
		return nil, err
	}

	change := models.JSONB{"from": current.Status, "to": updated.Status, "period": updated.Period}
	s.effects.Publish(ctx, events.GstReturnStatusChanged, orgID, change)
	s.effects.Audit(ctx, orgID, models.ActionUpdate, entityGstReturn, id.String(), change)
	return updated, nil
}

// DraftPreview returns the unpersisted draft of a monthly period, served from
// cache when fresh.
func (s *gstService) DraftPreview(ctx context.Context, orgID uuid.UUID, period string) (*models.GstDraft, error) {
	period = strings.TrimSpace(period)
	start, end, err := analytics.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cache.GetGstDraft(ctx, orgID, period); err != nil {
		s.logger.WarnContext(ctx, "gst draft cache read failed",
			applog.FieldOrganizationID, orgID.String(),
			applog.FieldPeriod, period,
			applog.FieldError, err.Error())
	} else if cached != nil {
		return cached, nil
	}

	return s.refreshDraft(ctx, orgID, period, start, end)
}

func (s *gstService) refreshDraft(ctx context.Context, orgID uuid.UUID, period string, start, end time.Time) (*models.GstDraft, error) {
	draft, err := s.buildDraft(ctx, orgID, period, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetGstDraft(ctx, orgID, draft, s.draftTTL); err != nil {
		s.logger.WarnContext(ctx, "gst draft cache write failed",
			applog.FieldOrganizationID, orgID.String(),
			applog.FieldPeriod, period,
			applog.FieldError, err.Error())
	}
	return draft, nil
}

// SearchTransactions filters the invoice previews of a period's draft.
func (s *gstService) SearchTransactions(ctx context.Context, orgID uuid.UUID, period string, filter models.TransactionFilter) ([]models.InvoicePreview, error) {
	draft, err := s.DraftPreview(ctx, orgID, period)
	if err != nil {
		return nil, err
	}
	return analytics.FilterTransactions(draft.Invoices, filter), nil
}

func (s *gstService) WarmDraft(ctx context.Context, orgID uuid.UUID, period string) error {
	start, end, err := analytics.ParsePeriod(period)
	if err != nil {
		return err
	}
	_, err = s.refreshDraft(ctx, orgID, period, start, end)
	return err
}
