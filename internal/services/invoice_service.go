package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"bizledger/internal/common"
	"bizledger/internal/events"
	applog "bizledger/internal/log"
	"bizledger/internal/models"
	"bizledger/internal/repositories"

	"github.com/google/uuid"
)

const (
	entityInvoice = "invoice"

	pdfURLExpiry = 24 * time.Hour
)

var invoiceStatuses = []string{
	models.InvoiceDraft,
	models.InvoiceSent,
	models.InvoicePaid,
	models.InvoiceOverdue,
	models.InvoiceCancelled,
}

// LineItemInput names a catalogue item and a quantity. Prices and tax rates
// always come from the catalogue.
type LineItemInput struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

type CreateInvoiceInput struct {
	CustomerID   uuid.UUID       `json:"customer_id" validate:"required"`
	LineItems    []LineItemInput `json:"line_items" validate:"required,min=1,dive"`
	IssueDate    string          `json:"issue_date" validate:"omitempty,isodate"`
	DueDate      string          `json:"due_date" validate:"omitempty,isodate"`
	GSTTreatment string          `json:"gst_treatment" validate:"omitempty,oneof=b2b b2c export sez"`
	Status       string          `json:"status" validate:"omitempty,oneof=Draft Sent"`
	Notes        *string         `json:"notes" validate:"omitempty,max=2000"`
}

type InvoiceStatusInput struct {
	Status string `json:"status" validate:"required,oneof=Draft Sent Overdue Cancelled"`
}

// InvoiceDocument is a rendered invoice PDF. URL is set when the document
// was stored in object storage; otherwise Content carries the bytes.
type InvoiceDocument struct {
	FileName  string    `json:"file_name"`
	URL       string    `json:"pdf_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Content   []byte    `json:"-"`
}

type InvoiceService interface {
	Create(ctx context.Context, orgID uuid.UUID, input CreateInvoiceInput) (*models.Invoice, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, orgID uuid.UUID, status string, customerID *uuid.UUID, page, limit int) (*common.PagedData, error)
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Invoice, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	RenderPDF(ctx context.Context, orgID, id uuid.UUID) (*InvoiceDocument, error)
	MarkOverdue(ctx context.Context, orgID uuid.UUID, asOf time.Time) (int64, error)
}

type invoiceService struct {
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	itemRepo     repositories.ItemRepository
	orgRepo      repositories.OrganizationRepository
	storage      ObjectStorage
	effects      *Effects
	logger       *applog.Logger
	now          func() time.Time
}

// NewInvoiceService builds the invoicing service. storage may be nil, in
// which case PDFs are returned inline.
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, customerRepo repositories.CustomerRepository, itemRepo repositories.ItemRepository, orgRepo repositories.OrganizationRepository, storage ObjectStorage, effects *Effects, logger *applog.Logger) InvoiceService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		orgRepo:      orgRepo,
		storage:      storage,
		effects:      effects,
		logger:       logger.WithComponent(applog.ComponentBilling),
		now:          time.Now,
	}
}

// Create prices the requested lines from the catalogue, snapshots the
// customer and stores the invoice while decrementing product stock.
func (s *invoiceService) Create(ctx context.Context, orgID uuid.UUID, input CreateInvoiceInput) (*models.Invoice, error) {
	if input.CustomerID == uuid.Nil {
		return nil, common.Validationf("customer_id is required")
	}
	if len(input.LineItems) == 0 {
		return nil, common.Validationf("line_items must contain at least one item")
	}

	customer, err := s.customerRepo.GetByID(ctx, orgID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	issueDate := today(s.now())
	if parsed, err := parseOptionalDate(input.IssueDate, "issue_date"); err != nil {
		return nil, err
	} else if parsed != nil {
		issueDate = *parsed
	}
	dueDate, err := parseOptionalDate(input.DueDate, "due_date")
	if err != nil {
		return nil, err
	}
	if dueDate != nil && dueDate.Before(issueDate) {
		return nil, common.Validationf("due_date cannot be before issue_date")
	}

	treatment := strings.ToLower(strings.TrimSpace(input.GSTTreatment))
	if treatment == "" {
		treatment = models.TreatmentB2C
		if common.SafeString(customer.GSTIN) != "" {
			treatment = models.TreatmentB2B
		}
	}
	if err := common.ValidateOneOf(treatment, "gst_treatment",
		models.TreatmentB2B, models.TreatmentB2C, models.TreatmentExport, models.TreatmentSEZ); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.InvoiceSent
	}
	if err := common.ValidateOneOf(status, "status", models.InvoiceDraft, models.InvoiceSent); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(input.LineItems))
	for i, line := range input.LineItems {
		if line.ItemID == uuid.Nil {
			return nil, common.Validationf("line_items[%d].item_id is required", i)
		}
		if line.Quantity <= 0 {
			return nil, common.Validationf("line_items[%d].quantity must be greater than zero", i)
		}
		ids = append(ids, line.ItemID)
	}
	catalogue, err := s.itemRepo.GetByIDs(ctx, orgID, ids)
	if err != nil {
		return nil, common.SecureErrorMessage("load items", err)
	}

	lines := make([]models.LineItem, 0, len(input.LineItems))
	stock := make(map[uuid.UUID]int)
	for _, line := range input.LineItems {
		item, ok := catalogue[line.ItemID]
		if !ok {
			return nil, common.Validationf("item %s not found", line.ItemID)
		}
		lines = append(lines, models.LineItem{
			ItemID:     item.ID,
			Name:       item.Name,
			HSNSACCode: common.SafeString(item.HSNSACCode),
			Quantity:   line.Quantity,
			UnitPrice:  item.UnitPrice,
			TaxRate:    item.TaxRate,
		})
		if item.IsProduct() {
			stock[item.ID] += line.Quantity
		}
	}
	for itemID, qty := range stock {
		item := catalogue[itemID]
		if item.StockQuantity == nil || *item.StockQuantity < qty {
			return nil, common.Validationf("insufficient stock for %s", item.Name)
		}
	}

	invoice := &models.Invoice{
		OrganizationID: orgID,
		CustomerID:     customer.ID,
		CustomerName:   customer.Name,
		CustomerGSTIN:  customer.GSTIN,
		LineItems:      lines,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		Status:         status,
		GSTTreatment:   treatment,
		Notes:          trimOptional(input.Notes),
	}
	invoice.ComputeTotals()

	if err := s.invoiceRepo.CreateWithStock(ctx, invoice, stock); err != nil {
		return nil, err
	}

	s.effects.Invalidate(ctx, orgID)
	s.effects.Publish(ctx, events.InvoiceCreated, orgID, invoice)
	s.effects.Audit(ctx, orgID, models.ActionCreate, entityInvoice, invoice.ID.String(), models.JSONB{
		"invoice_number": invoice.InvoiceNumber,
		"grand_total":    invoice.GrandTotal.StringFixed(2),
	})
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, orgID, id)
}

func (s *invoiceService) List(ctx context.Context, orgID uuid.UUID, status string, customerID *uuid.UUID, page, limit int) (*common.PagedData, error) {
	if status != "" {
		if err := common.ValidateOneOf(status, "status", invoiceStatuses...); err != nil {
			return nil, err
		}
	}
	page, limit, offset, err := pageWindow(page, limit)
	if err != nil {
		return nil, err
	}
	invoices, total, err := s.invoiceRepo.List(ctx, orgID, models.InvoiceFilter{
		Status:     status,
		CustomerID: customerID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, common.SecureErrorMessage("list invoices", err)
	}
	return &common.PagedData{Data: invoices, Total: total, Page: page, Limit: limit}, nil
}

// UpdateStatus moves an invoice between Draft, Sent, Overdue and Cancelled.
// Paid is reached only by recording payments.
func (s *invoiceService) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Invoice, error) {
	if status == models.InvoicePaid {
		return nil, common.Validationf("invoices are marked Paid by recording payments")
	}
	if err := common.ValidateOneOf(status, "status",
		models.InvoiceDraft, models.InvoiceSent, models.InvoiceOverdue, models.InvoiceCancelled); err != nil {
		return nil, err
	}

	current, err := s.invoiceRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !current.IsOpen() {
		return nil, common.Conflictf("cannot change the status of a %s invoice", current.Status)
	}
	if status == models.InvoiceCancelled && current.AmountPaid.IsPositive() {
		return nil, common.Conflictf("an invoice with recorded payments cannot be cancelled")
	}
	if status == current.Status {
		return current, nil
	}

	updated, err := s.invoiceRepo.UpdateStatus(ctx, orgID, id, status)
	if err != nil {
		return nil, err
	}

	change := models.JSONB{"from": current.Status, "to": updated.Status, "invoice_number": updated.InvoiceNumber}
	s.effects.Invalidate(ctx, orgID)
	s.effects.Publish(ctx, events.InvoiceStatusChanged, orgID, change)
	s.effects.Audit(ctx, orgID, models.ActionUpdate, entityInvoice, id.String(), change)
	return updated, nil
}

func (s *invoiceService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if err := s.invoiceRepo.Delete(ctx, orgID, id); err != nil {
		return err
	}
	s.effects.Invalidate(ctx, orgID)
	s.effects.Audit(ctx, orgID, models.ActionDelete, entityInvoice, id.String(), nil)
	return nil
}

// RenderPDF renders the invoice and, when object storage is configured,
// uploads it and returns a presigned download URL. A storage failure falls
// back to returning the bytes inline.
func (s *invoiceService) RenderPDF(ctx context.Context, orgID, id uuid.UUID) (*InvoiceDocument, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, common.SecureErrorMessage("load organization", err)
	}

	content, err := RenderInvoicePDF(org, invoice)
	if err != nil {
		return nil, err
	}
	doc := &InvoiceDocument{FileName: invoice.InvoiceNumber + ".pdf", Content: content}
	if s.storage == nil {
		return doc, nil
	}

	objectName := InvoiceObjectName(orgID, invoice.InvoiceNumber)
	if err := s.storage.Upload(ctx, objectName, "application/pdf", bytes.NewReader(content), int64(len(content))); err != nil {
		s.logger.WarnContext(ctx, "failed to upload invoice pdf",
			applog.FieldInvoiceID, id.String(),
			applog.FieldError, err.Error())
		return doc, nil
	}
	url, err := s.storage.GetPresignedURL(ctx, objectName, pdfURLExpiry)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to presign invoice pdf",
			applog.FieldInvoiceID, id.String(),
			applog.FieldError, err.Error())
		return doc, nil
	}
	doc.URL = url
	doc.ExpiresAt = s.now().UTC().Add(pdfURLExpiry)
	return doc, nil
}

// MarkOverdue flips Sent invoices past their due date to Overdue.
func (s *invoiceService) MarkOverdue(ctx context.Context, orgID uuid.UUID, asOf time.Time) (int64, error) {
	n, err := s.invoiceRepo.MarkOverdue(ctx, orgID, today(asOf))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.effects.Invalidate(ctx, orgID)
		s.logger.InfoContext(ctx, "marked invoices overdue",
			applog.FieldOrganizationID, orgID.String(),
			"count", n)
	}
	return n, nil
}
