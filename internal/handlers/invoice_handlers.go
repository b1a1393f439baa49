package handlers

import (
	"fmt"
	"net/http"

	"bizledger/internal/common"
	"bizledger/internal/services"

	"github.com/labstack/echo/v4"
)

// InvoiceHandlers serves invoices, their payments and the one-step checkout.
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
	paymentService services.PaymentService
	billingService services.BillingService
}

func NewInvoiceHandlers(invoiceService services.InvoiceService, paymentService services.PaymentService, billingService services.BillingService) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		paymentService: paymentService,
		billingService: billingService,
	}
}

func (h *InvoiceHandlers) Register(g *echo.Group) {
	g.GET("/invoices", h.ListInvoices)
	g.POST("/invoices", h.CreateInvoice)
	g.GET("/invoices/:id", h.GetInvoice)
	g.PATCH("/invoices/:id/status", h.UpdateInvoiceStatus)
	g.DELETE("/invoices/:id", h.DeleteInvoice)
	g.GET("/invoices/:id/pdf", h.DownloadInvoicePDF)

	g.GET("/payments", h.ListPayments)
	g.POST("/payments", h.RecordPayment)

	g.POST("/billing/checkout", h.Checkout)
}

// ListInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Param status query string false "Draft, Sent, Paid, Overdue or Cancelled"
// @Param customer_id query string false "Customer"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} common.Response
// @Router /invoices [get]
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	customerID, err := optionalUUID(c, "customer_id")
	if err != nil {
		return common.SendServiceError(c, err)
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return common.SendServiceError(c, err)
	}

	result, err := h.invoiceService.List(c.Request().Context(), orgID, c.QueryParam("status"), customerID, page, limit)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, result, "Invoices retrieved successfully")
}

// CreateInvoice godoc
// @Summary Issue an invoice
// @Tags invoices
// @Param invoice body services.CreateInvoiceInput true "Invoice"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /invoices [post]
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	var input services.CreateInvoiceInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	invoice, err := h.invoiceService.Create(c.Request().Context(), orgID, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, invoice, "Invoice created successfully")
}

func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	invoice, err := h.invoiceService.GetByID(c.Request().Context(), orgID, id)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, invoice, "Invoice retrieved successfully")
}

func (h *InvoiceHandlers) UpdateInvoiceStatus(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}
	var input services.InvoiceStatusInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request().Context(), orgID, id, input.Status)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, invoice, "Invoice status updated successfully")
}

func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	if err := h.invoiceService.Delete(c.Request().Context(), orgID, id); err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, nil, "Invoice deleted successfully")
}

// DownloadInvoicePDF returns a presigned link to the stored PDF, or the PDF
// itself when object storage is not configured.
func (h *InvoiceHandlers) DownloadInvoicePDF(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return common.SendServiceError(c, err)
	}

	doc, err := h.invoiceService.RenderPDF(c.Request().Context(), orgID, id)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	if doc.URL != "" {
		return common.SendSuccess(c, http.StatusOK, doc, "Invoice PDF generated successfully")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	return c.Blob(http.StatusOK, "application/pdf", doc.Content)
}

func (h *InvoiceHandlers) ListPayments(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	invoiceID, err := optionalUUID(c, "invoice_id")
	if err != nil {
		return common.SendServiceError(c, err)
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return common.SendServiceError(c, err)
	}

	result, err := h.paymentService.List(c.Request().Context(), orgID, invoiceID, page, limit)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusOK, result, "Payments retrieved successfully")
}

// RecordPayment godoc
// @Summary Record a payment against an invoice
// @Tags payments
// @Param payment body services.RecordPaymentInput true "Payment"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 409 {object} common.Response
// @Router /payments [post]
func (h *InvoiceHandlers) RecordPayment(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	var input services.RecordPaymentInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	result, err := h.paymentService.Record(c.Request().Context(), orgID, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, result, "Payment recorded successfully")
}

// Checkout godoc
// @Summary Issue an invoice and optionally settle it in one request
// @Tags billing
// @Param checkout body services.CheckoutInput true "Checkout"
// @Success 201 {object} common.Response
// @Router /billing/checkout [post]
func (h *InvoiceHandlers) Checkout(c echo.Context) error {
	orgID, err := organizationID(c)
	if err != nil {
		return err
	}
	var input services.CheckoutInput
	if err := bindAndValidate(c, &input); err != nil {
		return common.SendServiceError(c, err)
	}

	result, err := h.billingService.Checkout(c.Request().Context(), orgID, input)
	if err != nil {
		return common.SendServiceError(c, err)
	}
	return common.SendSuccess(c, http.StatusCreated, result, "Checkout completed successfully")
}
