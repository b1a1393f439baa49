package handlers

import (
	"context"
	"time"

	"bizledger/internal/common"
	"bizledger/internal/models"
	"bizledger/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockCustomerService struct{ mock.Mock }

func (m *mockCustomerService) Create(ctx context.Context, orgID uuid.UUID, input services.CustomerInput) (*models.Customer, error) {
	args := m.Called(ctx, orgID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *mockCustomerService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *mockCustomerService) List(ctx context.Context, orgID uuid.UUID, search string, page, limit int) (*common.PagedData, error) {
	args := m.Called(ctx, orgID, search, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*common.PagedData), args.Error(1)
}

func (m *mockCustomerService) Update(ctx context.Context, orgID, id uuid.UUID, input services.CustomerInput) (*models.Customer, error) {
	args := m.Called(ctx, orgID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *mockCustomerService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

type mockInvoiceService struct{ mock.Mock }

func (m *mockInvoiceService) Create(ctx context.Context, orgID uuid.UUID, input services.CreateInvoiceInput) (*models.Invoice, error) {
	args := m.Called(ctx, orgID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *mockInvoiceService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *mockInvoiceService) List(ctx context.Context, orgID uuid.UUID, status string, customerID *uuid.UUID, page, limit int) (*common.PagedData, error) {
	args := m.Called(ctx, orgID, status, customerID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*common.PagedData), args.Error(1)
}

func (m *mockInvoiceService) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Invoice, error) {
	args := m.Called(ctx, orgID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *mockInvoiceService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *mockInvoiceService) RenderPDF(ctx context.Context, orgID, id uuid.UUID) (*services.InvoiceDocument, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InvoiceDocument), args.Error(1)
}

func (m *mockInvoiceService) MarkOverdue(ctx context.Context, orgID uuid.UUID, asOf time.Time) (int64, error) {
	args := m.Called(ctx, orgID, asOf)
	return args.Get(0).(int64), args.Error(1)
}

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) Record(ctx context.Context, orgID uuid.UUID, input services.RecordPaymentInput) (*services.PaymentResult, error) {
	args := m.Called(ctx, orgID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PaymentResult), args.Error(1)
}

func (m *mockPaymentService) List(ctx context.Context, orgID uuid.UUID, invoiceID *uuid.UUID, page, limit int) (*common.PagedData, error) {
	args := m.Called(ctx, orgID, invoiceID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*common.PagedData), args.Error(1)
}

type mockBillingService struct{ mock.Mock }

func (m *mockBillingService) Checkout(ctx context.Context, orgID uuid.UUID, input services.CheckoutInput) (*services.CheckoutResult, error) {
	args := m.Called(ctx, orgID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CheckoutResult), args.Error(1)
}

type mockGstService struct{ mock.Mock }

func (m *mockGstService) List(ctx context.Context, orgID uuid.UUID, page, limit int) (*common.PagedData, error) {
	args := m.Called(ctx, orgID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*common.PagedData), args.Error(1)
}

func (m *mockGstService) Generate(ctx context.Context, orgID uuid.UUID, input services.GenerateGstInput) (*models.GstReturn, error) {
	args := m.Called(ctx, orgID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GstReturn), args.Error(1)
}

func (m *mockGstService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.GstReturn, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GstReturn), args.Error(1)
}

func (m *mockGstService) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, input services.GstStatusInput) (*models.GstReturn, error) {
	args := m.Called(ctx, orgID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GstReturn), args.Error(1)
}

func (m *mockGstService) DraftPreview(ctx context.Context, orgID uuid.UUID, period string) (*models.GstDraft, error) {
	args := m.Called(ctx, orgID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GstDraft), args.Error(1)
}

func (m *mockGstService) SearchTransactions(ctx context.Context, orgID uuid.UUID, period string, filter models.TransactionFilter) ([]models.InvoicePreview, error) {
	args := m.Called(ctx, orgID, period, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InvoicePreview), args.Error(1)
}

func (m *mockGstService) WarmDraft(ctx context.Context, orgID uuid.UUID, period string) error {
	return m.Called(ctx, orgID, period).Error(0)
}

type mockAttendanceService struct{ mock.Mock }

func (m *mockAttendanceService) Save(ctx context.Context, orgID uuid.UUID, input services.SaveAttendanceInput) (*models.AttendanceSaveResult, error) {
	args := m.Called(ctx, orgID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttendanceSaveResult), args.Error(1)
}

func (m *mockAttendanceService) List(ctx context.Context, orgID uuid.UUID, date, employeeID string) ([]models.AttendanceRecord, error) {
	args := m.Called(ctx, orgID, date, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttendanceRecord), args.Error(1)
}

func (m *mockAttendanceService) Update(ctx context.Context, orgID, id uuid.UUID, patch services.AttendancePatch) (*models.AttendanceRecord, error) {
	args := m.Called(ctx, orgID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttendanceRecord), args.Error(1)
}

func (m *mockAttendanceService) EmployeeSummary(ctx context.Context, orgID uuid.UUID, month, startDate, endDate string) (*models.EmployeeSummaryReport, error) {
	args := m.Called(ctx, orgID, month, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmployeeSummaryReport), args.Error(1)
}

func (m *mockAttendanceService) MonthlySummary(ctx context.Context, orgID uuid.UUID, year, employeeID string) (*models.MonthlySummaryReport, error) {
	args := m.Called(ctx, orgID, year, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MonthlySummaryReport), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
