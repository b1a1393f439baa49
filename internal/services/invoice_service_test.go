package services

import (
	"context"
	"testing"
	"time"

	"bizledger/internal/common"
	"bizledger/internal/events"
	applog "bizledger/internal/log"
	"bizledger/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	invoiceRepo  *MockInvoiceRepository
	customerRepo *MockCustomerRepository
	itemRepo     *MockItemRepository
	orgRepo      *MockOrganizationRepository
	publisher    *MockPublisher
	service      *invoiceService
	orgID        uuid.UUID
	ctx          context.Context
	rice         *models.Item
	consulting   *models.Item
	customer     *models.Customer
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.invoiceRepo = &MockInvoiceRepository{}
	suite.customerRepo = &MockCustomerRepository{}
	suite.itemRepo = &MockItemRepository{}
	suite.orgRepo = &MockOrganizationRepository{}
	suite.publisher = &MockPublisher{}
	suite.orgID = uuid.New()
	suite.ctx = context.Background()

	effects := NewEffects(nil, suite.publisher, nil, applog.Discard())
	svc := NewInvoiceService(suite.invoiceRepo, suite.customerRepo, suite.itemRepo, suite.orgRepo, nil, effects, applog.Discard())
	suite.service = svc.(*invoiceService)
	suite.service.now = fixedClock("2025-11-03")

	suite.rice = &models.Item{
		ID:             uuid.New(),
		OrganizationID: suite.orgID,
		Name:           "Rice 25kg",
		ItemType:       models.ItemTypeProduct,
		UnitPrice:      decimal.NewFromInt(500),
		TaxRate:        decimal.NewFromInt(5),
		HSNSACCode:     stringPtr("1006"),
		StockQuantity:  intPtr(10),
	}
	suite.consulting = &models.Item{
		ID:             uuid.New(),
		OrganizationID: suite.orgID,
		Name:           "Consulting hour",
		ItemType:       models.ItemTypeService,
		UnitPrice:      decimal.NewFromInt(1000),
		TaxRate:        decimal.NewFromInt(18),
	}
	suite.customer = &models.Customer{ID: uuid.New(), OrganizationID: suite.orgID, Name: "Asha Traders"}
}

func (suite *InvoiceServiceTestSuite) TearDownTest() {
	suite.invoiceRepo.AssertExpectations(suite.T())
	suite.customerRepo.AssertExpectations(suite.T())
	suite.itemRepo.AssertExpectations(suite.T())
	suite.publisher.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (suite *InvoiceServiceTestSuite) catalogue() map[uuid.UUID]*models.Item {
	return map[uuid.UUID]*models.Item{suite.rice.ID: suite.rice, suite.consulting.ID: suite.consulting}
}

func (suite *InvoiceServiceTestSuite) TestCreate_PricesFromCatalogueAndDecrementsStock() {
	suite.customerRepo.On("GetByID", suite.ctx, suite.orgID, suite.customer.ID).Return(suite.customer, nil)
	suite.itemRepo.On("GetByIDs", suite.ctx, suite.orgID, []uuid.UUID{suite.rice.ID, suite.consulting.ID, suite.rice.ID}).
		Return(suite.catalogue(), nil)
	suite.invoiceRepo.On("CreateWithStock", suite.ctx, mock.AnythingOfType("*models.Invoice"), map[uuid.UUID]int{suite.rice.ID: 3}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Invoice).InvoiceNumber = "INV-202511-0001"
		}).Return(nil)
	suite.publisher.On("Publish", suite.ctx, events.InvoiceCreated, suite.orgID, mock.Anything).Return(nil)

	invoice, err := suite.service.Create(suite.ctx, suite.orgID, CreateInvoiceInput{
		CustomerID: suite.customer.ID,
		LineItems: []LineItemInput{
			{ItemID: suite.rice.ID, Quantity: 2},
			{ItemID: suite.consulting.ID, Quantity: 1},
			{ItemID: suite.rice.ID, Quantity: 1},
		},
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), "INV-202511-0001", invoice.InvoiceNumber)
	assert.Equal(suite.T(), models.InvoiceSent, invoice.Status)
	assert.Equal(suite.T(), models.TreatmentB2C, invoice.GSTTreatment)
	assert.Equal(suite.T(), date("2025-11-03"), invoice.IssueDate)
	assert.Len(suite.T(), invoice.LineItems, 3)
	// 1500 of rice at 5% plus 1000 of consulting at 18%
	assert.True(suite.T(), invoice.Subtotal.Equal(decimal.NewFromInt(2500)), invoice.Subtotal.String())
	assert.True(suite.T(), invoice.TaxAmount.Equal(decimal.NewFromInt(255)), invoice.TaxAmount.String())
	assert.True(suite.T(), invoice.GrandTotal.Equal(decimal.NewFromInt(2755)))
	assert.True(suite.T(), invoice.BalanceDue.Equal(invoice.GrandTotal))
}

func (suite *InvoiceServiceTestSuite) TestCreate_DefaultsToB2BForRegisteredCustomer() {
	suite.customer.GSTIN = stringPtr("27AAPFU0939F1ZV")
	suite.customerRepo.On("GetByID", suite.ctx, suite.orgID, suite.customer.ID).Return(suite.customer, nil)
	suite.itemRepo.On("GetByIDs", suite.ctx, suite.orgID, []uuid.UUID{suite.consulting.ID}).Return(suite.catalogue(), nil)
	suite.invoiceRepo.On("CreateWithStock", suite.ctx, mock.AnythingOfType("*models.Invoice"), map[uuid.UUID]int{}).Return(nil)
	suite.publisher.On("Publish", suite.ctx, events.InvoiceCreated, suite.orgID, mock.Anything).Return(nil)

	invoice, err := suite.service.Create(suite.ctx, suite.orgID, CreateInvoiceInput{
		CustomerID: suite.customer.ID,
		LineItems:  []LineItemInput{{ItemID: suite.consulting.ID, Quantity: 1}},
		Status:     models.InvoiceDraft,
	})

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.TreatmentB2B, invoice.GSTTreatment)
	assert.Equal(suite.T(), "27AAPFU0939F1ZV", *invoice.CustomerGSTIN)
	assert.Equal(suite.T(), models.InvoiceDraft, invoice.Status)
}

func (suite *InvoiceServiceTestSuite) TestCreate_InsufficientStock() {
	suite.customerRepo.On("GetByID", suite.ctx, suite.orgID, suite.customer.ID).Return(suite.customer, nil)
	suite.itemRepo.On("GetByIDs", suite.ctx, suite.orgID, []uuid.UUID{suite.rice.ID}).Return(suite.catalogue(), nil)

	_, err := suite.service.Create(suite.ctx, suite.orgID, CreateInvoiceInput{
		CustomerID: suite.customer.ID,
		LineItems:  []LineItemInput{{ItemID: suite.rice.ID, Quantity: 11}},
	})

	assert.ErrorIs(suite.T(), err, common.ErrValidation)
	assert.EqualError(suite.T(), err, "insufficient stock for Rice 25kg")
	suite.invoiceRepo.AssertNotCalled(suite.T(), "CreateWithStock", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreate_UnknownItem() {
	missing := uuid.New()
	suite.customerRepo.On("GetByID", suite.ctx, suite.orgID, suite.customer.ID).Return(suite.customer, nil)
	suite.itemRepo.On("GetByIDs", suite.ctx, suite.orgID, []uuid.UUID{missing}).Return(map[uuid.UUID]*models.Item{}, nil)

	_, err := suite.service.Create(suite.ctx, suite.orgID, CreateInvoiceInput{
		CustomerID: suite.customer.ID,
		LineItems:  []LineItemInput{{ItemID: missing, Quantity: 1}},
	})

	assert.ErrorIs(suite.T(), err, common.ErrValidation)
	assert.Contains(suite.T(), err.Error(), missing.String())
}

func (suite *InvoiceServiceTestSuite) TestCreate_UnknownCustomer() {
	suite.customerRepo.On("GetByID", suite.ctx, suite.orgID, suite.customer.ID).Return(nil, common.NotFound("customer"))

	_, err := suite.service.Create(suite.ctx, suite.orgID, CreateInvoiceInput{
		CustomerID: suite.customer.ID,
		LineItems:  []LineItemInput{{ItemID: suite.rice.ID, Quantity: 1}},
	})

	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestCreate_DueDateBeforeIssueDate() {
	suite.customerRepo.On("GetByID", suite.ctx, suite.orgID, suite.customer.ID).Return(suite.customer, nil)

	_, err := suite.service.Create(suite.ctx, suite.orgID, CreateInvoiceInput{
		CustomerID: suite.customer.ID,
		LineItems:  []LineItemInput{{ItemID: suite.rice.ID, Quantity: 1}},
		IssueDate:  "2025-11-10",
		DueDate:    "2025-11-01",
	})

	assert.EqualError(suite.T(), err, "due_date cannot be before issue_date")
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_RejectsPaid() {
	_, err := suite.service.UpdateStatus(suite.ctx, suite.orgID, uuid.New(), models.InvoicePaid)

	assert.ErrorIs(suite.T(), err, common.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_Cancel() {
	invoice := sampleServiceInvoice(suite.orgID)
	cancelled := *invoice
	cancelled.Status = models.InvoiceCancelled
	suite.invoiceRepo.On("GetByID", suite.ctx, suite.orgID, invoice.ID).Return(invoice, nil)
	suite.invoiceRepo.On("UpdateStatus", suite.ctx, suite.orgID, invoice.ID, models.InvoiceCancelled).Return(&cancelled, nil)
	suite.publisher.On("Publish", suite.ctx, events.InvoiceStatusChanged, suite.orgID, mock.Anything).Return(nil)

	updated, err := suite.service.UpdateStatus(suite.ctx, suite.orgID, invoice.ID, models.InvoiceCancelled)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.InvoiceCancelled, updated.Status)
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_PartiallyPaidCannotBeCancelled() {
	invoice := sampleServiceInvoice(suite.orgID)
	invoice.AmountPaid = decimal.NewFromInt(100)
	suite.invoiceRepo.On("GetByID", suite.ctx, suite.orgID, invoice.ID).Return(invoice, nil)

	_, err := suite.service.UpdateStatus(suite.ctx, suite.orgID, invoice.ID, models.InvoiceCancelled)

	assert.ErrorIs(suite.T(), err, common.ErrConflict)
}

func (suite *InvoiceServiceTestSuite) TestUpdateStatus_PaidInvoiceIsFinal() {
	invoice := sampleServiceInvoice(suite.orgID)
	invoice.Status = models.InvoicePaid
	suite.invoiceRepo.On("GetByID", suite.ctx, suite.orgID, invoice.ID).Return(invoice, nil)

	_, err := suite.service.UpdateStatus(suite.ctx, suite.orgID, invoice.ID, models.InvoiceSent)

	assert.EqualError(suite.T(), err, "cannot change the status of a Paid invoice")
}

func (suite *InvoiceServiceTestSuite) TestList_RejectsUnknownStatus() {
	_, err := suite.service.List(suite.ctx, suite.orgID, "Archived", nil, 1, 20)

	assert.ErrorIs(suite.T(), err, common.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestList_Pages() {
	invoices := []*models.Invoice{sampleServiceInvoice(suite.orgID)}
	suite.invoiceRepo.On("List", suite.ctx, suite.orgID, models.InvoiceFilter{Status: models.InvoiceSent, Limit: 10, Offset: 10}).
		Return(invoices, 11, nil)

	page, err := suite.service.List(suite.ctx, suite.orgID, models.InvoiceSent, nil, 2, 10)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 11, page.Total)
	assert.Equal(suite.T(), 2, page.Page)
	assert.Equal(suite.T(), invoices, page.Data)
}

func (suite *InvoiceServiceTestSuite) TestMarkOverdue_UsesStartOfDay() {
	suite.invoiceRepo.On("MarkOverdue", suite.ctx, suite.orgID, date("2025-11-03")).Return(int64(2), nil)

	n, err := suite.service.MarkOverdue(suite.ctx, suite.orgID, date("2025-11-03").Add(15*time.Hour))

	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), n)
}
