package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bizledger/internal/common"
	"bizledger/internal/models"
)

type PaymentRepository interface {
	// Record inserts the payment and applies it to its invoice atomically,
	// returning the updated invoice.
	Record(ctx context.Context, payment *models.Payment) (*models.Invoice, error)
	List(ctx context.Context, orgID uuid.UUID, filter models.PaymentFilter) ([]*models.Payment, int, error)
	ListLinksForPeriod(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]models.PaymentLink, error)
}

type paymentRepo struct {
	db DBTX
}

func NewPaymentRepo(db DBTX) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, organization_id, invoice_id, customer_id, amount_received, payment_mode, payment_date, reference, created_at`

func (r *paymentRepo) Record(ctx context.Context, p *models.Payment) (*models.Invoice, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()

	var updated *models.Invoice
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var (
			customerID uuid.UUID
			status     string
			amountPaid decimal.Decimal
			balanceDue decimal.Decimal
		)
		err := tx.QueryRow(ctx, `
			SELECT customer_id, status, amount_paid, balance_due
			FROM invoices
			WHERE organization_id = $1 AND id = $2
			FOR UPDATE`, p.OrganizationID, p.InvoiceID).Scan(&customerID, &status, &amountPaid, &balanceDue)
		if err != nil {
			return mapError(err, "invoice")
		}

		switch {
		case status == models.InvoiceCancelled:
			return common.Validationf("cannot record a payment against a cancelled invoice")
		case !balanceDue.IsPositive():
			return common.Validationf("invoice is already fully paid")
		case p.AmountReceived.GreaterThan(balanceDue):
			return common.Validationf("amount_received %s exceeds balance due %s", p.AmountReceived.StringFixed(2), balanceDue.StringFixed(2))
		}
		p.CustomerID = customerID

		_, err = tx.Exec(ctx, `
			INSERT INTO payments (`+paymentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.OrganizationID, p.InvoiceID, p.CustomerID, p.AmountReceived, p.PaymentMode, p.PaymentDate, p.Reference, p.CreatedAt)
		if err != nil {
			return mapError(err, "payment")
		}

		newPaid := amountPaid.Add(p.AmountReceived)
		newBalance := balanceDue.Sub(p.AmountReceived)
		newStatus := status
		if newBalance.IsZero() {
			newStatus = models.InvoicePaid
		} else if status == models.InvoiceDraft {
			newStatus = models.InvoiceSent
		}

		updated, err = scanInvoice(tx.QueryRow(ctx, `
			UPDATE invoices
			SET amount_paid = $3, balance_due = $4, status = $5, updated_at = NOW()
			WHERE organization_id = $1 AND id = $2
			RETURNING `+invoiceColumns, p.OrganizationID, p.InvoiceID, newPaid, newBalance, newStatus))
		return mapError(err, "invoice")
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *paymentRepo) List(ctx context.Context, orgID uuid.UUID, filter models.PaymentFilter) ([]*models.Payment, int, error) {
	where := ` WHERE organization_id = $1`
	args := []interface{}{orgID}
	if filter.InvoiceID != nil {
		args = append(args, *filter.InvoiceID)
		where += fmt.Sprintf(" AND invoice_id = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + paymentColumns + ` FROM payments` + where +
		fmt.Sprintf(" ORDER BY payment_date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.InvoiceID, &p.CustomerID, &p.AmountReceived,
			&p.PaymentMode, &p.PaymentDate, &p.Reference, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}

// ListLinksForPeriod returns payments made against invoices issued in [start, end].
func (r *paymentRepo) ListLinksForPeriod(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]models.PaymentLink, error) {
	query := `
		SELECT p.invoice_id, p.amount_received
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id AND i.organization_id = p.organization_id
		WHERE p.organization_id = $1 AND i.issue_date BETWEEN $2 AND $3`
	rows, err := r.db.Query(ctx, query, orgID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.PaymentLink
	for rows.Next() {
		var l models.PaymentLink
		if err := rows.Scan(&l.InvoiceID, &l.Amount); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
