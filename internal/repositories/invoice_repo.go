package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"bizledger/internal/common"
	"bizledger/internal/models"
)

type InvoiceRepository interface {
	// CreateWithStock assigns the invoice number, decrements product stock
	// and inserts the invoice in a single transaction.
	CreateWithStock(ctx context.Context, invoice *models.Invoice, stock map[uuid.UUID]int) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, orgID uuid.UUID, filter models.InvoiceFilter) ([]*models.Invoice, int, error)
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Invoice, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	ListForPeriod(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]models.InvoiceListItem, error)
	MarkOverdue(ctx context.Context, orgID uuid.UUID, asOf time.Time) (int64, error)
}

type invoiceRepo struct {
	db DBTX
}

func NewInvoiceRepo(db DBTX) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, organization_id, customer_id, invoice_number, customer_name, customer_gstin, line_items,
	issue_date, due_date, status, gst_treatment, subtotal, tax_amount, grand_total, amount_paid, balance_due,
	notes, created_at, updated_at`

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	inv := &models.Invoice{}
	var lineItems []byte
	err := row.Scan(&inv.ID, &inv.OrganizationID, &inv.CustomerID, &inv.InvoiceNumber, &inv.CustomerName,
		&inv.CustomerGSTIN, &lineItems, &inv.IssueDate, &inv.DueDate, &inv.Status, &inv.GSTTreatment,
		&inv.Subtotal, &inv.TaxAmount, &inv.GrandTotal, &inv.AmountPaid, &inv.BalanceDue,
		&inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.LineItems = []models.LineItem{}
	if len(lineItems) > 0 {
		if err := json.Unmarshal(lineItems, &inv.LineItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal line_items: %w", err)
		}
	}
	return inv, nil
}

// FormatInvoiceNumber renders INV-YYYYMM-NNNN.
func FormatInvoiceNumber(issueDate time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%04d", issueDate.Format("200601"), seq)
}

func (r *invoiceRepo) CreateWithStock(ctx context.Context, inv *models.Invoice, stock map[uuid.UUID]int) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	now := time.Now().UTC()
	inv.CreatedAt, inv.UpdatedAt = now, now

	lineItems, err := json.Marshal(inv.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line_items: %w", err)
	}

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, itemID := range sortedItemIDs(stock) {
			ok, err := decrementStock(ctx, tx, inv.OrganizationID, itemID, stock[itemID])
			if err != nil {
				return err
			}
			if !ok {
				return common.Validationf("insufficient stock for item %s", itemID)
			}
		}

		seq, err := nextSequence(ctx, tx, inv.OrganizationID, "invoice", inv.IssueDate.Format("200601"))
		if err != nil {
			return err
		}
		inv.InvoiceNumber = FormatInvoiceNumber(inv.IssueDate, seq)

		query := `
			INSERT INTO invoices (id, organization_id, customer_id, invoice_number, customer_name, customer_gstin, line_items,
				issue_date, due_date, status, gst_treatment, subtotal, tax_amount, grand_total, amount_paid, balance_due,
				notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
		_, err = tx.Exec(ctx, query, inv.ID, inv.OrganizationID, inv.CustomerID, inv.InvoiceNumber, inv.CustomerName,
			inv.CustomerGSTIN, lineItems, inv.IssueDate, inv.DueDate, inv.Status, inv.GSTTreatment,
			inv.Subtotal, inv.TaxAmount, inv.GrandTotal, inv.AmountPaid, inv.BalanceDue,
			inv.Notes, inv.CreatedAt, inv.UpdatedAt)
		return mapError(err, "invoice")
	})
}

// sortedItemIDs orders stock rows so concurrent checkouts lock them in the
// same order.
func sortedItemIDs(stock map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(stock))
	for id := range stock {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

func (r *invoiceRepo) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE organization_id = $1 AND id = $2`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, mapError(err, "invoice")
	}
	return inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, orgID uuid.UUID, filter models.InvoiceFilter) ([]*models.Invoice, int, error) {
	where := ` WHERE organization_id = $1`
	args := []interface{}{orgID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		where += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		fmt.Sprintf(" ORDER BY issue_date DESC, invoice_number DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invoices := []*models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string) (*models.Invoice, error) {
	query := `
		UPDATE invoices SET status = $3, updated_at = NOW()
		WHERE organization_id = $1 AND id = $2
		RETURNING ` + invoiceColumns
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, orgID, id, status))
	if err != nil {
		return nil, mapError(err, "invoice")
	}
	return inv, nil
}

// Delete removes a draft invoice. Issued invoices are kept for the tax record.
func (r *invoiceRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE organization_id = $1 AND id = $2 AND status = $3`,
		orgID, id, models.InvoiceDraft)
	if err != nil {
		return mapError(err, "invoice")
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, orgID, id); err != nil {
			return err
		}
		return common.Validationf("only draft invoices can be deleted")
	}
	return nil
}

// ListForPeriod returns the GST projection of invoices issued in [start, end].
func (r *invoiceRepo) ListForPeriod(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]models.InvoiceListItem, error) {
	query := `
		SELECT id, invoice_number, issue_date, customer_name, customer_gstin, gst_treatment, status,
			subtotal, tax_amount, grand_total
		FROM invoices
		WHERE organization_id = $1 AND issue_date BETWEEN $2 AND $3
		ORDER BY issue_date ASC, invoice_number ASC`
	rows, err := r.db.Query(ctx, query, orgID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.InvoiceListItem
	for rows.Next() {
		var it models.InvoiceListItem
		if err := rows.Scan(&it.ID, &it.InvoiceNumber, &it.IssueDate, &it.CustomerName, &it.CustomerGSTIN,
			&it.GSTTreatment, &it.Status, &it.Subtotal, &it.TaxAmount, &it.GrandTotal); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// MarkOverdue flips sent invoices past their due date with an open balance.
func (r *invoiceRepo) MarkOverdue(ctx context.Context, orgID uuid.UUID, asOf time.Time) (int64, error) {
	query := `
		UPDATE invoices SET status = $2, updated_at = NOW()
		WHERE organization_id = $1 AND status = $3 AND due_date < $4 AND balance_due > 0`
	tag, err := r.db.Exec(ctx, query, orgID, models.InvoiceOverdue, models.InvoiceSent, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
