package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"bizledger/internal/analytics"
	"bizledger/internal/common"
	"bizledger/internal/models"
)

// RenderInvoicePDF lays out a tax invoice on a single A4 page, spilling onto
// further pages for long item lists.
func RenderInvoicePDF(org *models.Organization, invoice *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	// Seller header
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	sellerName := "TAX INVOICE"
	if org != nil && org.Name != "" {
		sellerName = org.Name
	}
	pdf.Cell(0, 10, sellerName)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	if org != nil {
		if org.Address != nil && *org.Address != "" {
			pdf.MultiCell(0, 5, *org.Address, "", "L", false)
		}
		if org.GSTIN != nil && *org.GSTIN != "" {
			pdf.Cell(0, 6, fmt.Sprintf("GSTIN: %s", *org.GSTIN))
			pdf.Ln(6)
		}
	}
	pdf.Ln(4)

	// Invoice details
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.InvoiceNumber))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice Date: %s", invoice.IssueDate.Format("02-Jan-2006")))
	pdf.Ln(6)
	if invoice.DueDate != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Due Date: %s", invoice.DueDate.Format("02-Jan-2006")))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Supply Type: %s", analytics.SectionLabel(analytics.NormalizeTreatment(invoice.GSTTreatment))))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", invoice.Status))
	pdf.Ln(10)

	// Bill to
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, invoice.CustomerName)
	pdf.Ln(6)
	if gstin := common.SafeString(invoice.CustomerGSTIN); gstin != "" {
		pdf.Cell(0, 6, fmt.Sprintf("GSTIN: %s", gstin))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	// Items table
	headers := []string{"Description", "HSN/SAC", "Qty", "Rate", "Tax %", "Amount"}
	colWidths := []float64{56, 22, 14, 26, 16, 36}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	for _, line := range invoice.LineItems {
		pdf.CellFormat(colWidths[0], 8, line.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, line.HSNSACCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, line.TaxRate.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[5], 8, line.Subtotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(5)

	// Totals
	totals := []struct {
		label string
		value string
	}{
		{"Subtotal:", invoice.Subtotal.StringFixed(2)},
		{"Tax:", invoice.TaxAmount.StringFixed(2)},
		{"Grand Total:", invoice.GrandTotal.StringFixed(2)},
		{"Amount Paid:", invoice.AmountPaid.StringFixed(2)},
		{"Balance Due:", invoice.BalanceDue.StringFixed(2)},
	}
	pdf.SetFont("Arial", "B", 10)
	for _, t := range totals {
		pdf.CellFormat(130, 6, t.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, t.value, "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	if notes := common.SafeString(invoice.Notes); notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Notes:")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, notes, "", "L", false)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, "This is a computer generated invoice.")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
