package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/hanifgol/invoice-keeper/internal/invoice"
)

// decodeEmbeddedImage decodes a base64 (optionally data-URI) image from the
// profile and reports its format for registration
func decodeEmbeddedImage(encoded string) ([]byte, string, error) {
	format := "PNG"
	if strings.HasPrefix(encoded, "data:") {
		header, rest, ok := strings.Cut(encoded, ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		if strings.Contains(header, "jpeg") || strings.Contains(header, "jpg") {
			format = "JPG"
		}
		encoded = rest
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return data, format, nil
}

// PDF renders the invoice as an A4 document: company header, bill-to and
// invoice meta blocks, the items table, totals, and the payment/terms
// footer with a signature line
func PDF(inv *invoice.Invoice, profile *invoice.Profile) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	currency := tr(profile.CurrencySymbol)

	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.AddPage()

	// Company header, with the logo when one is configured
	y := 12.0
	if profile.LogoBase64 != "" {
		if data, format, err := decodeEmbeddedImage(profile.LogoBase64); err == nil {
			pdf.RegisterImageOptionsReader("profile-logo", fpdf.ImageOptions{ImageType: format}, bytes.NewReader(data))
			pdf.ImageOptions("profile-logo", 10, y, 30, 0, false, fpdf.ImageOptions{ImageType: format}, 0, "")
			y += 18
		}
	}
	pdf.SetXY(10, y)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, tr(profile.CompanyName), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, tr(profile.CompanyAddress), "", 1, "L", false, 0, "")
	contact := profile.Email
	if profile.Phone != "" {
		contact += " | " + profile.Phone
	}
	pdf.CellFormat(0, 5, tr(contact), "", 1, "L", false, 0, "")
	if profile.Website != "" {
		pdf.CellFormat(0, 5, tr(profile.Website), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Bill-to on the left, invoice meta on the right
	top := pdf.GetY()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(110, 6, "BILL TO:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(110, 6, tr(inv.ClientName), "", 1, "L", false, 0, "")
	if inv.ClientAddress != "" {
		pdf.MultiCell(110, 5, tr(inv.ClientAddress), "", "L", false)
	}

	pdf.SetXY(120, top)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(180, 180, 180)
	pdf.CellFormat(80, 10, "INVOICE", "", 2, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	number := inv.InvoiceNumber
	if number == "" {
		number = "---"
	}
	pdf.SetX(120)
	pdf.CellFormat(80, 6, "No: "+tr(number), "", 2, "R", false, 0, "")
	pdf.SetX(120)
	pdf.CellFormat(80, 6, "Date: "+tr(inv.InvoiceDate), "", 2, "R", false, 0, "")
	if inv.Status == invoice.StatusPaid {
		pdf.SetTextColor(0, 128, 0)
	} else {
		pdf.SetTextColor(200, 0, 0)
	}
	pdf.SetX(120)
	pdf.CellFormat(80, 6, "Status: "+string(inv.Status), "", 2, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(10)

	// Items table
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(229, 231, 235)
	pdf.CellFormat(25, 7, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(90, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Time", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range inv.Items {
		times := ""
		if item.TimeIn != "" || item.TimeOut != "" {
			times = item.TimeIn + " - " + item.TimeOut
		}
		pdf.CellFormat(25, 7, tr(item.Date), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, tr(item.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, tr(times), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, currency+formatAmount(item.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "TOTAL: "+currency+formatAmount(inv.TotalAmount), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	if inv.ClosingMessage != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, tr(inv.ClosingMessage), "", "L", false)
		pdf.Ln(4)
	}

	// Payment details and terms on the left, signature on the right
	footerTop := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(110, 5, "Payment Details:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(110, 5, tr(profile.BankDetails), "", "L", false)
	if profile.TermsAndConditions != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(110, 5, "Terms:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(110, 5, tr(profile.TermsAndConditions), "", "L", false)
	}

	sigY := footerTop
	if profile.SignatureBase64 != "" {
		if data, format, err := decodeEmbeddedImage(profile.SignatureBase64); err == nil {
			pdf.RegisterImageOptionsReader("profile-signature", fpdf.ImageOptions{ImageType: format}, bytes.NewReader(data))
			pdf.ImageOptions("profile-signature", 155, sigY, 35, 0, false, fpdf.ImageOptions{ImageType: format}, 0, "")
			sigY += 16
		}
	}
	pdf.SetXY(120, sigY)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(80, 5, "Authorized Signature", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
