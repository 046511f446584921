// Package export renders invoices into downloadable artifacts. Each
// adapter takes an invoice (and, for document-style exports, the company
// profile) and returns the encoded bytes; nothing here touches stored
// state.
package export

import (
	"regexp"
	"strconv"

	"github.com/hanifgol/invoice-keeper/internal/invoice"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename derives a download filename from the sanitized client name and
// the invoice number (falling back to the invoice date, then "Draft")
func Filename(inv *invoice.Invoice, ext string) string {
	client := inv.ClientName
	if client == "" {
		client = "Client"
	}
	client = unsafeChars.ReplaceAllString(client, "_")

	suffix := inv.InvoiceNumber
	if suffix == "" {
		suffix = inv.InvoiceDate
	}
	if suffix == "" {
		suffix = "Draft"
	}
	suffix = unsafeChars.ReplaceAllString(suffix, "_")

	return "Invoice_" + client + "_" + suffix + "." + ext
}

// formatAmount renders a monetary value with two decimal places. Rounding
// happens only here, never in stored data.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
