package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/hanifgol/invoice-keeper/internal/invoice"
)

var csvHeaders = []string{
	"Invoice Number",
	"Invoice Date",
	"Client Name",
	"Client Address",
	"Status",
	"Trip Date",
	"Description",
	"Time In",
	"Time Out",
	"Amount",
	"Total Invoice Amount",
}

// CSV flattens the invoice to one row per line item, repeating the
// invoice-level fields on every row so the file imports cleanly into
// spreadsheets. An invoice with no items still produces one data row with
// the item fields empty and the amount as "0.00".
func CSV(inv *invoice.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	rows := make([][]string, 0, len(inv.Items))
	for _, item := range inv.Items {
		rows = append(rows, []string{
			inv.InvoiceNumber,
			inv.InvoiceDate,
			inv.ClientName,
			inv.ClientAddress,
			string(inv.Status),
			item.Date,
			item.Description,
			item.TimeIn,
			item.TimeOut,
			formatAmount(item.Amount),
			formatAmount(inv.TotalAmount),
		})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{
			inv.InvoiceNumber,
			inv.InvoiceDate,
			inv.ClientName,
			inv.ClientAddress,
			string(inv.Status),
			"", "", "", "",
			"0.00",
			formatAmount(inv.TotalAmount),
		})
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
