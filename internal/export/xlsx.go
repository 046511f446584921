package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hanifgol/invoice-keeper/internal/invoice"
)

// XLSX renders the invoice as a spreadsheet: the same flattened layout as
// the CSV export plus a bold header row and a trailing total row.
func XLSX(inv *invoice.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	writeRow := func(row int, values []interface{}) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	header := make([]interface{}, len(csvHeaders))
	for i, h := range csvHeaders {
		header[i] = h
	}
	if err := writeRow(1, header); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "K1", bold); err != nil {
		return nil, fmt.Errorf("styling header row: %w", err)
	}

	row := 2
	for _, item := range inv.Items {
		values := []interface{}{
			inv.InvoiceNumber,
			inv.InvoiceDate,
			inv.ClientName,
			inv.ClientAddress,
			string(inv.Status),
			item.Date,
			item.Description,
			item.TimeIn,
			item.TimeOut,
			item.Amount,
			inv.TotalAmount,
		}
		if err := writeRow(row, values); err != nil {
			return nil, fmt.Errorf("writing item row: %w", err)
		}
		row++
	}
	if len(inv.Items) == 0 {
		values := []interface{}{
			inv.InvoiceNumber,
			inv.InvoiceDate,
			inv.ClientName,
			inv.ClientAddress,
			string(inv.Status),
			"", "", "", "",
			0.0,
			inv.TotalAmount,
		}
		if err := writeRow(row, values); err != nil {
			return nil, fmt.Errorf("writing empty item row: %w", err)
		}
		row++
	}

	if err := writeRow(row, []interface{}{"", "", "", "", "", "", "", "", "TOTAL", inv.TotalAmount}); err != nil {
		return nil, fmt.Errorf("writing total row: %w", err)
	}
	totalStart, _ := excelize.CoordinatesToCellName(9, row)
	totalEnd, _ := excelize.CoordinatesToCellName(10, row)
	if err := f.SetCellStyle(sheet, totalStart, totalEnd, bold); err != nil {
		return nil, fmt.Errorf("styling total row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}
