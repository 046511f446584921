package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/hanifgol/invoice-keeper/internal/invoice"
)

// The corpus has no from-scratch DOCX writer and the maintained ecosystem
// option is commercially licensed, so the adapter emits the minimal
// WordprocessingML package directly: content types, the package
// relationship, and one document part.

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

type docxWriter struct {
	body strings.Builder
}

// para writes one paragraph; bold and size/color apply to the whole run
func (d *docxWriter) para(text string, bold bool, halfPoints int, color, align string) {
	d.body.WriteString("<w:p>")
	if align != "" {
		fmt.Fprintf(&d.body, `<w:pPr><w:jc w:val="%s"/></w:pPr>`, align)
	}
	// Multi-line values (bank details, terms) become soft line breaks
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			d.body.WriteString("<w:r><w:br/></w:r>")
		}
		d.body.WriteString("<w:r><w:rPr>")
		if bold {
			d.body.WriteString("<w:b/>")
		}
		if halfPoints > 0 {
			fmt.Fprintf(&d.body, `<w:sz w:val="%d"/>`, halfPoints)
		}
		if color != "" {
			fmt.Fprintf(&d.body, `<w:color w:val="%s"/>`, color)
		}
		fmt.Fprintf(&d.body, `</w:rPr><w:t xml:space="preserve">%s</w:t></w:r>`, xmlEscaper.Replace(line))
	}
	d.body.WriteString("</w:p>")
}

// cell writes one table cell containing a single paragraph
func (d *docxWriter) cell(text string, bold bool, shaded bool, align string) {
	d.body.WriteString("<w:tc><w:tcPr>")
	if shaded {
		d.body.WriteString(`<w:shd w:val="clear" w:fill="E5E7EB"/>`)
	}
	d.body.WriteString("</w:tcPr>")
	d.para(text, bold, 0, "", align)
	d.body.WriteString("</w:tc>")
}

// DOCX renders the invoice as a Word document mirroring the PDF layout
func DOCX(inv *invoice.Invoice, profile *invoice.Profile) ([]byte, error) {
	currency := profile.CurrencySymbol
	var d docxWriter

	// Company header
	d.para(profile.CompanyName, true, 32, "", "")
	d.para(profile.CompanyAddress, false, 20, "", "")
	contact := profile.Email
	if profile.Phone != "" {
		contact += " | " + profile.Phone
	}
	d.para(contact, false, 20, "", "")
	if profile.Website != "" {
		d.para(profile.Website, false, 20, "", "")
	}
	d.para("", false, 0, "", "")

	// Bill-to and invoice meta
	d.para("BILL TO:", true, 24, "", "")
	d.para(inv.ClientName, false, 24, "", "")
	if inv.ClientAddress != "" {
		d.para(inv.ClientAddress, false, 20, "", "")
	}
	number := inv.InvoiceNumber
	if number == "" {
		number = "---"
	}
	d.para("INVOICE", true, 48, "CCCCCC", "right")
	d.para("No: "+number, true, 0, "", "right")
	d.para("Date: "+inv.InvoiceDate, true, 0, "", "right")
	statusColor := "FF0000"
	if inv.Status == invoice.StatusPaid {
		statusColor = "008000"
	}
	d.para("Status: "+string(inv.Status), true, 0, statusColor, "right")
	d.para("", false, 0, "", "")

	// Items table
	d.body.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders><w:top w:val="single" w:sz="4"/><w:bottom w:val="single" w:sz="4"/><w:left w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/><w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/></w:tblBorders></w:tblPr>`)
	d.body.WriteString("<w:tr>")
	d.cell("Date", true, true, "")
	d.cell("Description", true, true, "")
	d.cell("Amount", true, true, "right")
	d.body.WriteString("</w:tr>")
	for _, item := range inv.Items {
		description := item.Description
		if item.TimeIn != "" || item.TimeOut != "" {
			description += "\nIn: " + item.TimeIn + " Out: " + item.TimeOut
		}
		d.body.WriteString("<w:tr>")
		d.cell(item.Date, false, false, "")
		d.cell(description, false, false, "")
		d.cell(currency+formatAmount(item.Amount), false, false, "right")
		d.body.WriteString("</w:tr>")
	}
	d.body.WriteString("</w:tbl>")
	d.para("", false, 0, "", "")

	// Totals and footer
	d.para("TOTAL: "+currency+formatAmount(inv.TotalAmount), true, 36, "", "right")
	if inv.ClosingMessage != "" {
		d.para(inv.ClosingMessage, false, 20, "", "")
	}
	d.para("Payment Details:", true, 0, "", "")
	d.para(profile.BankDetails, false, 0, "", "")
	if profile.TermsAndConditions != "" {
		d.para("Terms:", true, 0, "", "")
		d.para(profile.TermsAndConditions, false, 0, "", "")
	}
	d.para("Authorized Signature", true, 16, "", "right")

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		d.body.String() +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", document},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing docx package: %w", err)
	}
	return buf.Bytes(), nil
}
