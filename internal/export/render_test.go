package export

import (
	"archive/zip"
	"bytes"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/hanifgol/invoice-keeper/internal/invoice"
)

var _ = Describe("PDF", func() {
	var profile *invoice.Profile

	BeforeEach(func() {
		profile = invoice.DefaultProfile()
	})

	It("renders a PDF document", func() {
		data, err := PDF(sampleInvoice(), profile)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())
		Expect(string(data[:5])).To(Equal("%PDF-"))
	})

	It("renders an invoice with no items", func() {
		data, err := PDF(&invoice.Invoice{ClientName: "Mrs Okafor"}, profile)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())
	})

	It("ignores an unparseable embedded logo", func() {
		profile.LogoBase64 = "not base64 at all!!!"
		data, err := PDF(sampleInvoice(), profile)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())
	})
})

var _ = Describe("DOCX", func() {
	var document string

	readDocument := func(data []byte) string {
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		Expect(err).NotTo(HaveOccurred())

		f, err := zr.Open("word/document.xml")
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		content, err := io.ReadAll(f)
		Expect(err).NotTo(HaveOccurred())
		return string(content)
	}

	JustBeforeEach(func() {
		data, err := DOCX(sampleInvoice(), invoice.DefaultProfile())
		Expect(err).NotTo(HaveOccurred())
		document = readDocument(data)
	})

	It("contains the client and invoice number", func() {
		Expect(document).To(ContainSubstring("Chief Adebayo"))
		Expect(document).To(ContainSubstring("No: INV-042"))
	})

	It("contains every line item", func() {
		Expect(document).To(ContainSubstring("Airport drop-off"))
		Expect(document).To(ContainSubstring("Full day hire"))
	})

	It("contains the total", func() {
		Expect(document).To(ContainSubstring("85000.00"))
	})

	It("escapes markup in field values", func() {
		inv := sampleInvoice()
		inv.ClientName = `Chief <Baba> & "Co"`
		data, err := DOCX(inv, invoice.DefaultProfile())
		Expect(err).NotTo(HaveOccurred())
		Expect(readDocument(data)).To(ContainSubstring("Chief &lt;Baba&gt; &amp; &quot;Co&quot;"))
	})
})

var _ = Describe("XLSX", func() {
	It("round-trips the flattened layout", func() {
		data, err := XLSX(sampleInvoice())
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		sheet := f.GetSheetName(0)

		header, err := f.GetCellValue(sheet, "A1")
		Expect(err).NotTo(HaveOccurred())
		Expect(header).To(Equal("Invoice Number"))

		client, err := f.GetCellValue(sheet, "C2")
		Expect(err).NotTo(HaveOccurred())
		Expect(client).To(Equal("Chief Adebayo"))

		description, err := f.GetCellValue(sheet, "G3")
		Expect(err).NotTo(HaveOccurred())
		Expect(description).To(Equal("Full day hire"))

		totalLabel, err := f.GetCellValue(sheet, "I4")
		Expect(err).NotTo(HaveOccurred())
		Expect(totalLabel).To(Equal("TOTAL"))
	})

	It("writes a placeholder row for an empty invoice", func() {
		data, err := XLSX(&invoice.Invoice{InvoiceNumber: "INV-001", ClientName: "Mrs Okafor"})
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		number, err := f.GetCellValue(f.GetSheetName(0), "A2")
		Expect(err).NotTo(HaveOccurred())
		Expect(number).To(Equal("INV-001"))
	})
})
