package export

import (
	"bytes"
	"encoding/csv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hanifgol/invoice-keeper/internal/invoice"
)

var _ = Describe("CSV", func() {
	var (
		inv  *invoice.Invoice
		rows [][]string
	)

	JustBeforeEach(func() {
		data, err := CSV(inv)
		Expect(err).NotTo(HaveOccurred())
		rows, err = csv.NewReader(bytes.NewReader(data)).ReadAll()
		Expect(err).NotTo(HaveOccurred())
	})

	When("the invoice has items", func() {
		BeforeEach(func() {
			inv = sampleInvoice()
		})

		It("writes the expected header", func() {
			Expect(rows[0]).To(Equal([]string{
				"Invoice Number", "Invoice Date", "Client Name", "Client Address",
				"Status", "Trip Date", "Description", "Time In", "Time Out",
				"Amount", "Total Invoice Amount",
			}))
		})

		It("writes one row per item", func() {
			Expect(rows).To(HaveLen(3))
		})

		It("repeats the invoice fields on every row", func() {
			Expect(rows[1][0]).To(Equal("INV-042"))
			Expect(rows[2][0]).To(Equal("INV-042"))
			Expect(rows[2][2]).To(Equal("Chief Adebayo"))
		})

		It("formats amounts with two decimals", func() {
			Expect(rows[1][9]).To(Equal("25000.00"))
			Expect(rows[1][10]).To(Equal("85000.00"))
		})

		It("carries the time fields", func() {
			Expect(rows[1][7]).To(Equal("09:00"))
			Expect(rows[1][8]).To(Equal("11:30"))
			Expect(rows[2][7]).To(BeEmpty())
		})
	})

	When("the invoice has no items", func() {
		BeforeEach(func() {
			inv = &invoice.Invoice{
				InvoiceNumber: "INV-001",
				ClientName:    "Mrs Okafor",
				InvoiceDate:   "2024-03-10",
				Status:        invoice.StatusPending,
			}
		})

		It("still writes a single data row", func() {
			Expect(rows).To(HaveLen(2))
		})

		It("leaves the item fields empty with a zero amount", func() {
			Expect(rows[1][6]).To(BeEmpty())
			Expect(rows[1][9]).To(Equal("0.00"))
		})
	})

	When("fields contain commas and quotes", func() {
		BeforeEach(func() {
			inv = sampleInvoice()
			inv.ClientName = `Chief "Baba" Adebayo, Esq.`
			inv.Items = inv.Items[:1]
			inv.Items[0].Description = "Drop-off, VI -> Ikeja"
		})

		It("survives a round trip through a CSV reader", func() {
			Expect(rows[1][2]).To(Equal(`Chief "Baba" Adebayo, Esq.`))
			Expect(rows[1][6]).To(Equal("Drop-off, VI -> Ikeja"))
		})
	})
})
