package invoice

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Manager", func() {
	var (
		store   *mockStore
		idGen   *mockIDGenerator
		timeSrc *mockTimeSource
		manager *Manager
		draft   *Invoice
	)

	BeforeEach(func() {
		store = newMockStore()
		idGen = &mockIDGenerator{}
		timeSrc = &mockTimeSource{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
		manager = NewManager(store, NewDirectory(store, idGen, timeSrc), idGen, timeSrc)

		draft = &Invoice{
			InvoiceNumber: "INV-001",
			ClientName:    "Chief Adebayo",
			ClientAddress: "12 Bay St, Lagos",
			InvoiceDate:   "2024-03-15",
			Items:         []Item{{Date: "2024-03-15", Description: "Airport drop-off", Amount: 25000}},
			Subtotal:      25000,
			TotalAmount:   25000,
			Status:        StatusPending,
		}
	})

	Describe("Archive", func() {
		It("skips empty drafts", func() {
			entry, err := manager.Archive(&Invoice{Items: []Item{}})
			Expect(err).NotTo(HaveOccurred())
			Expect(entry).To(BeNil())
			Expect(store.archive).To(BeEmpty())
		})

		It("archives a draft with a client name but no items", func() {
			entry, err := manager.Archive(&Invoice{ClientName: "Mrs Okafor", Items: []Item{}})
			Expect(err).NotTo(HaveOccurred())
			Expect(entry).NotTo(BeNil())
		})

		It("prepends the newest entry", func() {
			_, err := manager.Archive(draft)
			Expect(err).NotTo(HaveOccurred())

			second := draft.Clone()
			second.InvoiceNumber = "INV-002"
			_, err = manager.Archive(second)
			Expect(err).NotTo(HaveOccurred())

			Expect(store.archive[0].Data.InvoiceNumber).To(Equal("INV-002"))
		})

		It("snapshots a deep copy", func() {
			_, err := manager.Archive(draft)
			Expect(err).NotTo(HaveOccurred())

			draft.Items[0].Amount = 1
			draft.ClientName = "Someone Else"

			Expect(store.archive[0].Data.Items[0].Amount).To(Equal(25000.0))
			Expect(store.archive[0].Data.ClientName).To(Equal("Chief Adebayo"))
		})

		It("upserts the client as a side effect", func() {
			_, err := manager.Archive(draft)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.clients).To(HaveLen(1))
			Expect(store.clients[0].Address).To(Equal("12 Bay St, Lagos"))
		})
	})

	Describe("Remove", func() {
		BeforeEach(func() {
			_, err := manager.Archive(draft)
			Expect(err).NotTo(HaveOccurred())
		})

		It("deletes the entry", func() {
			Expect(manager.Remove(store.archive[0].ID)).To(Succeed())
			Expect(store.archive).To(BeEmpty())
		})

		It("ignores unknown ids", func() {
			Expect(manager.Remove("missing")).To(Succeed())
			Expect(store.archive).To(HaveLen(1))
		})
	})

	Describe("UpdateStatus", func() {
		BeforeEach(func() {
			_, err := manager.Archive(draft)
			Expect(err).NotTo(HaveOccurred())
		})

		It("changes only the status", func() {
			Expect(manager.UpdateStatus(store.archive[0].ID, StatusPaid)).To(Succeed())
			Expect(store.archive[0].Data.Status).To(Equal(StatusPaid))
			Expect(store.archive[0].Data.TotalAmount).To(Equal(25000.0))
		})

		It("rejects unknown statuses", func() {
			Expect(manager.UpdateStatus(store.archive[0].ID, Status("SETTLED"))).NotTo(Succeed())
		})

		It("is a no-op for unknown ids", func() {
			Expect(manager.UpdateStatus("missing", StatusPaid)).To(Succeed())
			Expect(store.archive[0].Data.Status).To(Equal(StatusPending))
		})
	})

	Describe("Load", func() {
		BeforeEach(func() {
			_, err := manager.Archive(draft)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns an independent copy", func() {
			loaded, err := manager.Load(store.archive[0].ID)
			Expect(err).NotTo(HaveOccurred())

			loaded.Items[0].Amount = 1
			Expect(store.archive[0].Data.Items[0].Amount).To(Equal(25000.0))
		})

		It("returns ErrNotFound for unknown ids", func() {
			_, err := manager.Load("missing")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			_, err := manager.Archive(draft)
			Expect(err).NotTo(HaveOccurred())

			timeSrc.now = timeSrc.now.Add(time.Hour)
			second := draft.Clone()
			second.InvoiceNumber = "INV-002"
			second.ClientName = "Mrs Okafor"
			_, err = manager.Archive(second)
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns everything for an empty query, newest first", func() {
			results, err := manager.Search("")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
			Expect(results[0].Data.ClientName).To(Equal("Mrs Okafor"))
		})

		It("matches client names case-insensitively", func() {
			results, err := manager.Search("okafor")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})

		It("matches invoice numbers", func() {
			results, err := manager.Search("inv-002")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Data.InvoiceNumber).To(Equal("INV-002"))
		})

		It("matches invoice dates", func() {
			results, err := manager.Search("2024-03")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})

		It("returns an empty slice when nothing matches", func() {
			results, err := manager.Search("zzz")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})
})
