package invoice

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltStore", func() {
	var store *BoltStore

	BeforeEach(func() {
		path := filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		store, err = NewBoltStore(path)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("profile", func() {
		It("returns the defaults when nothing is saved", func() {
			profile, err := store.LoadProfile()
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.CurrencySymbol).To(Equal("₦"))
			Expect(profile.CompanyName).NotTo(BeEmpty())
		})

		It("round-trips a saved profile", func() {
			profile := DefaultProfile()
			profile.CompanyName = "Test Hire Co"
			Expect(store.SaveProfile(profile)).To(Succeed())

			loaded, err := store.LoadProfile()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.CompanyName).To(Equal("Test Hire Co"))
		})

		It("merges a partial saved profile over the defaults", func() {
			Expect(store.SaveProfile(&Profile{CompanyName: "Partial Co"})).To(Succeed())

			loaded, err := store.LoadProfile()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.CompanyName).To(Equal("Partial Co"))
		})

		It("restores the defaults after a reset", func() {
			profile := DefaultProfile()
			profile.CompanyName = "Test Hire Co"
			Expect(store.SaveProfile(profile)).To(Succeed())
			Expect(store.ResetProfile()).To(Succeed())

			loaded, err := store.LoadProfile()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.CompanyName).To(Equal(DefaultProfile().CompanyName))
		})
	})

	Describe("archive", func() {
		It("returns an empty slice on a fresh store", func() {
			archive, err := store.LoadArchive()
			Expect(err).NotTo(HaveOccurred())
			Expect(archive).NotTo(BeNil())
			Expect(archive).To(BeEmpty())
		})

		It("round-trips entries", func() {
			entry := &Archived{
				ID:        "a1",
				CreatedAt: 1710000000000,
				Data: &Invoice{
					InvoiceNumber: "INV-001",
					ClientName:    "Chief Adebayo",
					Items:         []Item{{Date: "2024-03-15", Description: "Airport drop-off", Amount: 25000}},
					Subtotal:      25000,
					TotalAmount:   25000,
					Status:        StatusPending,
				},
			}
			Expect(store.SaveArchive([]*Archived{entry})).To(Succeed())

			archive, err := store.LoadArchive()
			Expect(err).NotTo(HaveOccurred())
			Expect(archive).To(HaveLen(1))
			Expect(archive[0].Data.Items[0].Amount).To(Equal(25000.0))
		})
	})

	Describe("clients", func() {
		It("round-trips the address book", func() {
			clients := []*Client{{ID: "c1", Name: "Mrs Okafor", Address: "7 New Wharf", LastSeen: 1}}
			Expect(store.SaveClients(clients)).To(Succeed())

			loaded, err := store.LoadClients()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(HaveLen(1))
			Expect(loaded[0].Name).To(Equal("Mrs Okafor"))
		})
	})

	Describe("sequence", func() {
		It("is zero on a fresh store", func() {
			seq, err := store.LoadSequence()
			Expect(err).NotTo(HaveOccurred())
			Expect(seq).To(BeZero())
		})

		It("round-trips the counter", func() {
			Expect(store.SaveSequence(41)).To(Succeed())
			seq, err := store.LoadSequence()
			Expect(err).NotTo(HaveOccurred())
			Expect(seq).To(Equal(41))
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			Expect(store.Close()).To(Succeed())
			store = nil
		})
	})
})
