package invoice

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Directory", func() {
	var (
		store     *mockStore
		idGen     *mockIDGenerator
		timeSrc   *mockTimeSource
		directory *Directory
	)

	BeforeEach(func() {
		store = newMockStore()
		idGen = &mockIDGenerator{}
		timeSrc = &mockTimeSource{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
		directory = NewDirectory(store, idGen, timeSrc)
	})

	Describe("Upsert", func() {
		It("inserts a new client with the trimmed name", func() {
			Expect(directory.Upsert(" Acme Logistics ", "5 Marina Rd")).To(Succeed())

			Expect(store.clients).To(HaveLen(1))
			Expect(store.clients[0].Name).To(Equal("Acme Logistics"))
			Expect(store.clients[0].Address).To(Equal("5 Marina Rd"))
		})

		It("ignores blank names", func() {
			Expect(directory.Upsert("   ", "5 Marina Rd")).To(Succeed())
			Expect(store.clients).To(BeEmpty())
		})

		When("the client already exists under different casing", func() {
			BeforeEach(func() {
				Expect(directory.Upsert("Acme Logistics", "5 Marina Rd")).To(Succeed())
				timeSrc.now = timeSrc.now.Add(time.Hour)
				Expect(directory.Upsert("acme logistics", "7 New Wharf")).To(Succeed())
			})

			It("does not create a duplicate", func() {
				Expect(store.clients).To(HaveLen(1))
			})

			It("keeps the first-insert casing", func() {
				Expect(store.clients[0].Name).To(Equal("Acme Logistics"))
			})

			It("updates the address", func() {
				Expect(store.clients[0].Address).To(Equal("7 New Wharf"))
			})

			It("advances last-seen", func() {
				Expect(store.clients[0].LastSeen).To(Equal(timeSrc.now.UnixMilli()))
			})
		})

		It("never blanks a stored address with an empty one", func() {
			Expect(directory.Upsert("Acme Logistics", "5 Marina Rd")).To(Succeed())
			Expect(directory.Upsert("Acme Logistics", "")).To(Succeed())
			Expect(store.clients[0].Address).To(Equal("5 Marina Rd"))
		})

		It("keeps the list sorted by last-seen descending", func() {
			Expect(directory.Upsert("First Client", "")).To(Succeed())
			timeSrc.now = timeSrc.now.Add(time.Hour)
			Expect(directory.Upsert("Second Client", "")).To(Succeed())
			timeSrc.now = timeSrc.now.Add(time.Hour)
			Expect(directory.Upsert("First Client", "")).To(Succeed())

			Expect(store.clients[0].Name).To(Equal("First Client"))
			Expect(store.clients[1].Name).To(Equal("Second Client"))
		})
	})

	Describe("Suggest", func() {
		BeforeEach(func() {
			Expect(directory.Upsert("Chief Adebayo", "12 Bay St, Lagos")).To(Succeed())
		})

		It("matches ignoring case and whitespace", func() {
			client, err := directory.Suggest("  chief adebayo ")
			Expect(err).NotTo(HaveOccurred())
			Expect(client).NotTo(BeNil())
			Expect(client.Address).To(Equal("12 Bay St, Lagos"))
		})

		It("returns nil for unknown names", func() {
			client, err := directory.Suggest("Nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(client).To(BeNil())
		})

		It("returns nil for blank names", func() {
			client, err := directory.Suggest("  ")
			Expect(err).NotTo(HaveOccurred())
			Expect(client).To(BeNil())
		})
	})
})
