package invoice

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Backup", func() {
	var (
		store   *mockStore
		timeSrc *mockTimeSource
	)

	BeforeEach(func() {
		store = newMockStore()
		timeSrc = &mockTimeSource{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	})

	Describe("ExportBackup", func() {
		BeforeEach(func() {
			store.sequence = 7
			store.clients = []*Client{{ID: "c1", Name: "Mrs Okafor", LastSeen: 1}}
			store.archive = []*Archived{
				{ID: "a1", CreatedAt: 1000, Data: &Invoice{ClientName: "Mrs Okafor", Items: []Item{}}},
			}
		})

		It("collects all four records", func() {
			backup, err := ExportBackup(store, timeSrc)
			Expect(err).NotTo(HaveOccurred())

			Expect(backup.Profile).NotTo(BeNil())
			Expect(backup.Archive).To(HaveLen(1))
			Expect(backup.Clients).To(HaveLen(1))
			Expect(backup.Sequence).To(Equal(7))
		})

		It("stamps the export time", func() {
			backup, err := ExportBackup(store, timeSrc)
			Expect(err).NotTo(HaveOccurred())
			Expect(backup.ExportedAt).To(Equal("2024-03-15T10:00:00Z"))
		})
	})

	Describe("RestoreBackup", func() {
		var valid []byte

		BeforeEach(func() {
			backup := &Backup{
				ExportedAt: "2024-03-01T00:00:00Z",
				Profile:    DefaultProfile(),
				Archive: []*Archived{
					{ID: "a1", CreatedAt: 1000, Data: &Invoice{ClientName: "Mrs Okafor", Items: []Item{}}},
				},
				Clients:  []*Client{{ID: "c1", Name: "Mrs Okafor", LastSeen: 1}},
				Sequence: 7,
			}
			var err error
			valid, err = json.Marshal(backup)
			Expect(err).NotTo(HaveOccurred())
		})

		It("overwrites all four records", func() {
			Expect(RestoreBackup(store, valid)).To(Succeed())

			Expect(store.profile).NotTo(BeNil())
			Expect(store.archive).To(HaveLen(1))
			Expect(store.clients).To(HaveLen(1))
			Expect(store.sequence).To(Equal(7))
		})

		It("treats missing lists as empty", func() {
			Expect(RestoreBackup(store, []byte(`{"profile": {}, "sequence": 2}`))).To(Succeed())
			Expect(store.archive).To(BeEmpty())
			Expect(store.clients).To(BeEmpty())
		})

		When("the document is invalid", func() {
			BeforeEach(func() {
				store.sequence = 5
			})

			It("rejects non-JSON input before writing", func() {
				Expect(RestoreBackup(store, []byte("not json"))).To(MatchError(ErrInvalidBackup))
				Expect(store.sequence).To(Equal(5))
			})

			It("rejects a missing profile before writing", func() {
				Expect(RestoreBackup(store, []byte(`{"sequence": 9}`))).To(MatchError(ErrInvalidBackup))
				Expect(store.sequence).To(Equal(5))
			})

			It("rejects malformed archive entries before writing", func() {
				Expect(RestoreBackup(store, []byte(`{"profile": {}, "archive": [{"id": ""}]}`))).To(MatchError(ErrInvalidBackup))
				Expect(store.sequence).To(Equal(5))
			})
		})
	})
})
