package receipt

import (
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// behavesLikeStore runs the Store contract against a backend
func behavesLikeStore(newStore func() Store) {
	var (
		store     Store
		createdAt time.Time
	)

	BeforeEach(func() {
		store = newStore()
		createdAt = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	Describe("Put", func() {
		It("should store the record", func() {
			Expect(store.Put(&Record{ID: "test-id", Points: 28, CreatedAt: createdAt})).To(Succeed())

			record, err := store.Get("test-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.ID).To(Equal("test-id"))
			Expect(record.Points).To(Equal(28))
			Expect(record.CreatedAt.Equal(createdAt)).To(BeTrue())
		})

		It("should replace a record with the same ID", func() {
			Expect(store.Put(&Record{ID: "test-id", Points: 28})).To(Succeed())
			Expect(store.Put(&Record{ID: "test-id", Points: 109})).To(Succeed())

			record, err := store.Get("test-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Points).To(Equal(109))
		})

		It("should not be affected by later changes to the caller's record", func() {
			record := &Record{ID: "test-id", Points: 28}
			Expect(store.Put(record)).To(Succeed())
			record.Points = 0

			stored, err := store.Get("test-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Points).To(Equal(28))
		})

		It("should keep concurrent writes to distinct IDs", func() {
			const writers = 50
			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					Expect(store.Put(&Record{ID: fmt.Sprintf("id-%d", i), Points: i})).To(Succeed())
				}(i)
			}
			wg.Wait()

			for i := 0; i < writers; i++ {
				record, err := store.Get(fmt.Sprintf("id-%d", i))
				Expect(err).NotTo(HaveOccurred())
				Expect(record.Points).To(Equal(i))
			}
		})
	})

	Describe("Get", func() {
		When("the record does not exist", func() {
			It("returns ErrNotFound", func() {
				_, err := store.Get("nonexistent")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})
	})
}

var _ = Describe("MemoryStore", func() {
	behavesLikeStore(func() Store {
		return NewMemoryStore()
	})
})

var _ = Describe("BuntStore", func() {
	behavesLikeStore(func() Store {
		store, err := NewBuntStore()
		Expect(err).NotTo(HaveOccurred())
		return store
	})
})

var _ = Describe("BoltStore", func() {
	behavesLikeStore(func() Store {
		store, err := NewBoltStore(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		return store
	})
})
