package receipt_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/receipt-processor/internal/receipt"
)

const targetJSON = `{
  "retailer": "Target",
  "purchaseDate": "2022-01-01",
  "purchaseTime": "13:01",
  "items": [
    {"shortDescription": "Mountain Dew 12PK", "price": "6.49"},
    {"shortDescription": "Emils Cheese Pizza", "price": "12.25"},
    {"shortDescription": "Knorr Creamy Chicken", "price": "1.26"},
    {"shortDescription": "Doritos Nacho Cheese", "price": "3.35"},
    {"shortDescription": "   Klarbrunn 12-PK 12 FL OZ  ", "price": "12.00"}
  ],
  "total": "35.35"
}`

const cornerMarketJSON = `{
  "retailer": "M&M Corner Market",
  "purchaseDate": "2022-03-20",
  "purchaseTime": "14:33",
  "items": [
    {"shortDescription": "Gatorade", "price": "2.25"},
    {"shortDescription": "Gatorade", "price": "2.25"},
    {"shortDescription": "Gatorade", "price": "2.25"},
    {"shortDescription": "Gatorade", "price": "2.25"}
  ],
  "total": "9.00"
}`

var _ = Describe("Integration", func() {
	stores := map[string]func() (receipt.Store, error){
		"memory": func() (receipt.Store, error) { return receipt.NewMemoryStore(), nil },
		"buntdb": func() (receipt.Store, error) { return receipt.NewBuntStore() },
		"bolt":   func() (receipt.Store, error) { return receipt.NewBoltStore(GinkgoT().TempDir()) },
	}

	for name, open := range stores {
		Context("with the "+name+" store", func() {
			var (
				store    receipt.Store
				ghServer *ghttp.Server
			)

			BeforeEach(func() {
				var err error
				store, err = open()
				Expect(err).NotTo(HaveOccurred())

				server := receipt.NewServer(receipt.NewService(store, nil))
				ghServer = ghttp.NewServer()
				ghServer.RouteToHandler(http.MethodPost, "/receipts/process", server.ServeHTTP)
				ghServer.RouteToHandler(http.MethodGet, regexp.MustCompile(`^/receipts/[^/]+/points$`), server.ServeHTTP)
			})

			AfterEach(func() {
				ghServer.Close()
				Expect(store.Close()).To(Succeed())
			})

			process := func(body string) string {
				resp, err := http.Post(ghServer.URL()+"/receipts/process", "application/json", strings.NewReader(body))
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var created struct {
					ID string `json:"id"`
				}
				Expect(json.NewDecoder(resp.Body).Decode(&created)).To(Succeed())
				return created.ID
			}

			points := func(id string) (int, int) {
				resp, err := http.Get(fmt.Sprintf("%s/receipts/%s/points", ghServer.URL(), id))
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return resp.StatusCode, 0
				}
				var body struct {
					Points int `json:"points"`
				}
				Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
				return resp.StatusCode, body.Points
			}

			It("should score and return points for submitted receipts", func() {
				targetID := process(targetJSON)
				cornerID := process(cornerMarketJSON)
				Expect(targetID).NotTo(Equal(cornerID))

				code, got := points(targetID)
				Expect(code).To(Equal(http.StatusOK))
				Expect(got).To(Equal(28))

				code, got = points(cornerID)
				Expect(code).To(Equal(http.StatusOK))
				Expect(got).To(Equal(109))
			})

			It("should return Not Found for unknown IDs", func() {
				code, _ := points("7fb1377b-b223-49d9-a31a-5a02701dd310")
				Expect(code).To(Equal(http.StatusNotFound))
			})

			It("should handle concurrent submissions", func() {
				const submissions = 20
				ids := make([]string, submissions)
				var wg sync.WaitGroup
				for i := 0; i < submissions; i++ {
					wg.Add(1)
					go func(i int) {
						defer GinkgoRecover()
						defer wg.Done()
						if i%2 == 0 {
							ids[i] = process(targetJSON)
						} else {
							ids[i] = process(cornerMarketJSON)
						}
					}(i)
				}
				wg.Wait()

				for i, id := range ids {
					_, got := points(id)
					if i%2 == 0 {
						Expect(got).To(Equal(28))
					} else {
						Expect(got).To(Equal(109))
					}
				}
			})
		})
	}
})
