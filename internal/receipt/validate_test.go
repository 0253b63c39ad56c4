package receipt

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Validate", func() {
	It("accepts the example receipts", func() {
		Expect(Validate(targetReceipt())).To(Succeed())
		Expect(Validate(cornerMarketReceipt())).To(Succeed())
	})

	It("accepts an empty item list", func() {
		r := targetReceipt()
		r.Items = []Item{}
		Expect(Validate(r)).To(Succeed())
	})

	It("accepts a whitespace-only item description", func() {
		r := targetReceipt()
		r.Items[0].ShortDescription = "   "
		Expect(Validate(r)).To(Succeed())
	})

	DescribeTable("rejections",
		func(mutate func(r *Receipt), field, reasonSubstring string) {
			r := targetReceipt()
			mutate(&r)

			err := Validate(r)
			var verr *ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Field).To(Equal(field))
			Expect(verr.Reason).To(ContainSubstring(reasonSubstring))
		},
		Entry("missing retailer", func(r *Receipt) { r.Retailer = "" }, "retailer", "is required"),
		Entry("missing purchase date", func(r *Receipt) { r.PurchaseDate = "" }, "purchaseDate", "is required"),
		Entry("malformed date", func(r *Receipt) { r.PurchaseDate = "2022-13-40" }, "purchaseDate", "YYYY-MM-DD"),
		Entry("date in another layout", func(r *Receipt) { r.PurchaseDate = "01/02/2022" }, "purchaseDate", "YYYY-MM-DD"),
		Entry("malformed time", func(r *Receipt) { r.PurchaseTime = "25:99" }, "purchaseTime", "HH:MM"),
		Entry("time with seconds", func(r *Receipt) { r.PurchaseTime = "14:33:00" }, "purchaseTime", "HH:MM"),
		Entry("missing items", func(r *Receipt) { r.Items = nil }, "items", "is required"),
		Entry("missing total", func(r *Receipt) { r.Total = "" }, "total", "is required"),
		Entry("non-numeric total", func(r *Receipt) { r.Total = "abc" }, "total", "must be a decimal number"),
		Entry("negative total", func(r *Receipt) { r.Total = "-35.35" }, "total", "must not be negative"),
		Entry("exponent total", func(r *Receipt) { r.Total = "1e3" }, "total", "plain decimal"),
		Entry("overlong total", func(r *Receipt) { r.Total = "1" + strings.Repeat("0", maxAmountLength) }, "total", "too long"),
		Entry("missing description", func(r *Receipt) { r.Items[1].ShortDescription = "" }, "items[1].shortDescription", "is required"),
		Entry("missing price", func(r *Receipt) { r.Items[2].Price = "" }, "items[2].price", "is required"),
		Entry("negative price", func(r *Receipt) { r.Items[0].Price = "-6.49" }, "items[0].price", "must not be negative"),
		Entry("non-numeric price", func(r *Receipt) { r.Items[4].Price = "twelve" }, "items[4].price", "must be a decimal number"),
	)

	It("describes the rejection without parser internals", func() {
		r := targetReceipt()
		r.Total = "abc"
		err := Validate(r)
		Expect(err).To(MatchError("invalid total: must be a decimal number"))
	})
})
