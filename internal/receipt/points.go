package receipt

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	quarter         = decimal.RequireFromString("0.25")
	descriptionRate = decimal.RequireFromString("0.2")
	maxPoints       = decimal.NewFromInt(math.MaxInt32)
)

// Points calculates the reward points for a receipt. It is the sum of:
//   - 1 point for every letter or digit in the retailer name
//   - 50 points if the total is a round dollar amount with no cents
//   - 25 points if the total is a multiple of 0.25
//   - 5 points for every two items on the receipt
//   - ceil(price * 0.2) for each item whose trimmed description length is a multiple of 3
//   - 6 points if the day in the purchase date is odd
//   - 10 points if the purchase time is at or after 14:00 and before 16:00
//
// Points expects a receipt that passed Validate. Malformed fields still
// yield a *ValidationError instead of being coerced.
func Points(r Receipt) (int, error) {
	total, err := parseAmount(r.Total)
	if err != nil {
		return 0, invalid("total", err.Error())
	}
	date, err := time.Parse(time.DateOnly, r.PurchaseDate)
	if err != nil {
		return 0, invalid("purchaseDate", "must be a calendar date in YYYY-MM-DD form")
	}
	clock, err := time.Parse("15:04", r.PurchaseTime)
	if err != nil {
		return 0, invalid("purchaseTime", "must be a 24-hour time in HH:MM form")
	}

	points := decimal.NewFromInt(int64(retailerPoints(r.Retailer)))
	points = points.Add(decimal.NewFromInt(int64(totalPoints(total))))
	points = points.Add(decimal.NewFromInt(int64(len(r.Items) / 2 * 5)))

	for i, item := range r.Items {
		price, err := parseAmount(item.Price)
		if err != nil {
			return 0, invalid(itemField(i, "price"), err.Error())
		}
		points = points.Add(descriptionPoints(item.ShortDescription, price))
	}

	if date.Day()%2 == 1 {
		points = points.Add(decimal.NewFromInt(6))
	}
	if isAfternoon(clock) {
		points = points.Add(decimal.NewFromInt(10))
	}

	if points.GreaterThan(maxPoints) {
		return 0, invalid("receipt", "amounts are too large to score")
	}
	return int(points.IntPart()), nil
}

func retailerPoints(retailer string) int {
	n := 0
	for _, c := range retailer {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			n++
		}
	}
	return n
}

func totalPoints(total decimal.Decimal) int {
	n := 0
	if total.IsInteger() {
		n += 50
	}
	if total.Mod(quarter).IsZero() {
		n += 25
	}
	return n
}

// descriptionPoints counts an empty trimmed description as a multiple of 3.
func descriptionPoints(description string, price decimal.Decimal) decimal.Decimal {
	if utf8.RuneCountInString(strings.TrimSpace(description))%3 != 0 {
		return decimal.Zero
	}
	return price.Mul(descriptionRate).Ceil()
}

// isAfternoon reports whether t falls in [14:00, 16:00)
func isAfternoon(t time.Time) bool {
	return t.Hour() >= 14 && t.Hour() < 16
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}
