package receipt

import "time"

// Receipt is a submitted purchase receipt. Amounts, dates and times are kept
// in their text form until validation.
type Receipt struct {
	Retailer     string `json:"retailer" validate:"required"`
	PurchaseDate string `json:"purchaseDate" validate:"required,datetime=2006-01-02"`
	PurchaseTime string `json:"purchaseTime" validate:"required,datetime=15:04"`
	Items        []Item `json:"items" validate:"required,dive"`
	Total        string `json:"total" validate:"required,amount"`
}

// Item is a single line on a receipt
type Item struct {
	ShortDescription string `json:"shortDescription" validate:"required"`
	Price            string `json:"price" validate:"required,amount"`
}

// Record is the scored result of a submission, keyed by ID in a Store
type Record struct {
	ID        string    `json:"id"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}
