package scanning

import "context"

// ReceiptData is the receipt payload extracted from an image. Fields keep the
// text form of the receipt JSON so the caller's validation applies unchanged.
type ReceiptData struct {
	Retailer     string     `json:"retailer"`
	PurchaseDate string     `json:"purchaseDate"` // YYYY-MM-DD
	PurchaseTime string     `json:"purchaseTime"` // HH:MM, 24-hour
	Items        []ItemData `json:"items"`
	Total        Amount     `json:"total"`
}

// ItemData is a single extracted line item
type ItemData struct {
	ShortDescription string `json:"shortDescription"`
	Price            Amount `json:"price"`
}

// Scanner defines the interface for receipt scanning operations
type Scanner interface {
	// ScanReceipt analyzes a receipt image/PDF and extracts its contents
	ScanReceipt(ctx context.Context, imageData []byte, contentType string) (*ReceiptData, error)
	// Close closes the scanner and releases resources
	Close() error
}
