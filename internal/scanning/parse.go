package scanning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Amount is a monetary amount as text. Models return amounts both as JSON
// strings and as bare numbers, so both are accepted.
type Amount string

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

var (
	dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", "1/2/2006"}
	timeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}
)

// parseReceiptJSON parses a model response into ReceiptData
func parseReceiptJSON(text string) (*ReceiptData, error) {
	text = strings.TrimSpace(text)

	// Remove opening markdown code blocks
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var data ReceiptData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	// Unreadable values are left as found so validation rejects them
	data.Retailer = strings.TrimSpace(data.Retailer)
	data.PurchaseDate = normalizeLayout(data.PurchaseDate, dateLayouts, "2006-01-02")
	data.PurchaseTime = normalizeLayout(data.PurchaseTime, timeLayouts, "15:04")
	data.Total = normalizeAmount(data.Total)
	for i := range data.Items {
		data.Items[i].Price = normalizeAmount(data.Items[i].Price)
	}

	return &data, nil
}

func normalizeLayout(value string, layouts []string, canonical string) string {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(canonical)
		}
	}
	return value
}

// normalizeAmount strips currency symbols and thousands separators
func normalizeAmount(a Amount) Amount {
	s := strings.TrimSpace(string(a))
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return Amount(strings.TrimSpace(s))
}
