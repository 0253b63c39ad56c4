package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/receipt-processor/internal/scanning"
)

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random (version 4) UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now().UTC()
}

// Service scores receipts and answers point lookups
type Service struct {
	store       Store
	scanner     scanning.Scanner
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source.
// scanner may be nil, which disables Scan.
func NewService(store Store, scanner scanning.Scanner) *Service {
	return NewServiceWithDeps(store, scanner, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(store Store, scanner scanning.Scanner, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		store:       store,
		scanner:     scanner,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Submit validates and scores a receipt, stores the points under a new ID
// and returns that ID.
func (s *Service) Submit(r Receipt) (string, error) {
	points, err := s.score(r)
	if err != nil {
		return "", err
	}

	record := &Record{
		ID:        s.idGenerator.Generate(),
		Points:    points,
		CreatedAt: s.timeSource.Now(),
	}
	if err := s.store.Put(record); err != nil {
		return "", fmt.Errorf("saving record: %w", err)
	}

	slog.Info("Receipt processed", "id", record.ID, "retailer", r.Retailer, "points", points)
	return record.ID, nil
}

// score runs validation and scoring, reporting any panic as a validation
// failure so one bad receipt cannot take the process down.
func (s *Service) score(r Receipt) (points int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Recovered while scoring receipt", "panic", rec)
			points, err = 0, invalid("receipt", "could not be scored")
		}
	}()

	if err := Validate(r); err != nil {
		return 0, err
	}
	return Points(r)
}

// Points returns the points stored for id
func (s *Service) Points(id string) (int, error) {
	record, err := s.Lookup(id)
	if err != nil {
		return 0, err
	}
	return record.Points, nil
}

// Lookup returns the full record stored for id
func (s *Service) Lookup(id string) (*Record, error) {
	record, err := s.store.Get(id)
	if err != nil {
		return nil, fmt.Errorf("getting record %s: %w", id, err)
	}
	return record, nil
}

// Scan extracts a receipt from an image or PDF and submits it. The
// extracted receipt is returned alongside the ID, and also on validation
// failure so callers can show what was read.
func (s *Service) Scan(ctx context.Context, data []byte, contentType string) (*Receipt, string, error) {
	if s.scanner == nil {
		return nil, "", ErrScanningDisabled
	}

	scanned, err := s.scanner.ScanReceipt(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, "", fmt.Errorf("scanning receipt: %w", err)
	}

	r := fromScan(scanned)
	id, err := s.Submit(*r)
	if err != nil {
		return r, "", err
	}
	return r, id, nil
}

func fromScan(data *scanning.ReceiptData) *Receipt {
	r := &Receipt{
		Retailer:     data.Retailer,
		PurchaseDate: data.PurchaseDate,
		PurchaseTime: data.PurchaseTime,
		Items:        make([]Item, 0, len(data.Items)),
		Total:        string(data.Total),
	}
	for _, item := range data.Items {
		r.Items = append(r.Items, Item{
			ShortDescription: item.ShortDescription,
			Price:            string(item.Price),
		})
	}
	return r
}
