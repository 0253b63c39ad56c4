package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	maxReceiptBody = 1 << 20
	maxScanSize    = 20 << 20

	msgInvalidReceipt = "Invalid receipt format. Please verify input."
	msgNotFound       = "No receipt found for that ID."
)

type errorResponse struct {
	Error   string   `json:"error"`
	Field   string   `json:"field,omitempty"`
	Reason  string   `json:"reason,omitempty"`
	Receipt *Receipt `json:"receipt,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeServiceError maps service errors to responses. Unknown errors are
// reported as bad input without their details.
func writeServiceError(w http.ResponseWriter, err error, scanned *Receipt) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   msgInvalidReceipt,
			Field:   verr.Field,
			Reason:  verr.Reason,
			Receipt: scanned,
		})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: msgNotFound})
	default:
		slog.Error("Unexpected service error", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidReceipt})
	}
}

// handleProcessReceipt scores a JSON receipt and returns its ID
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	var rcpt Receipt
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReceiptBody)).Decode(&rcpt); err != nil {
		slog.Warn("Error decoding receipt", "error", err)
		writeServiceError(w, invalid("body", "must be a JSON receipt object"), nil)
		return
	}

	id, err := s.service.Submit(rcpt)
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// handleGetPoints returns the points awarded to a receipt
func (s *Server) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	points, err := s.service.Points(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"points": points})
}

// handleGetReceipt returns the stored record for a receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	record, err := s.service.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleScanReceipt extracts a receipt from an uploaded image or PDF and
// processes it like a JSON submission.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScanSize)
	if err := r.ParseMultipartForm(maxScanSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			errorMsg = "File is too large. Maximum size is 20MB."
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorMsg})
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file was provided in the \"file\" field."})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Error reading file. Please try again."})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	scanned, id, err := s.service.Scan(r.Context(), data, contentType)
	var verr *ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "receipt": scanned})
	case errors.Is(err, ErrScanningDisabled):
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "Receipt scanning is not enabled."})
	case errors.As(err, &verr):
		writeServiceError(w, err, scanned)
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "The receipt could not be read."})
	}
}
