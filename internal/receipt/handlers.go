package receipt

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes an error response body
func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{
		"error": message,
	})
}

// handleSplit splits an uploaded receipt across the posted group
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	rid := RequestIDFrom(r.Context())

	upload, err := readUpload(w, r)
	if err != nil {
		var inputErr *inputError
		if errors.As(err, &inputErr) {
			slog.Warn("Rejected split request", "request_id", rid, "error", err)
			writeError(w, inputErr.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Error reading upload", "request_id", rid, "error", err)
		writeError(w, "Failed to process receipt: "+err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("Splitting receipt",
		"request_id", rid,
		"filename", upload.Filename,
		"content_type", upload.ContentType,
		"size", len(upload.Image),
		"members", len(upload.Group),
	)

	result, err := s.splitter.SplitReceipt(r.Context(), upload.Image, upload.ContentType, upload.Group)
	if err != nil {
		slog.Error("Error splitting receipt", "request_id", rid, "filename", upload.Filename, "error", err)
		writeError(w, "Failed to process receipt: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleReceiptsHealth reports the receipts routes as available
func (s *Server) handleReceiptsHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "receipts",
	})
}

// handleHealth reports the API as running
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Receipt Splitter API is running",
	})
}

// handleIndex describes the API
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to Receipt Splitter API",
		"health":  "/health",
		"version": s.version,
	})
}
