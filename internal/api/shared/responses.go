package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/wordpath/wordpath-api/internal/redact"
)

// maxRequestBody caps request bodies; memory updates and program documents
// are small.
const maxRequestBody = 1 << 20 // 1 MiB

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// DecodeJSON reads and decodes a JSON request body into dst, rejecting
// unknown fields and oversized bodies.
func DecodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	// A second decode succeeding means trailing garbage after the JSON value.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: unexpected trailing data")
	}

	return nil
}

// RespondWithJSON writes a JSON response with the given status code.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response",
			"error", err,
			"path", r.URL.Path)
	}
}

// RespondWithError writes a sanitized JSON error response carrying the
// request's trace ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithErrorAndLog writes a sanitized error response and logs the full
// (redacted) error. 5xx responses log at ERROR, everything else at DEBUG;
// the raw error string never reaches the client.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	attrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", redact.Error(err)))
	}

	slog.LogAttrs(r.Context(), level, "API error response", attrs...)

	RespondWithError(w, r, status, userMessage)
}
