package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the transport-agnostic error contract. Internal details
// never leak: Details only holds values explicitly supplied at raise time,
// and unclassified failures are replaced with a generic internal error.
type ErrorResponse struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Timestamp string                 `json:"timestamp"`
	Path      string                 `json:"path"`
	RequestID string                 `json:"request_id"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// ErrorHandler renders errors as HTTP responses following the contract.
type ErrorHandler struct {
	logger *zap.Logger
}

// NewErrorHandler creates an error handler.
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle writes err as an error response. Typed service errors keep their
// code, message and details; anything else becomes a 500 with a generic body
// and is logged with its real cause.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, requestID string, err error) {
	if err == nil {
		return
	}

	if se := AsServiceError(err); se != nil {
		status := se.StatusCode()
		h.logger.Warn("request failed",
			zap.String("domain", string(se.Domain)),
			zap.String("code", string(se.Code)),
			zap.Int("status", status),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
		)
		writeJSON(w, status, ErrorResponse{
			Code:      string(se.Code),
			Message:   se.Message,
			Timestamp: Timestamp(),
			Path:      r.URL.Path,
			RequestID: requestID,
			Details:   se.Details,
		})
		return
	}

	h.logger.Error("unexpected error",
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestID),
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Code:      "INTERNAL_ERROR",
		Message:   "An unexpected error occurred",
		Timestamp: Timestamp(),
		Path:      r.URL.Path,
		RequestID: requestID,
	})
}

// WriteInternal writes the generic internal-error response directly, used by
// the recovery middleware when a panic has been caught.
func (h *ErrorHandler) WriteInternal(w http.ResponseWriter, r *http.Request, requestID string) {
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Code:      "INTERNAL_ERROR",
		Message:   "An unexpected error occurred",
		Timestamp: Timestamp(),
		Path:      r.URL.Path,
		RequestID: requestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
