// Package handlers terminates the pipeline: it decodes and structurally
// validates payloads at the edge, resolves the authenticated subject, and
// delegates to the service layer.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/application/dto"
	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/application/services"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/auth"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/common"
	errs "github.com/OddlyDoddly/oddly-infrastructures/pkg/errors"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/utils"
)

// RequestErrorDomain is the error domain for edge-level request failures.
const RequestErrorDomain errs.Domain = "request"

// Error codes raised at the edge, before the service layer.
const (
	CodeRequestValidationFailed errs.ErrorCode = "REQUEST_VALIDATION_FAILED"
	CodeRequestMalformed        errs.ErrorCode = "REQUEST_VALIDATION_MALFORMED"
)

var requestErrors = errs.NewCatalog(RequestErrorDomain, map[errs.ErrorCode]string{
	CodeRequestValidationFailed: "Validation failed: {reason}",
	CodeRequestMalformed:        "Request body could not be parsed",
})

// ExampleHandler handles example HTTP requests.
type ExampleHandler struct {
	service      *services.ExampleService
	errorHandler *errs.ErrorHandler
	logger       *zap.Logger
}

// NewExampleHandler creates the example handler.
func NewExampleHandler(service *services.ExampleService, errorHandler *errs.ErrorHandler, logger *zap.Logger) *ExampleHandler {
	return &ExampleHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// Create handles POST /examples.
func (h *ExampleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExampleRequest
	if !h.decode(w, r, &req) {
		return
	}

	userID, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.service.CreateExample(r.Context(), req, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, dto.CreateExampleResponse{ID: id})
}

// Get handles GET /examples/{id}.
func (h *ExampleHandler) Get(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.GetExample(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, response)
}

// List handles GET /examples.
func (h *ExampleHandler) List(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)
	filter := ports.ExampleFilter{
		OwnerID:    r.URL.Query().Get("owner_id"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}

	responses, err := h.service.ListExamples(r.Context(), filter, params.Skip, params.Take)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, responses)
}

// Update handles PUT /examples/{id}.
func (h *ExampleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateExampleRequest
	if !h.decode(w, r, &req) {
		return
	}

	userID, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.UpdateExample(r.Context(), chi.URLParam(r, "id"), req, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /examples/{id}.
func (h *ExampleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.DeleteExample(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate handles POST /examples/{id}/activate.
func (h *ExampleHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate handles POST /examples/{id}/deactivate.
func (h *ExampleHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *ExampleHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	userID, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if active {
		err = h.service.ActivateExample(r.Context(), id, userID)
	} else {
		err = h.service.DeactivateExample(r.Context(), id, userID)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode parses and structurally validates the request body. Validation
// failures are resolved here at the edge and never reach the service.
func (h *ExampleHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.fail(w, r, requestErrors.New(CodeRequestMalformed, nil).WithCause(err))
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		h.fail(w, r, requestErrors.New(CodeRequestValidationFailed, map[string]interface{}{
			"reason": err.Error(),
		}))
		return false
	}
	return true
}

func (h *ExampleHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler.Handle(w, r, common.CorrelationID(r.Context()), err)
}

func (h *ExampleHandler) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
