package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/common"
	errs "github.com/OddlyDoddly/oddly-infrastructures/pkg/errors"
)

// Ownership verifies that the authenticated subject owns the target
// resource before any mutating handler runs. Side-effect-free requests and
// resources marked public are skipped; everything else fails closed: if
// ownership cannot be proven, the request is forbidden.
func Ownership(verifier ports.OwnershipVerifier, errorHandler *errs.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSideEffectFree(r.Method) || isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			resourceID := chi.URLParam(r, "id")
			if resourceID == "" {
				// No target resource yet, nothing to own (e.g. create).
				next.ServeHTTP(w, r)
				return
			}

			requestID := common.CorrelationID(r.Context())
			userID, ok := common.GetUserID(r.Context())
			if !ok {
				errorHandler.Handle(w, r, requestID, pipelineErrors.New(CodeUnauthorized, nil))
				return
			}

			owned, err := verifier.Verify(r.Context(), userID, resourceID)
			if err != nil {
				logger.Warn("ownership verification failed",
					zap.String("resource_id", resourceID),
					zap.String("request_id", requestID),
					zap.Error(err),
				)
			}
			if err != nil || !owned {
				errorHandler.Handle(w, r, requestID, pipelineErrors.New(CodeForbidden, map[string]interface{}{
					"id": resourceID,
				}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSideEffectFree(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func isPublicPath(path string) bool {
	return strings.HasSuffix(path, "/public")
}
