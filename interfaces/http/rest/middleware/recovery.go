package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/pkg/common"
	errs "github.com/OddlyDoddly/oddly-infrastructures/pkg/errors"
)

// PipelineErrorDomain is the error domain for failures raised by pipeline
// stages themselves.
const PipelineErrorDomain errs.Domain = "pipeline"

// Error codes raised by pipeline stages.
const (
	CodeUnauthorized errs.ErrorCode = "UNAUTHORIZED"
	CodeForbidden    errs.ErrorCode = "FORBIDDEN"
)

var pipelineErrors = errs.NewCatalog(PipelineErrorDomain, map[errs.ErrorCode]string{
	CodeUnauthorized: "Authentication required",
	CodeForbidden:    "Access denied",
})

// Recovery is the centralized error normalizer. It catches every panic from
// the stages below, logs the real cause, and replaces it with the generic
// internal-error response — internal details never reach the caller. It
// sits directly inside the correlation stage so the response still carries
// the request id.
func Recovery(logger *zap.Logger, errorHandler *errs.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					if recovered == http.ErrAbortHandler {
						panic(recovered)
					}
					requestID := common.CorrelationID(r.Context())
					logger.Error("panic recovered",
						zap.Any("panic", recovered),
						zap.String("path", r.URL.Path),
						zap.String("request_id", requestID),
						zap.Stack("stack"),
					)
					errorHandler.WriteInternal(w, r, requestID)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
