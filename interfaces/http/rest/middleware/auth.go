package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/pkg/auth"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/common"
	errs "github.com/OddlyDoddly/oddly-infrastructures/pkg/errors"
)

// Authenticate validates the bearer token and places the subject's identity
// in the request context. Requests without a valid token never reach the
// ownership or transaction stages.
func Authenticate(validator *auth.JWTValidator, errorHandler *errs.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := common.CorrelationID(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errorHandler.Handle(w, r, requestID, pipelineErrors.New(CodeUnauthorized, nil))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				errorHandler.Handle(w, r, requestID, pipelineErrors.New(CodeUnauthorized, nil))
				return
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				logger.Debug("token rejected", zap.Error(err), zap.String("request_id", requestID))
				errorHandler.Handle(w, r, requestID, pipelineErrors.New(CodeUnauthorized, nil))
				return
			}

			ctx := common.WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
