// Package middleware implements the request pipeline stages. Composition
// order is fixed by the router: correlation id, error normalization, request
// logging, authentication, ownership verification, transactional scoping,
// then the terminal handler.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/OddlyDoddly/oddly-infrastructures/pkg/common"
)

// HeaderCorrelationID carries the correlation id across service boundaries.
const HeaderCorrelationID = "X-Correlation-ID"

// CorrelationID assigns or propagates the request correlation id. It runs
// first so every later stage, and every event the request produces, carries
// the same id. The id is echoed on the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(HeaderCorrelationID)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		ctx := common.WithCorrelationID(r.Context(), correlationID)
		w.Header().Set(HeaderCorrelationID, correlationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
