package middleware

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/common"
	errs "github.com/OddlyDoddly/oddly-infrastructures/pkg/errors"
)

// UnitOfWork scopes one transaction around each mutating request: a fresh
// coordinator is created, placed in the context, and begun before the
// handler; after the handler the response status decides commit or
// rollback. A panic rolls back before propagating to the error normalizer.
// Side-effect-free requests bypass transaction scoping entirely.
//
// The downstream response is buffered so a failed commit can still be
// reported as an error to the caller.
func UnitOfWork(factory ports.UnitOfWorkFactory, errorHandler *errs.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSideEffectFree(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			requestID := common.CorrelationID(r.Context())
			uow := factory.New()
			ctx := ports.WithUnitOfWork(r.Context(), uow)

			if err := uow.Begin(ctx); err != nil {
				errorHandler.Handle(w, r, requestID, err)
				return
			}

			defer func() {
				if recovered := recover(); recovered != nil {
					if rbErr := uow.Rollback(ctx); rbErr != nil {
						logger.Error("rollback after panic failed", zap.Error(rbErr), zap.String("request_id", requestID))
					}
					panic(recovered)
				}
			}()

			buffered := newBufferedWriter(w)
			next.ServeHTTP(buffered, r.WithContext(ctx))

			if buffered.status() >= http.StatusBadRequest {
				if err := uow.Rollback(ctx); err != nil {
					logger.Error("rollback failed", zap.Error(err), zap.String("request_id", requestID))
				}
				buffered.flush()
				return
			}

			if err := uow.Commit(ctx); err != nil {
				if uow.IsActive() {
					if rbErr := uow.Rollback(ctx); rbErr != nil {
						logger.Error("rollback after failed commit failed", zap.Error(rbErr), zap.String("request_id", requestID))
					}
				}
				errorHandler.Handle(w, r, requestID, err)
				return
			}
			buffered.flush()
		})
	}
}

// bufferedWriter holds the downstream response until the transaction
// outcome is known.
type bufferedWriter struct {
	target     http.ResponseWriter
	body       bytes.Buffer
	statusCode int
}

func newBufferedWriter(target http.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{target: target}
}

func (b *bufferedWriter) Header() http.Header {
	return b.target.Header()
}

func (b *bufferedWriter) WriteHeader(statusCode int) {
	if b.statusCode == 0 {
		b.statusCode = statusCode
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.statusCode == 0 {
		b.statusCode = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedWriter) status() int {
	if b.statusCode == 0 {
		return http.StatusOK
	}
	return b.statusCode
}

func (b *bufferedWriter) flush() {
	b.target.WriteHeader(b.status())
	if b.body.Len() > 0 {
		b.target.Write(b.body.Bytes())
	}
}
