package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OddlyDoddly/oddly-infrastructures/application/ports"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/events"
	"github.com/OddlyDoddly/oddly-infrastructures/domain/models"
	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/persistence/memory"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/auth"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/common"
	errs "github.com/OddlyDoddly/oddly-infrastructures/pkg/errors"
)

var middlewareTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testErrorHandler() *errs.ErrorHandler {
	return errs.NewErrorHandler(zap.NewNop())
}

func decodeError(t *testing.T, body string) errs.ErrorResponse {
	t.Helper()
	var response errs.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &response))
	return response
}

func TestCorrelationID_AssignsWhenMissing(t *testing.T) {
	var seen string
	handler := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = common.CorrelationID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderCorrelationID), "assigned id is echoed on the response")
}

func TestCorrelationID_PropagatesInbound(t *testing.T) {
	var seen string
	handler := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = common.CorrelationID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "corr-inbound")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "corr-inbound", seen)
	assert.Equal(t, "corr-inbound", rec.Header().Get(HeaderCorrelationID))
}

func TestRecovery_NormalizesPanic(t *testing.T) {
	handler := Recovery(zap.NewNop(), testErrorHandler())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	response := decodeError(t, rec.Body.String())
	assert.Equal(t, "INTERNAL_ERROR", response.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom", "internal details never reach the caller")
}

func TestRecovery_PassesThroughCleanRequests(t *testing.T) {
	handler := Recovery(zap.NewNop(), testErrorHandler())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func newTestValidator(t *testing.T) *auth.JWTValidator {
	t.Helper()
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "test-secret"})
	require.NoError(t, err)
	return validator
}

func TestAuthenticate(t *testing.T) {
	validator := newTestValidator(t)
	token, err := validator.IssueToken("user-1", time.Hour)
	require.NoError(t, err)

	var seenUser string
	handler := Authenticate(validator, testErrorHandler(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = common.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
	assert.Equal(t, "user-1", seenUser)
}

func TestAuthenticate_RejectsExpiredToken(t *testing.T) {
	validator := newTestValidator(t)
	token, err := validator.IssueToken("user-1", -time.Hour)
	require.NoError(t, err)

	handler := Authenticate(validator, testErrorHandler(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// staticVerifier answers ownership checks from a fixed table.
type staticVerifier struct {
	owned map[string]string // resource id -> owner id
	err   error
}

func (v *staticVerifier) Verify(ctx context.Context, userID, resourceID string) (bool, error) {
	if v.err != nil {
		return false, v.err
	}
	owner, ok := v.owned[resourceID]
	return ok && owner == userID, nil
}

// ownershipRequest routes a request through chi with the middleware mounted
// inside the /{id} subrouter, matching the production layout: only there is
// the resolved id visible to the middleware.
func ownershipRequest(t *testing.T, verifier ports.OwnershipVerifier, method, path string, userID string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	terminal := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	router.Route("/examples", func(r chi.Router) {
		r.With(Ownership(verifier, testErrorHandler(), zap.NewNop())).Post("/", terminal)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(Ownership(verifier, testErrorHandler(), zap.NewNop()))
			r.Get("/", terminal)
			r.Put("/", terminal)
			r.Post("/public", terminal)
		})
	})

	req := httptest.NewRequest(method, path, nil)
	if userID != "" {
		req = req.WithContext(common.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestOwnership(t *testing.T) {
	verifier := &staticVerifier{owned: map[string]string{"ex-1": "user-1"}}

	tests := []struct {
		name       string
		method     string
		path       string
		userID     string
		wantStatus int
	}{
		{"owner may mutate", http.MethodPut, "/examples/ex-1", "user-1", http.StatusOK},
		{"non-owner forbidden", http.MethodPut, "/examples/ex-1", "user-2", http.StatusForbidden},
		{"absent resource fails closed", http.MethodPut, "/examples/ghost", "user-1", http.StatusForbidden},
		{"reads skip the check", http.MethodGet, "/examples/ex-1", "user-2", http.StatusOK},
		{"create has no target", http.MethodPost, "/examples", "user-2", http.StatusOK},
		{"public resources skip the check", http.MethodPost, "/examples/ex-1/public", "user-2", http.StatusOK},
		{"unauthenticated mutation rejected", http.MethodPut, "/examples/ex-1", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ownershipRequest(t, verifier, tt.method, tt.path, tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestOwnership_VerifierErrorFailsClosed(t *testing.T) {
	verifier := &staticVerifier{err: context.DeadlineExceeded}
	rec := ownershipRequest(t, verifier, http.MethodPut, "/examples/ex-1", "user-1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// seedExample commits one example so transaction tests have state to mutate.
func seedExample(t *testing.T, store *memory.Store, factory ports.UnitOfWorkFactory, id, owner string) {
	t.Helper()
	ctx := context.Background()
	uow := factory.New()
	require.NoError(t, uow.Begin(ctx))
	model, err := models.NewExample(id, "Widget", "", owner, middlewareTime)
	require.NoError(t, err)
	_, err = uow.Examples().Save(ctx, model)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(ctx))
}

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	store := memory.NewStore()
	bus := &droppingPublisher{}
	factory := memory.NewUnitOfWorkFactory(store, bus, zap.NewNop())

	handler := UnitOfWork(factory, testErrorHandler(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uow, ok := ports.UnitOfWorkFromContext(r.Context())
		require.True(t, ok, "handler must see the request transaction")
		assert.True(t, uow.IsActive())

		model, err := models.NewExample("ex-1", "Widget", "", "user-1", middlewareTime)
		require.NoError(t, err)
		_, err = uow.Examples().Save(r.Context(), model)
		require.NoError(t, err)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ex-1"}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/examples", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"ex-1"}`, rec.Body.String())

	queries := memory.NewQueryRepository(store)
	entity, err := queries.FindByID(context.Background(), "ex-1")
	require.NoError(t, err)
	assert.NotNil(t, entity, "a successful response commits the transaction")
}

func TestUnitOfWork_RollsBackOnErrorStatus(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store, &droppingPublisher{}, zap.NewNop())

	handler := UnitOfWork(factory, testErrorHandler(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uow, _ := ports.UnitOfWorkFromContext(r.Context())
		model, err := models.NewExample("ex-1", "Widget", "", "user-1", middlewareTime)
		require.NoError(t, err)
		_, err = uow.Examples().Save(r.Context(), model)
		require.NoError(t, err)

		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":"EXAMPLE_VALIDATION_FAILED"}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/examples", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "the handler's error response is preserved")
	assert.Contains(t, rec.Body.String(), "EXAMPLE_VALIDATION_FAILED")

	queries := memory.NewQueryRepository(store)
	entity, err := queries.FindByID(context.Background(), "ex-1")
	require.NoError(t, err)
	assert.Nil(t, entity, "an error response rolls the transaction back")
}

func TestUnitOfWork_RollsBackOnPanic(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store, &droppingPublisher{}, zap.NewNop())

	// Composed as in the router: recovery outside, transaction inside.
	handler := Recovery(zap.NewNop(), testErrorHandler())(
		UnitOfWork(factory, testErrorHandler(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uow, _ := ports.UnitOfWorkFromContext(r.Context())
			model, err := models.NewExample("ex-1", "Widget", "", "user-1", middlewareTime)
			require.NoError(t, err)
			_, err = uow.Examples().Save(r.Context(), model)
			require.NoError(t, err)
			panic("mid-transaction failure")
		})),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/examples", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	queries := memory.NewQueryRepository(store)
	entity, err := queries.FindByID(context.Background(), "ex-1")
	require.NoError(t, err)
	assert.Nil(t, entity, "a panic rolls the transaction back before the normalizer responds")
}

func TestUnitOfWork_CommitConflictBecomesErrorResponse(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store, &droppingPublisher{}, zap.NewNop())
	seedExample(t, store, factory, "ex-1", "user-1")

	handler := UnitOfWork(factory, testErrorHandler(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uow, _ := ports.UnitOfWorkFromContext(r.Context())
		model, err := uow.Examples().FindForCommand(r.Context(), "ex-1")
		require.NoError(t, err)
		require.NoError(t, model.UpdateDetails("Mine", "", middlewareTime.Add(time.Minute)))
		require.NoError(t, uow.Examples().Update(r.Context(), model))

		// A concurrent writer commits before this request's transaction does.
		interloper := factory.New()
		require.NoError(t, interloper.Begin(r.Context()))
		other, err := interloper.Examples().FindForCommand(r.Context(), "ex-1")
		require.NoError(t, err)
		require.NoError(t, other.UpdateDetails("Theirs", "", middlewareTime.Add(time.Minute)))
		require.NoError(t, interloper.Examples().Update(r.Context(), other))
		require.NoError(t, interloper.Commit(r.Context()))

		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/examples/ex-1", nil))

	require.Equal(t, http.StatusConflict, rec.Code, "the buffered success response is replaced by the conflict")
	response := decodeError(t, rec.Body.String())
	assert.Equal(t, "VERSION_CONFLICT", response.Code)

	queries := memory.NewQueryRepository(store)
	entity, err := queries.FindByID(context.Background(), "ex-1")
	require.NoError(t, err)
	require.NotNil(t, entity)
	assert.Equal(t, "Theirs", entity.Name, "the losing transaction applies nothing")
}

func TestUnitOfWork_SkipsReads(t *testing.T) {
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), &droppingPublisher{}, zap.NewNop())

	handler := UnitOfWork(factory, testErrorHandler(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ports.UnitOfWorkFromContext(r.Context())
		assert.False(t, ok, "reads run outside any transaction")
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/examples", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPipelineOrder_FailedAuthSkipsTransaction(t *testing.T) {
	factory := &countingFactory{inner: memory.NewUnitOfWorkFactory(memory.NewStore(), &droppingPublisher{}, zap.NewNop())}

	router := chi.NewRouter()
	router.Use(CorrelationID)
	router.Use(Recovery(zap.NewNop(), testErrorHandler()))
	router.Use(Authenticate(newTestValidator(t), testErrorHandler(), zap.NewNop()))
	router.Use(UnitOfWork(factory, testErrorHandler(), zap.NewNop()))
	router.Post("/examples", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/examples", strings.NewReader("{}")))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, factory.created, "no transaction is opened for a rejected request")
	assert.NotEmpty(t, rec.Header().Get(HeaderCorrelationID), "even rejected requests carry a correlation id")
}

// droppingPublisher discards everything, for tests that ignore events.
type droppingPublisher struct{}

func (droppingPublisher) Publish(ctx context.Context, event events.DomainEvent, topic string) error {
	return nil
}

// countingFactory counts how many transactions the pipeline opens.
type countingFactory struct {
	inner   ports.UnitOfWorkFactory
	created int
}

func (f *countingFactory) New() ports.UnitOfWork {
	f.created++
	return f.inner.New()
}
