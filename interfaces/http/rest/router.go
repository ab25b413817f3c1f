package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/OddlyDoddly/oddly-infrastructures/infrastructure/di"
	"github.com/OddlyDoddly/oddly-infrastructures/interfaces/http/rest/handlers"
	"github.com/OddlyDoddly/oddly-infrastructures/interfaces/http/rest/middleware"
	"github.com/OddlyDoddly/oddly-infrastructures/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	validator *auth.JWTValidator
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container, validator *auth.JWTValidator) *Router {
	return &Router{
		container: container,
		validator: validator,
	}
}

// Setup configures all routes and middleware. Middleware order matters:
// correlation first so every later stage can tag its output, then error
// normalization, logging, and CORS; authentication, ownership, and
// transaction scoping apply only inside the API route group.
func (rt *Router) Setup() http.Handler {
	c := rt.container
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.CorrelationID)
	router.Use(middleware.Recovery(c.Logger, c.ErrorHandler))
	router.Use(middleware.Logger(c.Logger))

	if c.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID"},
			ExposedHeaders:   []string{"X-Correlation-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes. Ownership and transaction scoping mount inside the
	// /{id} subrouter so the resolved id is visible to them.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, c.ErrorHandler, c.Logger))

		ownership := middleware.Ownership(c.Ownership, c.ErrorHandler, c.Logger)
		unitOfWork := middleware.UnitOfWork(c.UoWFactory, c.ErrorHandler, c.Logger)

		r.Route("/examples", func(r chi.Router) {
			exampleHandler := handlers.NewExampleHandler(c.ExampleService, c.ErrorHandler, c.Logger)
			r.With(unitOfWork).Post("/", exampleHandler.Create)
			r.Get("/", exampleHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(ownership)
				r.Use(unitOfWork)
				r.Get("/", exampleHandler.Get)
				r.Put("/", exampleHandler.Update)
				r.Delete("/", exampleHandler.Delete)
				r.Post("/activate", exampleHandler.Activate)
				r.Post("/deactivate", exampleHandler.Deactivate)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
