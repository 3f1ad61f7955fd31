package rest

import (
	"net/http"

	"communityhub/infrastructure/di"
	"communityhub/interfaces/http/rest/handlers"
	"communityhub/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{container: container}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	c := rt.container

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(c.Logger))
	if c.Metrics != nil {
		router.Use(middleware.Metrics(c.Metrics))
	}

	if c.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	authenticate := middleware.Authenticate(c.AuthService.Validator(), c.Logger)

	router.Route("/api/v1", func(r chi.Router) {
		// Authentication endpoints
		authHandler := handlers.NewAuthHandler(c.AuthService, c.ErrorHandler, c.Logger)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.With(authenticate).Get("/validate", authHandler.Validate)
		})

		// Category registry endpoint
		categoryHandler := handlers.NewCategoryHandler(c.Registry)
		r.Get("/categories", categoryHandler.ListAll)

		// One route subtree per content type
		for contentType, service := range c.Services {
			handler := handlers.NewContentHandler(service, c.ErrorHandler, c.Logger)
			r.Route("/"+contentType, func(r chi.Router) {
				r.Get("/", handler.List)
				r.Get("/recent", handler.Recent)
				r.Get("/categories", handler.Categories)
				r.Get("/{id}", handler.Get)

				// Mutations require an authenticated admin
				r.Group(func(r chi.Router) {
					r.Use(authenticate)
					r.Use(middleware.RequireAdmin())
					r.Post("/", handler.Create)
					r.Put("/{id}", handler.Update)
					r.Delete("/{id}", handler.Delete)
					r.Post("/upload-url", handler.UploadURL)
				})
			})
		}
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
