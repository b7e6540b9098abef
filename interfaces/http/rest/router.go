package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commandbus "github.com/olinekleiven/snarveg/application/commands/bus"
	querybus "github.com/olinekleiven/snarveg/application/queries/bus"
	"github.com/olinekleiven/snarveg/application/services"
	"github.com/olinekleiven/snarveg/infrastructure/config"
	"github.com/olinekleiven/snarveg/interfaces/http/rest/handlers"
	"github.com/olinekleiven/snarveg/interfaces/http/rest/middleware"
	"github.com/olinekleiven/snarveg/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg        *config.Config
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	sessions   *services.SessionService
	validator  *auth.JWTValidator
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	commandBus *commandbus.CommandBus,
	queryBus *querybus.QueryBus,
	sessions *services.SessionService,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:        cfg,
		commandBus: commandBus,
		queryBus:   queryBus,
		sessions:   sessions,
		validator:  validator,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.snarveg.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health and operational endpoints
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler())
	}

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.logger))

		wheelHandler := handlers.NewWheelHandler(rt.commandBus, rt.queryBus, rt.sessions, rt.logger)
		gestureHandler := handlers.NewGestureHandler(rt.sessions, rt.queryBus, rt.logger)
		routeHandler := handlers.NewRouteHandler(rt.commandBus, rt.queryBus, rt.logger)

		r.Route("/session", func(r chi.Router) {
			r.Post("/", wheelHandler.StartSession)
			r.Delete("/", wheelHandler.EndSession)
		})

		r.Route("/wheel", func(r chi.Router) {
			r.Get("/", wheelHandler.GetWheel)

			r.Route("/destinations", func(r chi.Router) {
				r.Post("/", wheelHandler.AddPlaceholder)
				r.Post("/swap", wheelHandler.SwapDestinations)
				r.Put("/{destinationID}", wheelHandler.FillDestination)
				r.Patch("/{destinationID}", wheelHandler.UpdateDestination)
				r.Post("/{destinationID}/clear", wheelHandler.ClearDestination)
				r.Delete("/{destinationID}", wheelHandler.DeleteDestination)
			})
		})

		r.Route("/gesture", func(r chi.Router) {
			r.Post("/pointer", gestureHandler.PointerEvent)
			r.Post("/edit-mode", gestureHandler.SetEditMode)
			r.Get("/feed", gestureHandler.GetFeed)
		})

		r.Route("/route", func(r chi.Router) {
			r.Get("/", routeHandler.GetRoute)
			r.Delete("/", routeHandler.ClearRoute)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", wheelHandler.GetPreferences)
			r.Put("/", wheelHandler.SetPreferences)
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
