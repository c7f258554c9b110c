// Package rest assembles the HTTP surface of the social graph API.
package rest

import (
	"net/http"

	"socialgraph/domain/social"
	"socialgraph/interfaces/http/rest/handlers"
	"socialgraph/interfaces/http/rest/middleware"
	"socialgraph/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router.
type Router struct {
	store      social.Store
	logger     *zap.Logger
	metrics    *observability.Collector
	enableCORS bool
}

// NewRouter creates a router over the given store. metrics may be nil to
// disable the collector and the /metrics endpoint.
func NewRouter(store social.Store, logger *zap.Logger, metrics *observability.Collector, enableCORS bool) *Router {
	return &Router{
		store:      store,
		logger:     logger,
		metrics:    metrics,
		enableCORS: enableCORS,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/", rt.welcome)
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	userHandler := handlers.NewUserHandler(rt.store, rt.logger, rt.metrics)
	router.Post("/users", userHandler.CreateUser)
	router.Get("/users/{username}", userHandler.GetUser)

	followHandler := handlers.NewFollowHandler(rt.store, rt.logger, rt.metrics)
	router.Post("/follow", followHandler.Follow)
	router.Post("/unfollow", followHandler.Unfollow)

	postHandler := handlers.NewPostHandler(rt.store, rt.logger, rt.metrics)
	router.Post("/posts", postHandler.CreatePost)
	router.Get("/posts/{postID}", postHandler.GetPost)
	router.Post("/posts/{postID}/like", postHandler.LikePost)

	feedHandler := handlers.NewFeedHandler(rt.store, rt.logger)
	router.Get("/feed/{username}", feedHandler.GetFeed)

	return router
}

func (rt *Router) welcome(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Welcome to the social graph API"}`))
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
