package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/swapsouq/messaging/internal/api/middleware"
	"github.com/swapsouq/messaging/internal/config"
	"github.com/swapsouq/messaging/internal/handlers"
	"github.com/swapsouq/messaging/internal/media"
	"github.com/swapsouq/messaging/internal/store"
)

// NewRouter creates and configures the HTTP router. redisStore may be nil;
// rate limiting, unread caching and search degrade without it.
func NewRouter(logger zerolog.Logger, cfg *config.Config, db store.DataStore, redisStore *store.RedisStore, uploader media.Uploader) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	// Media arrives base64-encoded inside JSON, so allow the upload cap
	// plus encoding overhead.
	r.Use(middleware.MaxBodySize(int64(cfg.MaxUploadBytes)*4/3 + 4096))
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting
	if redisStore != nil {
		limiter := middleware.NewRateLimiter(redisStore.Client(), logger, middleware.RateLimiterConfig{
			Whitelist:        cfg.RateLimitWhitelist,
			AutoBlockEnabled: cfg.AutoBlockEnabled,
		})
		r.Use(limiter.Middleware)
	}

	// CORS - the web and mobile clients call from anywhere
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Souq-User"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create handler and identity middleware. The cache interface stays nil
	// when Redis is absent; a typed nil pointer would defeat the handlers'
	// nil checks.
	var cache handlers.Cache
	if redisStore != nil {
		cache = redisStore
	}
	h := handlers.NewHandler(db, cache, uploader, logger)
	identity := middleware.NewIdentityMiddleware(db)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Stored media (uploaded message attachments)
	r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))

	// Public routes (no identity required)
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)
	r.Post("/users", h.CreateUser)
	r.Get("/users/{id}", h.GetUser)
	r.Get("/listings/{id}", h.GetListing)

	// Viewer routes (require the X-Souq-User identity header)
	r.Group(func(r chi.Router) {
		r.Use(identity.RequireUser)

		r.Post("/listings", h.CreateListing)
		r.Get("/inbox", h.Inbox)
		r.Get("/conversations/{partnerID}/{listingID}", h.Conversation)
		r.Post("/conversations/{partnerID}/{listingID}/messages", h.SendMessage)
		r.Get("/unread", h.Unread)
		r.Get("/find", h.Find)
	})

	return r
}
