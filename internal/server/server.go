package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"bookstore-api/internal/config"
	"bookstore-api/internal/graph"
	custommiddleware "bookstore-api/internal/middleware"
	"bookstore-api/internal/repository"
	"bookstore-api/internal/service"
	"bookstore-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) (*Server, error) {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, !cfg.IsProduction()))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.Auth.TokenSecret, cfg.Auth.TokenExpiry)
	userService := service.NewUserService(userRepo, authService)
	bookService := service.NewBookService(bookRepo, categoryRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, bookRepo)

	// Attach the caller's identity (if any) before resolvers run
	router.Use(custommiddleware.IdentityMiddleware(authService, logger))

	schema, err := graph.NewSchema(&graph.Resolver{
		Users:      userService,
		Books:      bookService,
		Categories: categoryService,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}

	graphqlHandler := transport.NewGraphQLHandler(schema, logger)

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Route index
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{
			"graphql": "/graphql",
			"health":  "/health",
			"uploads": "/uploads",
		})
	})

	// GraphQL endpoint, rate limited when enabled
	router.Group(func(gr chi.Router) {
		if cfg.RateLimit.Enabled {
			gr.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.RequestsPerWindow,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "ratelimit:graphql",
			}, logger))
		}
		gr.Handle("/graphql", graphqlHandler)
	})

	// Static uploads (cover images, avatars)
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Server.UploadsDir)))
	router.Get("/uploads/*", fileServer.ServeHTTP)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
