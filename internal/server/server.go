package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/api"
	"github.com/pageza/pantry/backend/internal/middleware"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/storage"
)

// Dependencies are the long-lived resources the server is built from.
// Redis is optional; without it recipe writes are not rate limited.
type Dependencies struct {
	DB     *gorm.DB
	Images storage.Store
	Redis  *redis.Client
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New creates a new server instance with every route registered
func New(cfg *config.Config, deps Dependencies, logger *zap.Logger) *Server {
	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger.Named("http")),
		middleware.CORS(cfg.CORSOrigins),
		middleware.ErrorHandler(logger),
	)

	if local, ok := deps.Images.(*storage.LocalStore); ok {
		router.Static(cfg.MediaURL, local.Root())
	}

	var writeLimiter *middleware.RateLimiter
	if deps.Redis != nil {
		writeLimiter = middleware.NewRecipeWriteRateLimiter(deps.Redis, cfg.RateLimitPerHour, logger)
	}

	authService := service.NewAuthService(deps.DB, cfg.JWTSecret, cfg.TokenTTL, logger)
	api.RegisterRoutes(router, deps.DB, api.NewServices(deps.DB, authService, deps.Images, logger), writeLimiter)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
