package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/emilythestrangee/social-network/backend/internal/apperrors"
	"github.com/emilythestrangee/social-network/backend/internal/auth"
	"github.com/emilythestrangee/social-network/backend/internal/config"
	"github.com/emilythestrangee/social-network/backend/internal/database"
	"github.com/emilythestrangee/social-network/backend/internal/handlers"
	"github.com/emilythestrangee/social-network/backend/internal/middleware"
	"github.com/emilythestrangee/social-network/backend/internal/repository"
	"github.com/emilythestrangee/social-network/backend/internal/response"
	"github.com/emilythestrangee/social-network/backend/internal/services"
)

type Server struct {
	cfg       *config.Config
	db        database.Service
	log       *slog.Logger
	handler   *handlers.Handler
	identity  auth.IdentityProvider
	transport auth.CookieTransport
}

// New wires the store, services and handlers on top of an open database.
func New(cfg *config.Config, db database.Service, log *slog.Logger) (*Server, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	store := repository.NewGormStore(db.GetDB())
	tokens := auth.NewTokenStrategy(cfg.Auth.Secret, cfg.Auth.TokenLifetime)
	transport := auth.CookieTransport{
		Name:   cfg.Auth.CookieName,
		MaxAge: int(cfg.Auth.TokenLifetime.Seconds()),
		Secure: cfg.Auth.CookieSecure,
	}

	users := services.NewUserService(store, tokens)
	reactions := services.NewReactionService(store)
	posts := services.NewPostService(store, reactions)

	return &Server{
		cfg:       cfg,
		db:        db,
		log:       log,
		handler:   handlers.NewHandler(users, posts, reactions, transport),
		identity:  users,
		transport: transport,
	}, nil
}

// NewServer creates and configures the HTTP server
func NewServer(cfg *config.Config, db database.Service, log *slog.Logger) (*http.Server, error) {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	s, err := New(cfg, db, log)
	if err != nil {
		return nil, err
	}

	// Spans are no-ops until a tracer provider is registered.
	handler := otelhttp.NewHandler(s.RegisterRoutes(), cfg.ServiceName)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("🚀 Server configured", "port", cfg.Port, "env", cfg.Env)

	return server, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(s.log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, apperrors.StoreUnavailable(fmt.Errorf("panic: %v", recovered)))
	}))

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.health)

	requireAuth := middleware.AuthMiddleware(s.identity, s.transport)

	// Auth routes
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.handler.Auth.Register)
		authGroup.POST("/jwt/login", s.handler.Auth.Login)
		authGroup.POST("/jwt/logout", requireAuth, s.handler.Auth.Logout)
	}

	r.GET("/users/me", requireAuth, s.handler.User.GetMe)

	posts := r.Group("/posts")
	{
		// Public reads
		posts.GET("", s.handler.Post.GetPosts)
		posts.GET("/:id", s.handler.Post.GetPost)
		posts.GET("/:id/reactions", s.handler.Reaction.GetReactions)

		// Protected routes (authentication required)
		protected := posts.Group("")
		protected.Use(requireAuth)
		{
			protected.POST("", s.handler.Post.CreatePost)
			protected.PUT("/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/:id", s.handler.Post.DeletePost)
			protected.PATCH("/:id/like", s.handler.Reaction.LikePost)
			protected.PATCH("/:id/dislike", s.handler.Reaction.DislikePost)
			protected.GET("/:id/reaction", s.handler.Reaction.GetMyReaction)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	stats := s.db.Health(c.Request.Context())
	if stats["status"] != "up" {
		c.JSON(http.StatusServiceUnavailable, stats)
		return
	}
	c.JSON(http.StatusOK, stats)
}
