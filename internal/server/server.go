// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"togather/internal/cache"
	"togather/internal/config"
	"togather/internal/database"
	"togather/internal/middleware"
	"togather/internal/models"
	"togather/internal/repository"
	"togather/internal/security"
	"togather/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userService        *service.UserService
	postService        *service.PostService
	participantService *service.ParticipantService
	commentService     *service.CommentService
	chatService        *service.ChatService
	messageService     *service.MessageService
}

// NewServer connects to the database and Redis described by cfg, brings the
// schema up to date and builds a server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.ApplySchema(context.Background(), db, cfg); err != nil {
		return nil, fmt.Errorf("schema apply failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case rate limiting fails open.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database handle is required")
	}

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL())
	middleware.InitMiddleware(tokens)
	hasher := security.NewPasswordHasher(cfg.PasswordHashCost)
	tx := database.NewTransactor(db)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("togather-api"),

		userService:        service.NewUserService(userRepo, tx, hasher, tokens),
		postService:        service.NewPostService(postRepo, userRepo, participantRepo, commentRepo, tx),
		participantService: service.NewParticipantService(participantRepo, postRepo, userRepo, tx),
		commentService:     service.NewCommentService(commentRepo, participantRepo, postRepo, userRepo, cfg.CommentPageSize),
		chatService:        service.NewChatService(chatRepo, userRepo, tx),
		messageService:     service.NewMessageService(messageRepo, chatRepo, userRepo),
	}, nil
}

// errorHandler answers errors that escape a handler, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled request error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, err)
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "togather API",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	auth := middleware.AuthRequired

	users := api.Group("/users")
	users.Post("/register", s.Register)
	users.Post("/login", middleware.RateLimit(
		s.redis, s.config.LoginRateLimit, time.Minute, "login"), s.Login)
	users.Get("/me", auth, s.GetMe)
	users.Patch("/me", auth, s.UpdateMe)
	users.Delete("/me", auth, s.DeleteMe)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Post("/", auth, s.CreatePost)
	// Define specific /:postId/:resource routes BEFORE generic /:postId route
	posts.Post("/:postId/participants", auth, s.ApplyToPost)
	posts.Get("/:postId/participants", auth, s.ListParticipants)
	posts.Get("/:postId/comments", auth, s.ListComments)
	posts.Post("/:postId/comments", auth, s.CreateComment)
	posts.Patch("/:postId/comments/:commentId", auth, s.UpdateComment)
	posts.Get("/:postId", s.GetPost)
	posts.Patch("/:postId", auth, s.UpdatePost)
	posts.Delete("/:postId", auth, s.DeletePost)

	api.Patch("/participants/:participantId", auth, s.DecideParticipant)
	api.Delete("/comments/:commentId", auth, s.DeleteComment)

	chats := api.Group("/chats", auth)
	chats.Post("/", s.OpenChat)
	chats.Get("/", s.ListChats)
	chats.Post("/:chatId/messages", s.CreateMessage)
	chats.Get("/:chatId/messages", s.ListMessages)
}

// LivenessCheck handles GET /health/live
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database answers. A missing Redis is
// reported as disabled and does not fail the check.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.App()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
