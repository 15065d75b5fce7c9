// Package server wires the HTTP surface: routing, middleware and handlers.
package server

import (
	"context"
	"fmt"
	"time"

	"mafather/internal/cache"
	"mafather/internal/config"
	"mafather/internal/database"
	"mafather/internal/middleware"
	"mafather/internal/models"
	"mafather/internal/repository"
	"mafather/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "mafather/docs"
)

// Server holds the HTTP application and its dependencies.
type Server struct {
	app    *fiber.App
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client

	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	categoryRepo  repository.CategoryRepository
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	likeRepo      repository.LikeRepository
	chatRepo      repository.ChatRepository
	childRepo     repository.ChildRepository
	devRepo       repository.DevelopmentRepository
	searchLogRepo repository.SearchLogRepository

	authService       *service.AuthService
	postService       *service.PostService
	commentService    *service.CommentService
	engagementService *service.EngagementService
	chatService       *service.ChatService
	devService        *service.DevelopmentService
}

// NewServer creates a server connected to the configured database.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a server with explicit dependencies. Tests use it
// to inject an in-memory database and skip Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:      "Mafather API",
			ErrorHandler: errorHandler,
		}),
		config: cfg,
		db:     db,
		redis:  redisClient,
	}

	s.initDeps()

	middleware.InitMiddleware(cfg)

	s.SetupMiddleware()
	s.SetupRoutes()
	return s
}

// initDeps wires repositories and services off the database handle.
func (s *Server) initDeps() {
	s.userRepo = repository.NewUserRepository(s.db)
	s.sessionRepo = repository.NewSessionRepository(s.db)
	s.categoryRepo = repository.NewCategoryRepository(s.db)
	s.postRepo = repository.NewPostRepository(s.db)
	s.commentRepo = repository.NewCommentRepository(s.db)
	s.likeRepo = repository.NewLikeRepository(s.db)
	s.chatRepo = repository.NewChatRepository(s.db)
	s.childRepo = repository.NewChildRepository(s.db)
	s.devRepo = repository.NewDevelopmentRepository(s.db)
	s.searchLogRepo = repository.NewSearchLogRepository(s.db)

	s.authService = service.NewAuthService(s.userRepo, s.sessionRepo, s.config.JWTSecret)
	s.postService = service.NewPostService(s.postRepo, s.categoryRepo, s.searchLogRepo, s.isStaff)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, s.isStaff)
	s.engagementService = service.NewEngagementService(s.likeRepo, s.postRepo, s.commentRepo)
	s.chatService = service.NewChatService(s.chatRepo)
	s.devService = service.NewDevelopmentService(s.devRepo, s.childRepo)
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// errorHandler is the fiber fallback for errors that escape handlers.
func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(models.ErrorResponse{Error: e.Message})
	}
	return models.RespondWithError(c, models.NewInternalError(err))
}

// SetupMiddleware registers the global middleware chain. Order matters:
// recover first so panics become 500s, request IDs before logging so every
// log line carries one.
func (s *Server) SetupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())

	prom := fiberprometheus.New("mafather-api")
	prom.RegisterAt(s.app, "/metrics")
	s.app.Use(prom.Middleware)

	s.app.Use(helmet.New())
	s.app.Use(middleware.TracingMiddleware())
	s.app.Use(middleware.StructuredLogger())

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	s.app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
	}))
}

// SetupRoutes registers the API surface. Specific routes come before
// parameterized ones so fiber never swallows them into a path parameter.
func (s *Server) SetupRoutes() {
	s.app.Get("/health", s.HealthCheck)
	s.app.Get("/health/live", s.LivenessCheck)
	s.app.Get("/health/ready", s.ReadinessCheck)
	s.app.Get("/monitor", monitor.New())
	s.app.Get("/swagger/*", swagger.HandlerDefault)

	auth := s.app.Group("/auth")
	auth.Post("/signup/", middleware.RateLimit(s.redis, 5, time.Minute, "signup"), s.Signup)
	auth.Post("/login/", middleware.RateLimit(s.redis, 10, time.Minute, "login"), s.Login)
	auth.Post("/logout/", middleware.AuthRequired, s.Logout)

	users := s.app.Group("/users", middleware.AuthRequired)
	users.Get("/me/", s.GetMe)
	users.Put("/me/", s.UpdateMe)
	users.Post("/me/children/", s.CreateChild)
	users.Get("/me/children/", s.ListChildren)
	users.Delete("/me/children/:child_id/", s.DeleteChild)

	s.app.Get("/categories/", s.ListCategories)

	posts := s.app.Group("/posts")
	posts.Get("/", middleware.OptionalAuth, s.ListPosts)
	posts.Get("/search/", middleware.OptionalAuth, s.SearchPosts)
	posts.Post("/create/", middleware.AuthRequired,
		middleware.RateLimit(s.redis, 10, time.Minute, "post_create"), s.CreatePost)
	posts.Get("/:post_id/", middleware.OptionalAuth, s.GetPost)
	posts.Put("/:post_id/", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:post_id/", middleware.AuthRequired, s.DeletePost)
	posts.Post("/:post_id/like/", middleware.AuthRequired,
		middleware.RateLimit(s.redis, 30, time.Minute, "like"), s.TogglePostLike)
	posts.Post("/:post_id/solve/", middleware.AuthRequired, s.MarkPostSolved)

	posts.Get("/:post_id/comments/", s.ListComments)
	posts.Post("/:post_id/comment/", middleware.AuthRequired,
		middleware.RateLimit(s.redis, 20, time.Minute, "comment"), s.CreateComment)
	posts.Get("/:post_id/comment/:comment_id/", s.GetComment)
	posts.Post("/:post_id/comment/:comment_id/like/", middleware.AuthRequired,
		middleware.RateLimit(s.redis, 30, time.Minute, "like"), s.ToggleCommentLike)
	posts.Post("/:post_id/comment/:comment_id/reply/", middleware.AuthRequired,
		middleware.RateLimit(s.redis, 20, time.Minute, "comment"), s.ReplyToComment)
	posts.Put("/:post_id/comment/:comment_id/edit/", middleware.AuthRequired, s.UpdateComment)
	posts.Delete("/:post_id/comment/:comment_id/delete/", middleware.AuthRequired, s.DeleteComment)

	chat := s.app.Group("/chat", middleware.AuthRequired)
	chat.Post("/sessions/", s.StartChatSession)
	chat.Get("/sessions/", s.ListChatSessions)
	chat.Get("/sessions/stats/", s.ChatStats)
	chat.Get("/sessions/:session_id/", s.GetChatSession)
	chat.Delete("/sessions/:session_id/", s.DeleteChatSession)
	chat.Post("/sessions/:session_id/messages/",
		middleware.RateLimit(s.redis, 30, time.Minute, "chat_message"), s.AppendChatMessage)
	chat.Post("/sessions/:session_id/complete/", s.CompleteChatSession)

	s.app.Get("/milestones/", s.ListMilestones)

	children := s.app.Group("/children", middleware.AuthRequired)
	children.Get("/:child_id/milestones/", s.ListChildMilestones)
	children.Post("/:child_id/milestones/:milestone_id/achieve/", s.AchieveMilestone)
	children.Delete("/:child_id/milestones/:milestone_id/achieve/", s.UnachieveMilestone)

	records := s.app.Group("/records", middleware.AuthRequired)
	records.Post("/create/", s.CreateRecord)
	records.Get("/", s.ListRecords)
	records.Get("/:record_id/", s.GetRecord)
	records.Put("/:record_id/", s.UpdateRecord)
	records.Delete("/:record_id/", s.DeleteRecord)
}

// isStaff checks the staff flag on the user row. Services consult it for
// moderation paths.
func (s *Server) isStaff(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsStaff, nil
}

// HealthCheck reports the health of the service and its dependencies.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		checks["database"] = "unhealthy"
		healthy = false
	} else {
		checks["database"] = "healthy"
	}

	if s.redis != nil {
		if err := s.redis.Ping(c.Context()).Err(); err != nil {
			checks["redis"] = "unhealthy"
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "disabled"
	}

	status := fiber.StatusOK
	state := "healthy"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		state = "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": state,
		"checks": checks,
	})
}

// LivenessCheck reports that the process is up. It never touches
// dependencies so a database outage cannot get the pod restarted.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessCheck reports whether the service can take traffic.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
