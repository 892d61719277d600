package router

import (
	"log"
	"os"
	"time"

	"github.com/campusflow/api/database"
	"github.com/campusflow/api/handlers"
	auth_handlers "github.com/campusflow/api/handlers/auth"
	event_handlers "github.com/campusflow/api/handlers/event"
	platform_handlers "github.com/campusflow/api/handlers/platform"
	user_handlers "github.com/campusflow/api/handlers/user"
	"github.com/campusflow/api/model"
	"github.com/campusflow/api/registry"
	"github.com/campusflow/api/services"
	"github.com/campusflow/api/services/gemini"
	"github.com/campusflow/api/services/spaces"
	"github.com/campusflow/api/utils/auth"
	"github.com/campusflow/api/utils/cache"
	"github.com/campusflow/api/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires the full HTTP surface onto the Fiber app
func SetupRoutes(app *fiber.App, store database.Storage) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "campusflow-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	reg := registry.New()

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
	})

	storage, err := spaces.NewClient(spaces.Config{
		AccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SecretKey: os.Getenv("SPACES_SECRET_KEY"),
		Bucket:    os.Getenv("SPACES_BUCKET"),
		Region:    os.Getenv("SPACES_REGION"),
		Endpoint:  os.Getenv("SPACES_ENDPOINT"),
		CDNURL:    os.Getenv("SPACES_CDN_URL"),
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize object storage: %v. Uploads will be disabled.", err)
	}

	eventService := services.NewEventService(db, reg)
	composerService := services.NewComposerService(db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, storage)
	eventHandler := event_handlers.NewEventHandler(db, eventService, composerService, storage)
	platformHandler := platform_handlers.NewPlatformHandler(db, reg, geminiClient)
	userHandler := user_handlers.NewUserHandler(db)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:5173"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.Ping)

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)
	authGroup.Patch("/profile", authMiddleware.Required(), authHandler.UpdateProfile)
	authGroup.Post("/profile/avatar", authMiddleware.Required(), authHandler.UploadAvatar)

	organizerOrAdmin := authMiddleware.RequireRole(model.RoleOrganizer, model.RoleAdmin)

	// Event routes
	events := api.Group("/events")
	events.Get("/", authMiddleware.Optional(), eventHandler.List)
	events.Post("/", organizerOrAdmin, eventHandler.Create)
	events.Get("/:slug", authMiddleware.Optional(), eventHandler.Get)
	events.Patch("/:slug", authMiddleware.Required(), eventHandler.Update)
	events.Post("/:slug/cover", authMiddleware.Required(), eventHandler.UploadCover)

	// Registration lifecycle
	events.Post("/:slug/register", authMiddleware.Required(), eventHandler.Register)
	events.Delete("/:slug/register", authMiddleware.Required(), eventHandler.CancelRegistration)
	events.Get("/:slug/registrations", authMiddleware.Required(), eventHandler.ListRegistrations)
	events.Post("/:slug/checkin", authMiddleware.Required(), eventHandler.CheckIn)

	// Per-event content modules
	events.Post("/:slug/announcements", authMiddleware.Required(), eventHandler.CreateAnnouncement)
	events.Post("/:slug/schedule", authMiddleware.Required(), eventHandler.CreateScheduleItem)
	events.Post("/:slug/teams", authMiddleware.Required(), eventHandler.CreateTeam)
	events.Post("/:slug/teams/:teamId/join", authMiddleware.Required(), eventHandler.JoinTeam)
	events.Post("/:slug/polls", authMiddleware.Required(), eventHandler.CreatePoll)
	events.Post("/:slug/polls/:pollId/vote", authMiddleware.Required(), eventHandler.Vote)
	events.Post("/:slug/polls/:pollId/close", authMiddleware.Required(), eventHandler.ClosePoll)
	events.Post("/:slug/roles", authMiddleware.Required(), eventHandler.AssignRole)

	// Platform routes
	platform := api.Group("/platform")
	platform.Get("/modules", platformHandler.Modules)
	platform.Get("/themes", platformHandler.Themes)
	platform.Get("/stats", authMiddleware.RequireRole(model.RoleAdmin), platformHandler.Stats)
	platform.Get("/recommendations/:userId", authMiddleware.Required(), platformHandler.Recommendations)
	platform.Post("/generate-theme", organizerOrAdmin, platformHandler.GenerateTheme)

	// User routes
	users := api.Group("/users", authMiddleware.Required())
	users.Get("/", authMiddleware.RequireRole(model.RoleAdmin), userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Get("/:id/registrations", userHandler.Registrations)
	users.Get("/:id/participation", userHandler.Participation)
}
