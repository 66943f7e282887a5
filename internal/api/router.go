package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhub/pet-platform/internal/api/handler"
	"github.com/pawhub/pet-platform/internal/api/middleware"
	"github.com/pawhub/pet-platform/internal/core/service"
	mongodb "github.com/pawhub/pet-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/pawhub/pet-platform/internal/infrastructure/db/redis"
)

// RouterConfig carries the knobs the router needs beyond its connections.
type RouterConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	ProfileCacheTTL time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
// The recorder is the async activity dispatcher; it must already be started.
func NewRouter(db *mongo.Database, rdb *redis.Client, recorder service.ActivityRecorder, cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("petplatform"))

	// --- Repositories ---
	petRepo := mongodb.NewPetRepository(db)
	memberRepo := mongodb.NewMembershipRepository(db)
	ownerRepo := mongodb.NewPlatformOwnerRepository(db)
	vaccineRepo := mongodb.NewVaccineRepository(db)
	attachRepo := mongodb.NewAttachmentRepository(db)
	activityRepo := mongodb.NewActivityRepository(db)
	authRepo := mongodb.NewAuthRepository(db)

	// --- Services ---
	access := service.NewAccessService(petRepo, memberRepo, log)
	alloc := service.NewSlugAllocator(petRepo)
	cache := redisdb.NewProfileCache(rdb, cfg.ProfileCacheTTL)

	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL)
	petService := service.NewPetService(petRepo, memberRepo, access, alloc, activityRepo, recorder, cache, log)
	memberService := service.NewMembershipService(petRepo, memberRepo, access, recorder, log)
	vaccineService := service.NewVaccineService(petRepo, vaccineRepo, access, recorder, log)
	attachService := service.NewAttachmentService(petRepo, attachRepo, access, recorder, log)
	adminService := service.NewAdminService(petRepo, ownerRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	petHandler := handler.NewPetHandler(petService)
	publicHandler := handler.NewPublicHandler(petService)
	memberHandler := handler.NewMembershipHandler(memberService)
	vaccineHandler := handler.NewVaccineHandler(vaccineService)
	attachHandler := handler.NewAttachmentHandler(attachService)
	adminHandler := handler.NewAdminHandler(adminService)

	authMW := middleware.Auth(cfg.JWTSecret)
	ownerMW := middleware.PlatformOwner(ownerRepo)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Public profile (no auth) ---
	e.GET("/v1/p/:slug", publicHandler.Profile)

	// --- Pet routes (JWT) ---
	pets := e.Group("/v1/pets", authMW)
	pets.POST("", petHandler.Create)
	pets.GET("", petHandler.List)
	pets.GET("/:id", petHandler.Get)
	pets.PATCH("/:id", petHandler.Update)
	pets.DELETE("/:id", petHandler.Archive)
	pets.GET("/:id/activity", petHandler.Activity)

	pets.POST("/:id/members", memberHandler.Share)
	pets.GET("/:id/members", memberHandler.List)
	pets.PATCH("/:id/members/:userID", memberHandler.UpdateRole)
	pets.DELETE("/:id/members/:userID", memberHandler.Revoke)

	pets.POST("/:id/vaccines", vaccineHandler.Add)
	pets.GET("/:id/vaccines", vaccineHandler.List)
	pets.PATCH("/:id/vaccines/:recordID", vaccineHandler.Update)
	pets.DELETE("/:id/vaccines/:recordID", vaccineHandler.Remove)

	pets.POST("/:id/files", attachHandler.Register)
	pets.GET("/:id/files", attachHandler.List)
	pets.DELETE("/:id/files/:fileID", attachHandler.Remove)

	// --- Admin routes (JWT + platform owner) ---
	admin := e.Group("/v1/admin", authMW, ownerMW)
	admin.GET("/pets", adminHandler.ListPets)
	admin.POST("/platform-owners", adminHandler.GrantOwner)
	admin.GET("/platform-owners", adminHandler.ListOwners)
	admin.DELETE("/platform-owners/:userID", adminHandler.RevokeOwner)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
