package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookbay/marketplace/internal/api/handler"
	"github.com/bookbay/marketplace/internal/api/middleware"
	"github.com/bookbay/marketplace/internal/core/domain"
	"github.com/bookbay/marketplace/internal/core/service"
	"github.com/bookbay/marketplace/internal/infrastructure/config"
	mongodb "github.com/bookbay/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/bookbay/marketplace/internal/infrastructure/db/redis"
	"github.com/bookbay/marketplace/internal/infrastructure/http/handlers"
	"github.com/bookbay/marketplace/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The dispatcher is returned so the caller controls its worker lifecycle.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("bookstore"))

	// --- Dependencies ---
	cache := redisdb.NewCatalogCache(rdb, cfg.Redis.CacheTTL, log)

	auditRepo := mongodb.NewAuditRepository(db)
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(0, auditService, log)

	authRepo := mongodb.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, cfg.SecretKey, cfg.TokenTTL)
	authHandler := handler.NewAuthHandler(authService)

	bookRepo := mongodb.NewBookRepository(db)
	bookService := service.NewBookService(bookRepo, cache, dispatcher, log)
	bookHandler := handler.NewBookHandler(bookService)

	importService := service.NewImportService(bookRepo, cache, dispatcher, log)
	importHandler := handler.NewImportHandler(importService, cfg.UploadDir, log)

	authRequired := middleware.Auth(cfg.SecretKey)
	sellerOnly := middleware.RBAC(string(domain.RoleSeller))

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Book routes ---
	books := e.Group("/books", authRequired)
	books.GET("", bookHandler.List)
	books.POST("/upload", importHandler.Upload, sellerOnly)
	books.GET("/:id", bookHandler.Get)
	books.PUT("/:id", bookHandler.Update, sellerOnly)
	books.DELETE("/:id", bookHandler.Delete, sellerOnly)

	// --- Operational routes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, dispatcher
}
