package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/handlers"
	"pdv_desk/internal/middleware"
	"pdv_desk/internal/repositories"
	"pdv_desk/internal/services"
	"pdv_desk/pkg/utils"
)

// Options carries the settings the Remote API needs from configuration.
type Options struct {
	JWTSecret      string
	JWTExpiration  time.Duration
	AllowedOrigins []string
}

// New builds a gin engine with the standard middleware chain and all routes.
func New(db *sqlx.DB, opts Options) *gin.Engine {
	handlers.RegisterValidators()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())
	engine.Use(gin.Recovery())
	engine.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	Setup(engine, db, opts)
	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sqlx.DB, opts Options) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, db, opts.JWTSecret, opts.JWTExpiration)
	productService := services.NewProductService(productRepo, db)
	saleService := services.NewSaleService(saleRepo, productRepo, db)
	customerService := services.NewCustomerService(customerRepo, db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	saleHandler := handlers.NewSaleHandler(saleService)
	customerHandler := handlers.NewCustomerHandler(customerService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	SetupPublicAuthRoutes(engine.Group("/auth"), authHandler)

	authenticated := engine.Group("")
	authenticated.Use(middleware.AuthMiddleware(opts.JWTSecret))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupSaleRoutes(authenticated, saleHandler)
		SetupCustomerRoutes(authenticated, customerHandler)
	}
}
