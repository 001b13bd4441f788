package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/api/handlers"
	"github.com/brandforge/pipeline/internal/api/middleware"
	"github.com/brandforge/pipeline/internal/auth"
	"github.com/brandforge/pipeline/internal/runs"
	"github.com/brandforge/pipeline/internal/stylescape"
)

// ServerConfig holds everything NewServer needs to wire the HTTP surface.
type ServerConfig struct {
	Environment        string
	Logger             *zap.Logger
	RunManager         *runs.Manager
	Stylescape         *stylescape.Compositor
	Validator          *auth.Validator
	RateLimiter        *auth.RateLimiter
	QuotaStore         auth.QuotaStore
	OutputRoot         string
	MockupMetadataPath string
	CORSOrigin         string
}

// Server is the optional HTTP surface around the core pipeline library
// (§12.1). The core library has no dependency on it.
type Server struct {
	config *ServerConfig
	router *gin.Engine
}

// NewServer builds a Server with every route wired.
func NewServer(config *ServerConfig) *Server {
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(config.Logger))
	router.Use(middleware.MaxRequestBodySize(10 << 20))

	corsConfig := cors.Config{
		AllowOrigins:     []string{config.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	s := &Server{config: config, router: router}
	s.setupRoutes()
	return s
}

// Router returns the underlying gin.Engine, e.g. for http.Server.Handler.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// @title			Brand Identity Generator API
// @version		1.0
// @description	Multi-stage AI pipeline API turning a brand brief into four strategically distinct identity directions, then a full production asset kit for the chosen one.
// @BasePath		/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in				header
// @name			Authorization
// @description	JWT Bearer token authentication. Format: "Bearer {token}"
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.config.Environment)
	s.router.GET("/healthz", healthHandler.Check)

	if s.config.Environment != "production" {
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	runsHandler := handlers.NewRunsHandler(s.config.RunManager, s.config.Stylescape, s.config.OutputRoot, s.config.MockupMetadataPath, s.config.Logger)
	eventsHandler := handlers.NewEventsHandler(s.config.RunManager, s.config.Logger)

	v1 := s.router.Group("/api/v1")
	v1.Use(auth.RequireAuth(s.config.Validator, s.config.Logger))
	v1.Use(auth.RateLimit(s.config.RateLimiter, s.config.Logger))

	runGroup := v1.Group("/runs")
	{
		runGroup.POST("/logos", auth.QuotaEnforcement(s.config.QuotaStore, s.config.Logger), runsHandler.StartLogos)
		runGroup.GET("/:id", runsHandler.Status)
		runGroup.GET("/:id/events", eventsHandler.Stream)
		runGroup.POST("/:id/refine", runsHandler.Refine)
		runGroup.POST("/:id/assets", runsHandler.StartAssets)
		runGroup.POST("/:id/outputs", runsHandler.Outputs)
		runGroup.POST("/:id/stylescape", runsHandler.Stylescape)
	}
}
