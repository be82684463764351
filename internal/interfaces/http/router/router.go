package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nyumbani/backend/internal/infrastructure/auth"
	"github.com/nyumbani/backend/internal/infrastructure/config"
	"github.com/nyumbani/backend/internal/infrastructure/logger"
	"github.com/nyumbani/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar is implemented by handlers that mount their own routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the gin engine with the shared middleware chain and the
// versioned API group
type Router struct {
	cfg        *config.Config
	jwtService *auth.JWTService
	log        *zap.Logger
	registrars []RouteRegistrar
}

// New creates a Router
func New(cfg *config.Config, jwtService *auth.JWTService, log *zap.Logger) *Router {
	return &Router{cfg: cfg, jwtService: jwtService, log: log}
}

// Register adds handlers to be mounted under /api/v1
func (r *Router) Register(registrars ...RouteRegistrar) {
	r.registrars = append(r.registrars, registrars...)
}

// Setup builds the engine. Middleware order matters: request id first so
// every later log line carries it, auth last so rejected requests are still
// counted by the rate limiter.
func (r *Router) Setup() *gin.Engine {
	if r.cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(r.cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(r.cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.CORS(r.cfg.HTTP.CORSAllowOrigins))
	engine.Use(middleware.BodyLimit(r.cfg.HTTP.MaxBodySize))
	if r.cfg.HTTP.RateLimitEnabled {
		perSecond := float64(r.cfg.HTTP.RateLimitRequests) / r.cfg.HTTP.RateLimitWindow.Seconds()
		limiter := middleware.NewRateLimiter(perSecond, float64(r.cfg.HTTP.RateLimitRequests))
		engine.Use(limiter.Middleware())
	}
	engine.Use(logger.GinMiddleware(r.log))
	engine.Use(logger.Recovery(r.log))

	jwtCfg := middleware.DefaultJWTConfig(r.jwtService)
	jwtCfg.Logger = r.log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))

	// Bare liveness probe for orchestrators; the full health check with a
	// database ping lives under /api/v1/health.
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	for _, reg := range r.registrars {
		reg.RegisterRoutes(api)
	}

	return engine
}
