package router

import (
	"github.com/gin-gonic/gin"

	prometheusHandler "github.com/clinicflow/agenda-api/internal/handler/prometheus"
	"github.com/clinicflow/agenda-api/internal/middleware"
)

// Handler registers its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

type Router struct {
	engine     *gin.Engine
	prometheus *prometheusHandler.Handler
	handlers   []Handler
}

func NewRouter(config Config, prom *prometheusHandler.Handler, handlers ...Handler) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.Logger(),
		prom.Middleware(),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return &Router{
		engine:     engine,
		prometheus: prom,
		handlers:   handlers,
	}
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", r.prometheus.Handler())

	api := r.engine.Group("/api/v1")
	for _, h := range r.handlers {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
