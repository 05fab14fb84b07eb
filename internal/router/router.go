// Package router assembles the gin engine: middleware stack, route groups
// and the prometheus instrumentation shared by every endpoint.
package router

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/vetdesk/backoffice-api/internal/config"
	"github.com/vetdesk/backoffice-api/internal/handler/appointment"
	"github.com/vetdesk/backoffice-api/internal/handler/auth"
	"github.com/vetdesk/backoffice-api/internal/handler/doctor"
	"github.com/vetdesk/backoffice-api/internal/handler/health"
	"github.com/vetdesk/backoffice-api/internal/handler/report"
	"github.com/vetdesk/backoffice-api/internal/handler/specialty"
	"github.com/vetdesk/backoffice-api/internal/handler/transaction"
	"github.com/vetdesk/backoffice-api/internal/handler/user"
	"github.com/vetdesk/backoffice-api/internal/middleware"
)

// Handlers carries every HTTP handler the router mounts.
type Handlers struct {
	Health      *health.Handler
	Auth        *auth.Handler
	User        *user.Handler
	Doctor      *doctor.Handler
	Specialty   *specialty.Handler
	Appointment *appointment.Handler
	Transaction *transaction.Handler
	Report      *report.Handler
}

type Router struct {
	engine *gin.Engine
}

// New builds the engine with the full middleware stack and mounts all
// routes under /api/v1. Reports additionally require an elevated role.
func New(cfg *config.Config, handlers Handlers, session *middleware.SessionMiddleware) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(metricsMiddleware())
	engine.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.CORS(corsConfig(cfg.CORS)))

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RPS),
			Burst: cfg.RateLimit.Burst,
		})
		engine.Use(limiter.RateLimit())
	}

	api := engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	})

	handlers.Health.RegisterRoutes(api)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.Auth.RegisterPublicRoutes(api)

	authed := api.Group("", session.Authenticate())
	handlers.Auth.RegisterRoutes(authed)

	tenant := authed.Group("", session.RequireTenant())
	handlers.User.RegisterRoutes(tenant)
	handlers.Doctor.RegisterRoutes(tenant)
	handlers.Specialty.RegisterRoutes(tenant)
	handlers.Appointment.RegisterRoutes(tenant)
	handlers.Transaction.RegisterRoutes(tenant)

	reports := tenant.Group("", session.RequireAdminOrDev())
	handlers.Report.RegisterRoutes(reports)

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func corsConfig(cfg config.CORSConfig) middleware.CORSConfig {
	out := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		out.AllowOrigins = cfg.AllowedOrigins
	}
	return out
}

var (
	metricsOnce     sync.Once
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
)

func initMetrics() {
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	errorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total number of HTTP requests answered with 5xx",
		},
		[]string{"method", "path"},
	)
	prometheus.MustRegister(requestDuration, requestTotal, errorTotal)
}

// metricsMiddleware records per-route request metrics. The templated route
// path keeps the label cardinality bounded.
func metricsMiddleware() gin.HandlerFunc {
	metricsOnce.Do(initMetrics)

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 500 {
			errorTotal.WithLabelValues(c.Request.Method, path).Inc()
		}
	}
}
