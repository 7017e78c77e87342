package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medease/medease-api/internal/handler/appointment"
	"github.com/medease/medease-api/internal/handler/auth"
	"github.com/medease/medease-api/internal/handler/doctor"
	"github.com/medease/medease-api/internal/handler/health"
	"github.com/medease/medease-api/internal/handler/patient"
	"github.com/medease/medease-api/internal/middleware"
	"github.com/medease/medease-api/pkg/logger"
	"github.com/medease/medease-api/pkg/metrics"
)

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Timeout        time.Duration
	CORS           middleware.CORSConfig
}

func DefaultConfig() Config {
	return Config{
		RateLimitRPS:   50,
		RateLimitBurst: 100,
		Timeout:        30 * time.Second,
		CORS:           middleware.DefaultCORSConfig(),
	}
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *auth.Handler
	doctorH      *doctor.Handler
	patientH     *patient.Handler
	appointmentH *appointment.Handler
	healthH      *health.Handler
	metrics      *metrics.Metrics
}

func New(
	authMw *middleware.AuthMiddleware,
	authH *auth.Handler,
	doctorH *doctor.Handler,
	patientH *patient.Handler,
	appointmentH *appointment.Handler,
	healthH *health.Handler,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         authMw,
		authH:        authH,
		doctorH:      doctorH,
		patientH:     patientH,
		appointmentH: appointmentH,
		healthH:      healthH,
		metrics:      m,
	}

	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		r.metricsMiddleware(),
		middleware.Timeout(cfg.Timeout),
		middleware.CORS(cfg.CORS),
		middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit(),
	)

	return r
}

// Setup registers all routes on the engine root. The API carries no
// version prefix.
func (r *Router) Setup() {
	root := r.engine.Group("")

	r.healthH.RegisterRoutes(root)
	r.authH.RegisterRoutes(root)
	r.doctorH.RegisterRoutes(root, r.auth)
	r.patientH.RegisterRoutes(root, r.auth)
	r.appointmentH.RegisterRoutes(root, r.auth)

	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
