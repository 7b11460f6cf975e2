package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	FollowsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradegram_follows_created_total",
		Help: "Total follow edges created",
	})

	FollowsRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradegram_follows_removed_total",
		Help: "Total follow edges removed",
	})

	OffersAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradegram_offers_accepted_total",
		Help: "Total offers accepted by listing owners",
	})

	UsersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradegram_users_registered_total",
		Help: "Total successful registrations",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(FollowsCreated)
	prometheus.MustRegister(FollowsRemoved)
	prometheus.MustRegister(OffersAccepted)
	prometheus.MustRegister(UsersRegistered)
}

// Middleware records request duration by method, matched route and status.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			RequestDuration.
				WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// NewServer returns an echo instance that only serves /metrics.
func NewServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}
