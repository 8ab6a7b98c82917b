package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// HealthChecker reports the state of a backing service. The map must carry a
// "status" key that is "up" when the service is usable.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	db       HealthChecker
	sessions func() int
	logger   zerolog.Logger
}

// NewServer builds the HTTP server for the health endpoint. sessions may be
// nil.
func NewServer(addr string, db HealthChecker, sessions func() int, logger zerolog.Logger) *http.Server {
	s := &Server{
		db:       db,
		sessions: sessions,
		logger:   logger,
	}

	return &http.Server{
		Addr:         addr,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug().Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/health", s.healthHandler)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	stats := s.db.Health(c.Request().Context())
	if s.sessions != nil {
		stats["sessions"] = strconv.Itoa(s.sessions())
	}
	if stats["status"] != "up" {
		return c.JSON(http.StatusServiceUnavailable, stats)
	}
	return c.JSON(http.StatusOK, stats)
}
