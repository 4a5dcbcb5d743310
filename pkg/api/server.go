package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/JayJamieson/sql-admin/pkg/config"
	"github.com/JayJamieson/sql-admin/pkg/db"
	"github.com/JayJamieson/sql-admin/pkg/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type Server struct {
	config  *config.Config
	router  *echo.Echo
	db      *db.DB
	metrics *metrics
	logger  zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	database, err := db.New(cfg.DBOptions(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server, err := NewWithDB(cfg, database, logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return server, nil
}

// NewWithDB builds the server around an open database. The server owns
// database from here on and closes it on shutdown.
func NewWithDB(cfg *config.Config, database *db.DB, logger zerolog.Logger) (*Server, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load swagger: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	server := &Server{
		config:  cfg,
		router:  e,
		db:      database,
		metrics: newMetrics(database.Pool()),
		logger:  logger,
	}

	e.HTTPErrorHandler = server.httpErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(server.requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
	}))

	e.Logger.SetLevel(logging.EchoLevel(logger.GetLevel()))

	RegisterHandlers(e, server)
	server.setupDefaultRoutes()

	logger.Info().
		Str("api", doc.Info.Title).
		Str("version", doc.Info.Version).
		Str("driver", database.Driver()).
		Str("dialect", database.Dialect()).
		Msg("server initialized")

	return server, nil
}

func (s *Server) setupDefaultRoutes() {
	s.router.GET("/metrics", echo.WrapHandler(s.metrics.handler()))
	s.router.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", specYAML)
	})
	s.router.GET("/swagger/*", echoSwagger.EchoWrapHandlerV3(func(c *echoSwagger.Config) {
		c.URLs = []string{"/openapi.yaml"}
	}))
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Info()
			if v.Error != nil {
				event = s.logger.Warn().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// httpErrorHandler keeps framework errors (unknown routes, bad path
// parameters, recovered panics) in the same JSON shape as handler errors.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = createErrorResponse(c, status, message)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to write error response")
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully and closes the database.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := s.config.Address()
		s.logger.Info().Str("addr", addr).Msg("listening")
		if err := s.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		_ = s.db.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info().Msg("shutting down")

	if err := s.router.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
