package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/scholarsync/core/docs"
	httpHandlers "github.com/scholarsync/core/internal/adapters/http"
	"github.com/scholarsync/core/internal/application/services"
	"github.com/scholarsync/core/internal/infrastructure/config"
	"github.com/scholarsync/core/internal/infrastructure/database"
	"github.com/scholarsync/core/internal/infrastructure/logger"
	"github.com/scholarsync/core/internal/infrastructure/metrics"
	"github.com/scholarsync/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	db      *database.DB
	store   ports.ProfessorStore
	metrics *metrics.Metrics
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. m may be nil when metrics are disabled.
func New(cfg *config.Config, db *database.DB, store ports.ProfessorStore, m *metrics.Metrics, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}

	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = customErrorHandler(appLogger)

	professorService := services.NewProfessorService(store, cfg.Generator.Timeout, appLogger.WithComponent("service"))

	professorHandler := httpHandlers.NewProfessorHandler(professorService, appLogger.WithComponent("http"))
	paperHandler := httpHandlers.NewPaperHandler(professorService, appLogger.WithComponent("http"))

	server := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger,
		db:      db,
		store:   store,
		metrics: m,
	}

	server.setupMiddleware()

	if m != nil {
		server.setupMetrics()
	}

	server.setupRoutes(professorHandler, paperHandler)

	return server, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(professorHandler *httpHandlers.ProfessorHandler, paperHandler *httpHandlers.PaperHandler) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	api := s.echo.Group("/api")

	professors := api.Group("/professors")
	professors.GET("", professorHandler.ListProfessors)
	professors.POST("", professorHandler.CreateProfessor)
	professors.GET("/:id", professorHandler.GetProfessor)
	professors.PATCH("/:id", professorHandler.UpdateProfessor)
	professors.PUT("/:id", professorHandler.UpdateProfessor)
	professors.DELETE("/:id", professorHandler.DeleteProfessor)
	professors.GET("/:id/description", professorHandler.GetDescription)

	professors.GET("/:id/papers", paperHandler.ListPapers)
	professors.POST("/:id/papers", paperHandler.CreatePaper)
	professors.PUT("/:id/papers/:pid", paperHandler.UpdatePaper)
	professors.DELETE("/:id/papers/:pid", paperHandler.DeletePaper)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	s.echo.Use(s.metrics.Middleware())
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["data_file"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
			"stats":  s.db.GetFileInfo(),
		}
	} else {
		checks["data_file"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetFileInfo(),
		}
	}

	if s.store.Healthy() {
		store := map[string]interface{}{"status": "ok"}
		if professors, err := s.store.ListProfessors(); err == nil {
			store["professors"] = len(professors)
		}
		checks["store"] = store
	} else {
		status = "error"
		checks["store"] = map[string]interface{}{
			"status": "error",
			"error":  "store lock is unusable, restart required",
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  runtime.Version(),
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if !s.store.Healthy() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "store_lock_unusable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	address := s.config.Server.Address()
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = e.Error()
		} else {
			msg = http.StatusText(code)
		}

		if s, ok := msg.(string); ok {
			msg = ports.MessageResponse{Message: s}
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
