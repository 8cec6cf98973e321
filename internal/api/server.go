// Package api exposes the HTTP surface of the inventory service: product
// and attribute CRUD, product attribute lookups, and the filtered product
// listing driven by {short_code}_{operator} query parameters.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gentlyhq/gently/internal/config"
	"github.com/gentlyhq/gently/internal/database"
	"github.com/gentlyhq/gently/internal/inventory"
)

// Server owns the Fiber application and its route handlers.
type Server struct {
	app     *fiber.App
	cfg     *config.Config
	db      *database.Connection
	storage *inventory.Storage
	version string
}

// NewServer builds the application with all routes registered.
func NewServer(cfg *config.Config, db *database.Connection, version string) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "gently " + version,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return SendError(c, code, err.Error())
		},
	})

	s := &Server{
		app:     app,
		cfg:     cfg,
		db:      db,
		storage: inventory.NewStorage(db),
		version: version,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Use(correlationMiddleware())
	s.app.Use(requestLogger())
	s.app.Use(MetricsMiddleware())

	s.app.Get("/", s.Health)
	s.app.Get("/metrics", MetricsHandler())

	protected := s.app.Group("", AuthMiddleware(s.cfg.Auth.JWTSecret))

	NewProductHandler(s.storage, s.cfg).RegisterRoutes(protected)
	NewAttributeHandler(s.storage, s.cfg).RegisterRoutes(protected)
	NewProductAttributeHandler(s.storage).RegisterRoutes(protected)
}

// Health reports basic liveness, including database reachability.
func (s *Server) Health(c fiber.Ctx) error {
	if s.db != nil {
		if err := s.db.Ping(c.RequestCtx()); err != nil {
			return SendError(c, fiber.StatusServiceUnavailable, "database unreachable")
		}
	}
	return c.JSON(fiber.Map{"message": "Connected!"})
}

// Listen serves HTTP on the configured address until Shutdown is called.
func (s *Server) Listen() error {
	log.Info().Str("address", s.cfg.Server.Address).Str("version", s.version).Msg("starting http server")
	return s.app.Listen(s.cfg.Server.Address, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the Fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// correlationMiddleware tags every request with a correlation ID, honoring
// one supplied by the caller.
func correlationMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		correlationID := c.Get("X-Correlation-Id")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		c.Locals("correlation_id", correlationID)
		c.Set("X-Correlation-Id", correlationID)
		return c.Next()
	}
}

func requestLogger() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		correlationID, _ := c.Locals("correlation_id").(string)
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Str("correlation_id", correlationID).
			Msg("request")
		return err
	}
}
