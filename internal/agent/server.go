// Package agent provides the target-side HTTP server that executes scan
// tasks on behalf of the hub.
package agent

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/afero"

	"github.com/dbsmedya/gosweep/internal/logger"
	"github.com/dbsmedya/gosweep/internal/scan"
	"github.com/dbsmedya/gosweep/internal/transport"
)

// Config holds the configuration for the agent server.
type Config struct {
	// Address is the address to listen on (e.g., ":8321").
	Address string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out response writes.
	// Scans can take a while, so this defaults generously.
	WriteTimeout time.Duration
}

// DefaultConfig returns a default agent configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      ":8321",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
	}
}

// Server serves the scan endpoint for one machine.
type Server struct {
	app      *fiber.App
	fs       afero.Fs
	hostname string
	config   *Config
	logger   *logger.Logger
}

// NewServer creates an agent Server scanning the given filesystem. hostname
// is stamped on every result this agent produces.
func NewServer(fsys afero.Fs, hostname string, cfg *Config, log *logger.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.NewDefault()
	}

	app := fiber.New(fiber.Config{
		AppName:      "gosweep agent",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	server := &Server{
		app:      app,
		fs:       fsys,
		hostname: hostname,
		config:   cfg,
		logger:   log,
	}

	app.Use(fiberrecover.New())
	app.Use(server.requestLogger)

	app.Post(transport.ScanPath, server.handleScan)
	app.Get(transport.HealthPath, server.handleHealth)

	return server
}

// requestLogger logs each request with its duration.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debugw("Request handled",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// handleScan decodes the filter payload, runs the scan task locally, and
// returns the result. Enumeration problems never fail the request; they come
// back inside the result's error list.
func (s *Server) handleScan(c *fiber.Ctx) error {
	var payload transport.FilterPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid filter payload: %v", err))
	}

	filters := transport.DecodeFilters(payload)
	s.logger.Infow("Executing scan task",
		"roots", filters.Len(),
		"filters", filters.FilterCount(),
	)

	task := scan.NewTask(s.fs, s.hostname, s.logger)
	result := task.Run(c.UserContext(), filters)

	return c.JSON(transport.EncodeResult(result))
}

// handleHealth reports agent liveness.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "hostname": s.hostname})
}

// Listen starts serving on the configured address. Blocks until Shutdown.
func (s *Server) Listen() error {
	s.logger.Infow("Agent listening",
		"address", s.config.Address,
		"hostname", s.hostname,
	)
	return s.app.Listen(s.config.Address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber application for handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}
