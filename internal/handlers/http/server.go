// Package http exposes the deposit watch stream and the points ledger over a
// single Fiber server: a websocket endpoint for deposit events and a REST
// surface for ledger operations.
package http

import (
	"context"

	"github.com/gabapcia/depositwatch/internal/depositwatch"
	"github.com/gabapcia/depositwatch/internal/pointsledger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Server wraps the Fiber application serving both API surfaces.
type Server struct {
	app *fiber.App
}

// New assembles the server with all routes registered.
func New(watch depositwatch.Service, ledger pointsledger.Service) *Server {
	return &Server{
		app: newApp(watch, ledger),
	}
}

// newApp builds the Fiber application. Split from New so tests can drive the
// router directly through app.Test.
func newApp(watch depositwatch.Service, ledger pointsledger.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	registerWatchRoutes(app, watch)
	registerUserRoutes(app, ledger)
	registerTransferRoutes(app, ledger)

	return app
}

// Listen blocks serving requests on addr until Shutdown is called or the
// listener fails.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully drains open connections, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
