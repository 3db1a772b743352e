// Package rest exposes the sync service over HTTP with fiber.
package rest

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/dmitrijs2005/finsync/internal/logging"
	"github.com/dmitrijs2005/finsync/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address     string
	sync        *services.SyncService
	logger      logging.Logger
	jwtSecret   []byte
	corsOrigins []string
}

func NewHTTPServer(a string, l logging.Logger, ss *services.SyncService, secretKey string, corsOrigins []string) *HTTPServer {
	return &HTTPServer{
		address:     a,
		logger:      l.With("module", "http_server"),
		sync:        ss,
		jwtSecret:   []byte(secretKey),
		corsOrigins: corsOrigins,
	}
}

// App builds the fiber application with every middleware and route
// registered.
func (s *HTTPServer) App() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// ray id first so every later log line carries it
	app.Use(rayIDMiddleware)
	app.Use(s.loggingMiddleware)
	app.Use(recover.New())

	origins := "*"
	if len(s.corsOrigins) > 0 {
		origins = strings.Join(s.corsOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: strings.Join([]string{
			fiber.HeaderOrigin,
			fiber.HeaderContentType,
			fiber.HeaderAccept,
			fiber.HeaderAuthorization,
			common.AccessTokenHeaderName,
			RayIDHeader,
		}, ", "),
		ExposeHeaders: RayIDHeader,
	}))

	app.Get("/healthz", s.handleHealth)

	group := app.Group("/sync", s.authMiddleware)
	group.Post("/:collection", s.handleSync)
	group.Delete("/:collection/:id", s.handleDelete)

	return app
}

func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis until ctx is cancelled.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	app := s.App()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
	return app.Listener(lis)
}
