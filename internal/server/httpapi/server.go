// Package httpapi exposes the gateway over HTTP. Handlers never proxy
// object bytes: uploads and downloads travel directly between the client
// and the store using capabilities issued here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	echo      *echo.Echo
	address   string
	files     *services.FileService
	share     *services.ShareService
	jwtSecret []byte
	logger    logging.Logger
}

func NewServer(address string, logger logging.Logger, files *services.FileService, share *services.ShareService, secretKey string) *Server {
	s := &Server{
		address:   address,
		files:     files,
		share:     share,
		jwtSecret: []byte(secretKey),
		logger:    logger.With("module", "httpapi"),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/healthz", s.handleHealth)

	api := e.Group("", s.requireIdentity)
	api.POST("/upload-url", s.handleCreateUploadURL)
	api.GET("/upload-url", s.handleListFiles)
	api.DELETE("/upload-url", s.handleDeleteFile)
	api.POST("/share", s.handleShare)

	s.echo = e
	return s
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	err := s.echo.Start(s.address)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
