package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/queuecast/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front of the prediction engine.
type Server struct {
	router *gin.Engine
	logger *slog.Logger
}

func New(cfg config.ServerConfig, h *Handler, logger *slog.Logger) *Server {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(requestID(), accessLog(logger), recovery(logger), cors(cfg.CORSOrigins))
	h.RegisterRoutes(router)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found", Code: "NOT_FOUND"})
	})

	return &Server{router: router, logger: logger}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
