// Package httpserver assembles the gin engine and runs it with graceful shutdown.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"food-lens/api/internal/handle"
	"food-lens/api/internal/logging"
)

const shutdownGrace = 15 * time.Second

type Options struct {
	Addr           string
	StaticDir      string
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// NewRouter mounts /healthz, the /api routes and the static front-end.
func NewRouter(h *handle.Handle, opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(log))
	if opts.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = opts.MaxUploadBytes
	}

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "X-Request-Timeout"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	h.RegisterRoutes(router.Group("/api"))

	if opts.StaticDir != "" {
		router.StaticFile("/", filepath.Join(opts.StaticDir, "index.html"))
		router.Static("/assets", opts.StaticDir)
	}
	return router
}

func New(h *handle.Handle, opts Options, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewRouter(h, opts, log),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      opts.RequestTimeout + 30*time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		log: log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
