// Package admin serves the client's diagnostics plane: health,
// session status, and prometheus metrics.
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lodgepole/gale/internal/gateway/session"
	"github.com/lodgepole/gale/internal/observability"
)

// StatusFunc supplies the current session snapshot.
type StatusFunc func() session.Snapshot

type Server struct {
	addr      string
	engine    *gin.Engine
	status    StatusFunc
	startedAt time.Time
}

func NewServer(addr string, corsOrigins []string, status StatusFunc, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(observability.RequestLogger(logger))
	engine.Use(observability.RequestMetricsMiddleware())
	if len(corsOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	s := &Server{
		addr:      addr,
		engine:    engine,
		status:    status,
		startedAt: time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.startedAt).String(),
			"service": "galectl",
		})
	})

	s.engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.status())
	})

	observability.RegisterMetrics()
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.engine}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
