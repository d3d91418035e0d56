package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/02loveslollipop/thinsos/services/api/config"
	"github.com/02loveslollipop/thinsos/services/api/db"
	"github.com/02loveslollipop/thinsos/sos"
)

// SOSClient is the part of *sos.Client the live routes use.
type SOSClient interface {
	BaseURL() string
	DataAvailability() sos.Availability
	GetCapabilities(ctx context.Context, level sos.Level) (sos.Record, error)
	GetDataAvailability(ctx context.Context, q sos.AvailabilityQuery) (sos.Availability, error)
	GetFeatures(ctx context.Context, foi string) ([]sos.FeatureOfInterest, error)
	GetObservation(ctx context.Context, q sos.FilterQuery) (*sos.Table, error)
}

// Store is the harvested data the core and realtime routes read.
type Store interface {
	ListFeatures(ctx context.Context) ([]db.Feature, error)
	GetFeature(ctx context.Context, id string) (*db.Feature, error)
	FetchObservations(ctx context.Context, q db.ObservationQuery) ([]db.Observation, error)
	LatestObservations(ctx context.Context) ([]db.Observation, error)
	ListRuns(ctx context.Context, limit, offset int, status string, since *time.Time) (*db.HarvestRunsPage, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg    config.Config
	client SOSClient
	store  Store
	engine *gin.Engine
}

// New constructs a server with routes and middleware. A nil store disables
// the routes backed by harvested data.
func New(cfg config.Config, client SOSClient, store Store) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(corsMiddleware())

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	server := &Server{cfg: cfg, client: client, store: store, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sos":      s.client.BaseURL(),
			"database": s.store != nil,
		})
	})

	s.registerV1Routes()
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
