package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aviscan-ph/aviscan/internal/config"
	"github.com/aviscan-ph/aviscan/internal/media"
	"github.com/aviscan-ph/aviscan/internal/model"
	"github.com/aviscan-ph/aviscan/internal/store"
)

// Classifier runs inference on raw image bytes. Satisfied by *engine.Engine;
// handler tests substitute a stub.
type Classifier interface {
	Classify(ctx context.Context, raw []byte) (model.Prediction, error)
	Labels() []string
}

// Server wires the classifier, media store, and scan store behind the HTTP
// surface.
type Server struct {
	classifier Classifier
	media      media.Store
	scans      store.ScanStore
	cfg        config.ServerConfig

	// uploadsDir, when non-empty, is served statically under /uploads
	// (local media provider).
	uploadsDir string
}

// New creates a Server.
func New(cls Classifier, m media.Store, scans store.ScanStore, cfg config.ServerConfig) *Server {
	return &Server{
		classifier: cls,
		media:      m,
		scans:      scans,
		cfg:        cfg,
	}
}

// ServeUploadsFrom makes the router serve the given directory under
// /uploads. Used with the local media provider.
func (s *Server) ServeUploadsFrom(dir string) {
	s.uploadsDir = dir
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests(), s.cors())

	r.GET("/", s.root)
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if s.uploadsDir != "" {
		r.Static("/uploads", s.uploadsDir)
	}

	authed := r.Group("/", s.requireAPIKey())
	authed.POST("/predict", s.predict)
	authed.GET("/scans", s.listScans)
	authed.GET("/history", s.listScans)

	return r
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "aviscan backend running"})
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()
	if err := s.scans.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "scan store unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// listScans serves GET /scans and GET /history: stored records, most recent
// first.
func (s *Server) listScans(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	records, err := s.scans.ListRecent(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list scans"})
		return
	}
	if records == nil {
		records = []model.ScanRecord{}
	}
	c.JSON(http.StatusOK, records)
}
