// Package server exposes the leaflet pipeline as callable HTTP functions.
//
// Requests use the callable envelope {"data": {...}}. Successful calls answer
// {"result": ...}; failures answer {"error": {"status": ..., "message": ...}}
// with INVALID_ARGUMENT (400), NOT_FOUND (404) or INTERNAL (500).
package server

import (
	"context"
	"net/http"
	"net/url"
	"path"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bula/pkg/models"
)

// Pipeline is the leaflet service behind the HTTP functions.
type Pipeline interface {
	ProcessImage(ctx context.Context, imageData string) (*models.SummaryResult, error)
	GetSummary(ctx context.Context, name string) (*models.SummaryResult, error)
}

// Options configures the router.
type Options struct {
	// AllowedOrigins lists CORS origin patterns ("*" wildcards allowed).
	// Empty allows every origin.
	AllowedOrigins []string

	// Debug enables gin debug mode.
	Debug bool
}

// New builds the HTTP router for pipeline.
func New(pipeline Pipeline, opts Options) *gin.Engine {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	h := &handler{pipeline: pipeline}
	router.GET("/healthz", h.health)
	router.POST("/processImageAndGetBula", h.processImage)
	router.POST("/getBulaSummary", h.getSummary)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody("NOT_FOUND", "Função não encontrada."))
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
		return cfg
	}
	cfg.AllowOriginFunc = func(origin string) bool {
		return originAllowed(origins, origin)
	}
	return cfg
}

// originAllowed matches origin against patterns. A pattern is either a full
// origin ("https://app.example.com") or a host glob ("*.example.com").
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Hostname()
	}
	for _, p := range patterns {
		if p == "*" || p == origin {
			return true
		}
		if ok, _ := path.Match(p, host); ok {
			return true
		}
	}
	return false
}
