// file: internal/server/server.go
// version: 2.0.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e9f

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdfalk/bookfeed/internal/catalog"
	"github.com/jdfalk/bookfeed/internal/config"
	"github.com/jdfalk/bookfeed/internal/covers"
	"github.com/jdfalk/bookfeed/internal/database"
	"github.com/jdfalk/bookfeed/internal/metrics"
	"github.com/jdfalk/bookfeed/internal/server/middleware"
)

// Server represents the HTTP server. Collaborators are injected at
// construction rather than read from globals so tests can swap them.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	store      database.Store
	localizer  *covers.DiskLocalizer
	assembler  *catalog.Assembler
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new server instance backed by the given store and
// cover localizer
func NewServer(store database.Store, localizer *covers.DiskLocalizer) *Server {
	router := gin.New()

	// Set up middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.MaxRequestBodySize(1 << 20))

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		router:    router,
		store:     store,
		localizer: localizer,
		assembler: catalog.NewAssembler(store, localizer),
	}

	server.setupRoutes()

	return server
}

// Router exposes the gin engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until an interrupt signal,
// then shuts down gracefully.
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Refresh catalog gauges periodically while running. The goroutine
	// gets its own stop channel: a signal is delivered to quit once, and
	// the shutdown wait below must be the receiver that gets it.
	stopGauges := make(chan struct{})
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.updateCatalogGauges()
			case <-stopGauges:
				return
			}
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-quit
	close(stopGauges)

	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}

func (s *Server) updateCatalogGauges() {
	if bookCount, err := s.store.CountBooks(); err == nil {
		metrics.SetBooks(bookCount)
	} else {
		log.Printf("[DEBUG] Gauge refresh: failed to count books: %v", err)
	}
	if authorCount, err := s.store.CountAuthors(); err == nil {
		metrics.SetAuthors(authorCount)
	} else {
		log.Printf("[DEBUG] Gauge refresh: failed to count authors: %v", err)
	}
	if fileCount, err := s.store.CountFiles(); err == nil {
		metrics.SetFiles(fileCount)
	} else {
		log.Printf("[DEBUG] Gauge refresh: failed to count files: %v", err)
	}
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (both paths for compatibility)
	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	// OPDS feed routes
	feedLimiter := middleware.NewIPRateLimiter(300, 30)
	opds := s.router.Group("/opds")
	opds.Use(feedLimiter.Middleware())
	{
		opds.GET("", s.handleCatalogRoot)
		opds.GET("/search", s.handleSearch)
		opds.GET("/publications/search", s.handleSearch)
		opds.GET("/publications", s.handlePublications)
		opds.GET("/publications/:id", s.handlePublicationDetail)
		opds.GET("/download/:fileId", s.handleDownload)
	}

	// Locally cached cover images referenced by feed entries
	s.router.GET("/covers/:entity/:bookId/:filename", s.handleCover)

	// API routes
	api := s.router.Group("/api/v1")
	{
		// Book file editor routes
		api.GET("/bookfile", s.listBookFiles)
		api.PUT("/bookfile/editor", s.updateBookFileQualities)
		api.DELETE("/bookfile/bulk", s.deleteBookFilesBulk)
		api.DELETE("/bookfile/:id", s.deleteBookFile)

		// Quality schema for editor clients
		api.GET("/qualityprofile/schema", s.getQualitySchema)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	// Gather basic counts; tolerate errors (don't fail health entirely)
	var bookCount, authorCount, fileCount int
	var dbErr error
	if bc, err := s.store.CountBooks(); err == nil {
		bookCount = bc
	} else {
		dbErr = err
	}
	if ac, err := s.store.CountAuthors(); err == nil {
		authorCount = ac
	} else if dbErr == nil {
		dbErr = err
	}
	if fc, err := s.store.CountFiles(); err == nil {
		fileCount = fc
	} else if dbErr == nil {
		dbErr = err
	}

	resp := gin.H{
		"status":        "ok",
		"timestamp":     time.Now().Unix(),
		"version":       "1.0.0",
		"database_type": config.AppConfig.DatabaseType,
		"metrics": gin.H{
			"books":   bookCount,
			"authors": authorCount,
			"files":   fileCount,
		},
	}
	if dbErr != nil {
		resp["partial_error"] = dbErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}
