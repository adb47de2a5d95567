// file: internal/server/opds_handlers.go
// version: 1.0.0
// guid: 2f3a4b5c-6d7e-8f9a-0b1c-2d3e4f5a6b7c

package server

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/bookfeed/internal/catalog"
	"github.com/jdfalk/bookfeed/internal/config"
	"github.com/jdfalk/bookfeed/internal/metrics"
	"github.com/jdfalk/bookfeed/internal/models"
	"github.com/jdfalk/bookfeed/internal/opds"
)

const feedContentType = "application/opds+json; charset=utf-8"

// feedBaseURL derives the absolute base URL for feed links. An explicit
// configuration override wins; otherwise the request's forwarded proto
// and host are used so links survive reverse proxies.
func feedBaseURL(c *gin.Context) string {
	if config.AppConfig.BaseURL != "" {
		return config.AppConfig.BaseURL
	}

	scheme := "http"
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func (s *Server) handleCatalogRoot(c *gin.Context) {
	metrics.IncFeedRequest("root")
	c.Header("Content-Type", feedContentType)
	c.JSON(http.StatusOK, opds.RenderCatalogRoot())
}

func (s *Server) handleSearch(c *gin.Context) {
	start := time.Now()
	metrics.IncFeedRequest("search")

	var paging models.PagingRequest
	if err := c.ShouldBindQuery(&paging); err != nil {
		RespondWithBadRequest(c, "invalid paging parameters: "+err.Error())
		return
	}

	spec, err := catalog.BuildSearchSpec(c.Query("query"), c.Query("title"), c.Query("author"), paging)
	if err != nil {
		renderError(c, err)
		return
	}

	s.renderFeedPage(c, spec)
	metrics.ObserveFeedDuration("search", time.Since(start))
}

func (s *Server) handlePublications(c *gin.Context) {
	start := time.Now()
	metrics.IncFeedRequest("publications")

	var paging models.PagingRequest
	if err := c.ShouldBindQuery(&paging); err != nil {
		RespondWithBadRequest(c, "invalid paging parameters: "+err.Error())
		return
	}

	s.renderFeedPage(c, catalog.BuildListSpec(paging))
	metrics.ObserveFeedDuration("publications", time.Since(start))
}

// renderFeedPage runs the assembled spec and writes one feed page. The
// paging metadata comes straight from the spec the store realized.
func (s *Server) renderFeedPage(c *gin.Context, spec *models.PagingSpec) {
	records, err := s.assembler.AssemblePage(spec)
	if err != nil {
		renderError(c, err)
		return
	}

	metrics.AddPublicationsServed(len(records))
	c.Header("Content-Type", feedContentType)
	c.JSON(http.StatusOK, opds.RenderPage(feedBaseURL(c), records, spec.Page, spec.PageSize, spec.TotalRecords))
}

func (s *Server) handlePublicationDetail(c *gin.Context) {
	start := time.Now()
	metrics.IncFeedRequest("publication_detail")

	record, err := s.assembler.AssembleOne(c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}

	metrics.AddPublicationsServed(1)
	c.Header("Content-Type", feedContentType)
	c.JSON(http.StatusOK, opds.RenderEntry(feedBaseURL(c), *record))
	metrics.ObserveFeedDuration("publication_detail", time.Since(start))
}

func (s *Server) handleDownload(c *gin.Context) {
	file, err := s.store.GetBookFileByID(c.Param("fileId"))
	if err != nil {
		renderError(c, err)
		return
	}
	if file == nil {
		RespondWithNotFound(c, "book file", c.Param("fileId"))
		return
	}

	if _, err := os.Stat(file.Path); err != nil {
		RespondWithNotFound(c, "book file", c.Param("fileId"))
		return
	}

	metrics.IncDownload(file.Quality.Quality.Name)
	c.Header("Content-Type", opds.MediaTypeForPath(file.Path))
	c.FileAttachment(file.Path, filepath.Base(file.Path))
}
