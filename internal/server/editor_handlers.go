// file: internal/server/editor_handlers.go
// version: 1.0.0
// guid: 3a4b5c6d-7e8f-9a0b-1c2d-3e4f5a6b7c8d

package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/bookfeed/internal/models"
)

// bookFileResource is the wire shape of a book file in the editor API
type bookFileResource struct {
	ID        string              `json:"id"`
	BookID    string              `json:"bookId"`
	Path      string              `json:"path"`
	Size      int64               `json:"size"`
	Quality   models.QualityModel `json:"quality"`
	DateAdded time.Time           `json:"dateAdded"`
}

func toBookFileResource(file models.BookFile) bookFileResource {
	return bookFileResource{
		ID:        file.ID,
		BookID:    file.BookID,
		Path:      file.Path,
		Size:      file.Size,
		Quality:   file.Quality,
		DateAdded: file.DateAdded,
	}
}

// bookFileEditorRequest is the bulk edit payload: the selected file ids
// plus the quality to apply to all of them
type bookFileEditorRequest struct {
	BookFileIDs []string             `json:"bookFileIds" binding:"required"`
	Quality     *models.QualityModel `json:"quality"`
}

// bookFileBulkDeleteRequest selects files for bulk deletion
type bookFileBulkDeleteRequest struct {
	BookFileIDs []string `json:"bookFileIds" binding:"required"`
}

// listBookFiles returns the files of one book.
// GET /api/v1/bookfile?bookId=<id>
func (s *Server) listBookFiles(c *gin.Context) {
	bookID := c.Query("bookId")
	if bookID == "" {
		RespondWithBadRequest(c, "bookId parameter required")
		return
	}

	book, err := s.store.GetBookByID(bookID)
	if err != nil {
		renderError(c, err)
		return
	}
	if book == nil {
		RespondWithNotFound(c, "book", bookID)
		return
	}

	files, err := s.store.GetFilesByBook(bookID)
	if err != nil {
		renderError(c, err)
		return
	}

	resources := make([]bookFileResource, 0, len(files))
	for _, file := range files {
		resources = append(resources, toBookFileResource(file))
	}
	c.JSON(http.StatusOK, resources)
}

// updateBookFileQualities applies one quality to the selected files.
// PUT /api/v1/bookfile/editor
func (s *Server) updateBookFileQualities(c *gin.Context) {
	var req bookFileEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithBadRequest(c, "invalid request: "+err.Error())
		return
	}
	if len(req.BookFileIDs) == 0 {
		RespondWithBadRequest(c, "bookFileIds must not be empty")
		return
	}
	if req.Quality == nil {
		RespondWithBadRequest(c, "quality must be set")
		return
	}

	// Resolve to the canonical definition so clients can't rename qualities
	quality, ok := models.QualityByID(req.Quality.Quality.ID)
	if !ok {
		RespondWithBadRequest(c, "unknown quality id")
		return
	}
	applied := models.QualityModel{Quality: quality, Revision: req.Quality.Revision}
	if applied.Revision.Version == 0 {
		applied.Revision = models.DefaultRevision()
	}

	updated, err := s.store.UpdateFileQuality(req.BookFileIDs, applied)
	if err != nil {
		renderError(c, err)
		return
	}
	log.Printf("[DEBUG] Updated quality on %d of %d book files", updated, len(req.BookFileIDs))

	files, err := s.store.GetFilesByIDs(req.BookFileIDs)
	if err != nil {
		renderError(c, err)
		return
	}
	resources := make([]bookFileResource, 0, len(files))
	for _, file := range files {
		resources = append(resources, toBookFileResource(file))
	}
	c.JSON(http.StatusAccepted, resources)
}

// deleteBookFilesBulk removes the selected files from the catalog.
// DELETE /api/v1/bookfile/bulk
func (s *Server) deleteBookFilesBulk(c *gin.Context) {
	var req bookFileBulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithBadRequest(c, "invalid request: "+err.Error())
		return
	}
	if len(req.BookFileIDs) == 0 {
		RespondWithBadRequest(c, "bookFileIds must not be empty")
		return
	}

	if err := s.store.DeleteBookFiles(req.BookFileIDs); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// deleteBookFile removes a single file from the catalog.
// DELETE /api/v1/bookfile/:id
func (s *Server) deleteBookFile(c *gin.Context) {
	id := c.Param("id")

	file, err := s.store.GetBookFileByID(id)
	if err != nil {
		renderError(c, err)
		return
	}
	if file == nil {
		RespondWithNotFound(c, "book file", id)
		return
	}

	if err := s.store.DeleteBookFiles([]string{id}); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// getQualitySchema lists the known qualities for editor clients.
// GET /api/v1/qualityprofile/schema
func (s *Server) getQualitySchema(c *gin.Context) {
	c.JSON(http.StatusOK, models.QualitySchema())
}
