// file: internal/server/covers.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7890-abcd-ef1234567890

package server

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// handleCover serves locally cached cover art referenced by feed entries.
// GET /covers/:entity/:bookId/:filename
func (s *Server) handleCover(c *gin.Context) {
	entity := c.Param("entity")
	bookID := c.Param("bookId")
	filename := c.Param("filename")

	// Prevent path traversal
	for _, part := range []string{entity, bookID, filename} {
		if strings.Contains(part, "/") || strings.Contains(part, "\\") || strings.Contains(part, "..") {
			RespondWithBadRequest(c, "invalid cover path")
			return
		}
	}

	coverPath := s.localizer.CachePath(entity, bookID, filename)
	if _, err := os.Stat(coverPath); os.IsNotExist(err) {
		RespondWithNotFound(c, "cover", filename)
		return
	}

	c.File(coverPath)
}
