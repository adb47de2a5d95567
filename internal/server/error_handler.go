// file: internal/server/error_handler.go
// version: 2.0.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f0a

package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/bookfeed/internal/catalog"
	"github.com/jdfalk/bookfeed/internal/metrics"
)

// renderError maps a catalog error onto an HTTP status. Client mistakes
// and unmet preconditions are 400, missing entities are 404 and
// everything else (store failures included) is a 500.
func renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "collaborator_failure"

	switch {
	case errors.Is(err, catalog.ErrInvalidRequest):
		status = http.StatusBadRequest
		kind = "invalid_request"
	case errors.Is(err, catalog.ErrPreconditionFailed):
		status = http.StatusBadRequest
		kind = "precondition_failed"
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
		kind = "not_found"
	}

	metrics.IncFeedError(kind)
	logErrorWithContext(c, status, err.Error())
	c.JSON(status, gin.H{"error": err.Error()})
}

// RespondWithBadRequest sends a 400 Bad Request error response
func RespondWithBadRequest(c *gin.Context, message string) {
	logErrorWithContext(c, http.StatusBadRequest, message)
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// RespondWithNotFound sends a 404 Not Found error response
func RespondWithNotFound(c *gin.Context, resourceType string, id string) {
	message := resourceType + " not found"
	if id != "" {
		message = message + ": " + id
	}
	logErrorWithContext(c, http.StatusNotFound, message)
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}

// logErrorWithContext logs an error with request context for debugging
func logErrorWithContext(c *gin.Context, statusCode int, message string) {
	method := c.Request.Method
	path := c.Request.URL.Path
	clientIP := c.ClientIP()

	logLevel := "WARN"
	if statusCode >= 500 {
		logLevel = "ERROR"
	}

	log.Printf("[%s] %s %s %d - %s (from %s)", logLevel, method, path, statusCode, message, clientIP)
}
