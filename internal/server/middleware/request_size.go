// file: internal/server/middleware/request_size.go
// version: 1.1.0
// guid: f2129ae7-cf11-4888-bd4f-ab4b578f8f18

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// MaxRequestBodySize enforces a request body limit. Every mutating route
// here carries a small JSON body, so one limit covers all of them.
func MaxRequestBodySize(limitBytes int64) gin.HandlerFunc {
	if limitBytes < 1 {
		limitBytes = 1 << 20
	}

	return func(c *gin.Context) {
		if !methodHasBody(c.Request.Method) {
			c.Next()
			return
		}

		if c.Request.ContentLength > limitBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limitBytes)
		c.Next()
	}
}
