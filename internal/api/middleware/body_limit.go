package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"club-lodging/backend/pkg/response"
)

// BodyLimit caps request bodies at maxBytes (e.g. 1<<20 for 1MB).
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(err.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "El cuerpo de la solicitud es demasiado grande")
				return
			}
		}
	}
}
