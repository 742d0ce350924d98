package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response. FAQ endpoints use this for their
// questions_and_answers payloads; the chat stream bypasses it and writes
// plain text directly.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}
