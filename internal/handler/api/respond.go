package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondUnhandled is the catch-all for use case errors no switch arm
// claimed. A blown request deadline is reported as a timeout, not as a
// generic server failure.
func respondUnhandled(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusRequestTimeout, gin.H{
			"error": "Request timed out",
		})
		return
	}
	// Attach the cause so the error middleware can log its stack trace.
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
