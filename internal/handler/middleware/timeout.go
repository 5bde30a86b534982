package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// apiRequestTimeout bounds the store-touching phase of admin requests so a
// stuck connection fails closed instead of hanging the caller.
const apiRequestTimeout = 5 * time.Second

// RequestTimeout attaches a deadline to the request context. Handlers map
// the resulting context.DeadlineExceeded to a timeout response.
func RequestTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), apiRequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
