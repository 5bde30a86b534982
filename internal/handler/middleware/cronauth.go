package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"capacity-engine/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

// cronRequestTimeout bounds externally triggered job runs so a stuck
// database cannot hold the scheduler's HTTP call open forever. Population
// runs one transaction per candidate slot, so this is generous.
const cronRequestTimeout = 10 * time.Minute

type CronAuthMiddleware struct {
	secret string
}

func NewCronAuthMiddleware(cfg config.CronConfig) *CronAuthMiddleware {
	return &CronAuthMiddleware{secret: cfg.Secret}
}

// RequireSecret gates the /cron endpoints behind the shared-secret bearer
// token the external scheduler sends. Not a user identity: just proof the
// caller is the scheduler.
func (m *CronAuthMiddleware) RequireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(m.secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid cron secret",
			})
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cronRequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
