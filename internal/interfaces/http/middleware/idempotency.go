// internal/interfaces/http/middleware/idempotency.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/biolab-backend/internal/config"
)

// Idempotency rejects replays of mutating requests that carry an
// Idempotency-Key header. The key is claimed in Redis with SETNX; a
// second request with the same key within the TTL gets a 409.
// Requests without the header pass through unchanged.
func Idempotency(cfg *config.Config, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		redisKey := fmt.Sprintf("idempotency:%s:%s", c.Request.Method, key)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		claimed, err := redisClient.SetNX(ctx, redisKey, c.FullPath(), cfg.Security.IdempotencyKeyTTL).Result()
		if err != nil {
			// If Redis is down, allow the request
			c.Next()
			return
		}

		if !claimed {
			c.JSON(http.StatusConflict, gin.H{
				"error":           "Duplicate request",
				"idempotency_key": key,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
