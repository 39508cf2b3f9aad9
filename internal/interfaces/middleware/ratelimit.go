package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contactsapp/backend/internal/infrastructure/cache"
	"github.com/contactsapp/backend/pkg/auth"
	"github.com/contactsapp/backend/pkg/constants"
)

// RateLimit enforces a fixed-window per-user request budget backed by Redis.
// When Redis is unavailable the limiter fails open: availability beats
// strictness for a read endpoint.
func RateLimit(redisCache *cache.RedisCache, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		if userInterface, exists := c.Get(constants.ContextKeyUser); exists {
			user := userInterface.(auth.UserSession)
			key = "ratelimit:" + user.ID
		}
		key = fmt.Sprintf("%s:%s", key, c.FullPath())

		count, err := redisCache.Incr(c.Request.Context(), key, window)
		if err != nil {
			log.Printf("⚠️ Rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		if count > limit {
			c.JSON(http.StatusTooManyRequests, gin.H{
				constants.ResponseError:   "Too Many Requests",
				constants.ResponseMessage: fmt.Sprintf("Rate limit of %d requests per %v exceeded", limit, window),
				"code":                    "RATE_LIMITED",
				"data":                    nil,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
