package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redisClient *redis.Client
}

func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{redisClient: client}
}

// Limit считает запросы в фиксированном окне. После AuthMiddleware ключом
// служит пользователь, иначе IP. Если Redis недоступен, запрос пропускаем.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := c.GetString(UserIDKey)
		if who == "" {
			who = c.ClientIP()
		}

		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, who)

		count, err := rl.redisClient.Incr(c, key).Result()
		if err != nil {
			c.Next()
			return
		}

		// Если это первый запрос (count == 1), ставим время жизни ключу.
		// Ключ без TTL заблокировал бы пользователя навсегда, поэтому при ошибке удаляем его.
		if count == 1 {
			if err := rl.redisClient.Expire(c, key, window).Err(); err != nil {
				rl.redisClient.Del(c, key)
				c.Next()
				return
			}
		}

		if count > int64(limit) {
			ttl, err := rl.redisClient.TTL(c, key).Result()
			if err == nil && ttl < 0 {
				// TTL потерян раньше: окно начинается заново
				rl.redisClient.Expire(c, key, window)
				ttl = window
			}

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": fmt.Sprintf("%.0f seconds", ttl.Seconds()),
			})
			return
		}
		c.Next()
	}
}
