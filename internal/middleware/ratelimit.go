package middleware

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/ratelimit"
  "github.com/promptdeck/promptdeck-backend/internal/requestdata"
)

type RateLimitMiddleware struct {
  log     *logger.Logger
  limiter *ratelimit.FixedWindowLimiter
}

func NewRateLimitMiddleware(log *logger.Logger, limiter *ratelimit.FixedWindowLimiter) *RateLimitMiddleware {
  middlewareLogger := log.With("Middleware", "RateLimitMiddleware")
  return &RateLimitMiddleware{log: middlewareLogger, limiter: limiter}
}

// LimitPerUser throttles the relay endpoints per authenticated user. With no
// limiter configured the middleware is a no-op.
func (rl *RateLimitMiddleware) LimitPerUser() gin.HandlerFunc {
  return func(c *gin.Context) {
    if rl.limiter == nil {
      c.Next()
      return
    }
    key := c.ClientIP()
    rd := requestdata.GetRequestData(c.Request.Context())
    if rd != nil && rd.UserID != uuid.Nil {
      key = rd.UserID.String()
    }
    if !rl.limiter.Allow(key) {
      rl.log.Warn("Rate limit exceeded", "key", key, "path", c.FullPath())
      c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
      return
    }
    c.Next()
  }
}
