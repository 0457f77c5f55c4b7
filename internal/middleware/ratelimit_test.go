package middleware

import (
  "net/http"
  "net/http/httptest"
  "testing"
  "time"

  "github.com/alicebob/miniredis/v2"
  "github.com/gin-gonic/gin"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/ratelimit"
)

func init() {
  gin.SetMode(gin.TestMode)
}

func newLimitedRouter(t *testing.T, limiter *ratelimit.FixedWindowLimiter) *gin.Engine {
  t.Helper()
  log, err := logger.New("production")
  if err != nil {
    t.Fatalf("new logger: %v", err)
  }
  router := gin.New()
  rl := NewRateLimitMiddleware(log, limiter)
  router.POST("/api/completions", rl.LimitPerUser(), func(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"message": "ok"})
  })
  return router
}

func TestLimitPerUserBlocksOverQuota(t *testing.T) {
  redis := miniredis.RunT(t)
  limiter, err := ratelimit.NewRedisFixedWindowLimiter(redis.Addr(), "", "test:ratelimit", 2, time.Minute)
  if err != nil {
    t.Fatalf("new limiter: %v", err)
  }
  router := newLimitedRouter(t, limiter)

  for i := 0; i < 2; i++ {
    w := httptest.NewRecorder()
    router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/completions", nil))
    if w.Code != http.StatusOK {
      t.Fatalf("request %d should pass, got %d", i+1, w.Code)
    }
  }
  w := httptest.NewRecorder()
  router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/completions", nil))
  if w.Code != http.StatusTooManyRequests {
    t.Fatalf("over-quota request should yield 429, got %d", w.Code)
  }
}

func TestLimitPerUserNoopWithoutLimiter(t *testing.T) {
  router := newLimitedRouter(t, nil)
  for i := 0; i < 5; i++ {
    w := httptest.NewRecorder()
    router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/completions", nil))
    if w.Code != http.StatusOK {
      t.Fatalf("no limiter configured, request %d should pass, got %d", i+1, w.Code)
    }
  }
}
