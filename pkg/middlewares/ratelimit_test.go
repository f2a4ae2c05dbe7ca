package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gopher0727/InviteShare/utils/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(limiter ratelimit.Limiter, limit int, window time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(RateLimitMiddleware(limiter, limit, window))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func doGet(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := ratelimit.NewTokenBucketLimiter(client, zap.NewNop(), true)
	r := newLimitedRouter(limiter, 3, time.Minute)

	// 限额内的请求全部放行
	for i := 0; i < 3; i++ {
		w := doGet(r, "1.2.3.4")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	// 超限后返回 429
	w := doGet(r, "1.2.3.4")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "请求过于频繁，请稍后再试")

	// 别的 IP 不受影响
	w = doGet(r, "5.6.7.8")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_NilLimiterPassesThrough(t *testing.T) {
	r := newLimitedRouter(nil, 1, time.Minute)

	for i := 0; i < 10; i++ {
		w := doGet(r, "1.2.3.4")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_FailOpenOnRedisOutage(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := ratelimit.NewTokenBucketLimiter(client, zap.NewNop(), true)
	r := newLimitedRouter(limiter, 1, time.Minute)

	// Redis 挂掉后请求仍然放行
	mr.Close()
	w := doGet(r, "1.2.3.4")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaxConcurrencyMiddleware(t *testing.T) {
	block := make(chan struct{})
	r := gin.New()
	r.Use(MaxConcurrencyMiddleware(1))
	r.GET("/slow", func(c *gin.Context) {
		<-block
		c.JSON(http.StatusOK, gin.H{"message": "done"})
	})

	// 占住唯一的并发额度
	first := make(chan *httptest.ResponseRecorder)
	go func() {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
		first <- w
	}()

	// 等第一个请求进入 handler
	require.Eventually(t, func() bool {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
		return w.Code == http.StatusServiceUnavailable
	}, time.Second, 5*time.Millisecond)

	close(block)
	w := <-first
	assert.Equal(t, http.StatusOK, w.Code)
}
