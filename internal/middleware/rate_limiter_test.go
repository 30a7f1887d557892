package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(limit int, window time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(RateLimiter(limit, window))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	r := limitedRouter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	r := limitedRouter(2, time.Minute)

	hit(r, "10.0.0.2")
	hit(r, "10.0.0.2")
	w := hit(r, "10.0.0.2")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiterTracksIPsSeparately(t *testing.T) {
	r := limitedRouter(1, time.Minute)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.3").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.3").Code)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.4").Code)
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	r := limitedRouter(1, 30*time.Millisecond)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.5").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.5").Code)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.5").Code)
}
