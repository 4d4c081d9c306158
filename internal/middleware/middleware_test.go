package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("generates an id when absent", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) { c.String(200, "OK") })

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got == "" {
			t.Error("expected a generated X-Request-ID header")
		}
	})

	t.Run("preserves caller id", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		var seen interface{}
		router.GET("/test", func(c *gin.Context) {
			seen, _ = c.Get("request_id")
			c.String(200, "OK")
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "caller-id-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Header().Get("X-Request-ID") != "caller-id-1" {
			t.Errorf("expected caller id echoed, got %q", w.Header().Get("X-Request-ID"))
		}
		if seen != "caller-id-1" {
			t.Errorf("expected request_id in context, got %v", seen)
		}
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("allows requests within limit", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimiter(10, 10))
		router.GET("/test", func(c *gin.Context) { c.String(200, "OK") })

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != 200 {
			t.Errorf("expected status 200, got %d", w.Code)
		}
	})

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimiter(1, 1))
		router.GET("/test", func(c *gin.Context) { c.String(200, "OK") })

		req1 := httptest.NewRequest("GET", "/test", nil)
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, req1)
		if w1.Code != 200 {
			t.Errorf("first request: expected status 200, got %d", w1.Code)
		}

		req2 := httptest.NewRequest("GET", "/test", nil)
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, req2)
		if w2.Code != http.StatusTooManyRequests {
			t.Errorf("second request: expected status 429, got %d", w2.Code)
		}
	})

	t.Run("separate callers get separate budgets", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimiter(1, 1))
		router.GET("/test", func(c *gin.Context) { c.String(200, "OK") })

		req1 := httptest.NewRequest("GET", "/test", nil)
		req1.Header.Set("x-api-key", "caller-a")
		w1 := httptest.NewRecorder()
		router.ServeHTTP(w1, req1)

		req2 := httptest.NewRequest("GET", "/test", nil)
		req2.Header.Set("x-api-key", "caller-b")
		w2 := httptest.NewRecorder()
		router.ServeHTTP(w2, req2)

		if w1.Code != 200 || w2.Code != 200 {
			t.Errorf("expected both callers allowed, got %d and %d", w1.Code, w2.Code)
		}
	})
}

func TestCallerKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"api key header", map[string]string{"x-api-key": "k1"}, "k1"},
		{"bearer token", map[string]string{"Authorization": "Bearer tok1"}, "tok1"},
		{"api key wins over bearer", map[string]string{"x-api-key": "k1", "Authorization": "Bearer tok1"}, "k1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/test", nil)
			for k, v := range tc.header {
				c.Request.Header.Set(k, v)
			}
			if got := callerKey(c); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
