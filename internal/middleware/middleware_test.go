package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskSearch/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Request-ID", middleware.GetRequestID(r.Context()))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// TestRequestID тестирует генерацию и проброс идентификатора запроса
func TestRequestID(t *testing.T) {
	h := middleware.RequestID(okHandler())

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Header().Get("X-Seen-Request-ID"))
	})

	t.Run("too long is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", strings.Repeat("x", 500))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		id := w.Header().Get("X-Request-ID")
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Header().Get("X-Seen-Request-ID"))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "abc-123", w.Header().Get("X-Seen-Request-ID"))
	})
}

// TestLogging тестирует, что обёртка не искажает ответ
func TestLogging(t *testing.T) {
	h := middleware.RequestID(middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("short and stout"))
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tea?q=1", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short and stout", w.Body.String())
}

// TestLogging_ChiRoute тестирует работу внутри роутера chi
func TestLogging_ChiRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging)
	r.Get("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chi.URLParam(r, "id")))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func callFrom(h http.Handler, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// TestRateLimiter тестирует лимит и сброс окна
func TestRateLimiter(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	limiter := middleware.NewRateLimiter(2, time.Minute, middleware.WithLimiterClock(clock.Now))
	h := limiter.Middleware(okHandler())

	first := callFrom(h, "10.0.0.1:1000")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.1:1001").Code)

	clock.Advance(20 * time.Second)
	limited := callFrom(h, "10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Contains(t, limited.Body.String(), "rate_limit_exceeded")
	assert.Equal(t, "40", limited.Header().Get("Retry-After"))
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))

	// другой клиент считается отдельно
	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.2:1000").Code)

	clock.Advance(41 * time.Second)
	assert.Equal(t, http.StatusOK, callFrom(h, "10.0.0.1:1003").Code)
}

// TestRateLimiter_EvictsExpiredClients тестирует удаление клиентов с истёкшим окном
func TestRateLimiter_EvictsExpiredClients(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	limiter := middleware.NewRateLimiter(5, time.Minute, middleware.WithLimiterClock(clock.Now))
	h := limiter.Middleware(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"} {
		require.Equal(t, http.StatusOK, callFrom(h, addr).Code)
	}
	assert.Equal(t, 3, limiter.Clients())

	// окно ещё не истекло - таблица не чистится
	clock.Advance(30 * time.Second)
	require.Equal(t, http.StatusOK, callFrom(h, "10.0.0.4:1").Code)
	assert.Equal(t, 4, limiter.Clients())

	// окна первых трёх истекли, остаются 10.0.0.4 и новый клиент
	clock.Advance(31 * time.Second)
	require.Equal(t, http.StatusOK, callFrom(h, "10.0.0.5:1").Code)
	assert.Equal(t, 2, limiter.Clients())

	clock.Advance(2 * time.Minute)
	require.Equal(t, http.StatusOK, callFrom(h, "10.0.0.5:2").Code)
	assert.Equal(t, 1, limiter.Clients())
}

// TestRateLimit_Disabled тестирует отключённый лимит
func TestRateLimit_Disabled(t *testing.T) {
	h := middleware.RateLimit(0)(okHandler())

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}
