package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taskSearch/internal/logger"

	"go.uber.org/zap"
)

// RateLimiter считает запросы каждого IP в фиксированном окне.
// Клиенты с истёкшим окном удаляются из таблицы не реже раза в окно.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mtx       sync.Mutex
	clients   map[string]*clientWindow
	nextSweep time.Time
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

type decision struct {
	allowed    bool
	remaining  int
	resetAt    time.Time
	retryAfter time.Duration
}

type LimiterOption func(*RateLimiter)

func WithLimiterClock(now func() time.Time) LimiterOption {
	return func(l *RateLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

func NewRateLimiter(limit int, window time.Duration, options ...LimiterOption) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	l := &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*clientWindow),
	}
	for _, option := range options {
		option(l)
	}
	l.nextSweep = l.now().Add(window)
	return l
}

// RateLimit - лимит запросов в минуту на IP; rpm <= 0 отключает ограничение
func RateLimit(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return NewRateLimiter(rpm, time.Minute).Middleware
}

func (l *RateLimiter) allow(ip string) decision {
	now := l.now()

	l.mtx.Lock()
	defer l.mtx.Unlock()

	if !now.Before(l.nextSweep) {
		l.sweep(now)
		l.nextSweep = now.Add(l.window)
	}

	client, ok := l.clients[ip]
	if !ok || !now.Before(client.resetAt) {
		client = &clientWindow{resetAt: now.Add(l.window)}
		l.clients[ip] = client
	}

	if client.count >= l.limit {
		return decision{resetAt: client.resetAt, retryAfter: client.resetAt.Sub(now)}
	}
	client.count++
	return decision{allowed: true, remaining: l.limit - client.count, resetAt: client.resetAt}
}

func (l *RateLimiter) sweep(now time.Time) {
	for ip, client := range l.clients {
		if !now.Before(client.resetAt) {
			delete(l.clients, ip)
		}
	}
}

// Clients - число адресов в таблице лимитов
func (l *RateLimiter) Clients() int {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return len(l.clients)
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		d := l.allow(ip)

		header := w.Header()
		header.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		header.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
		header.Set("X-RateLimit-Reset", strconv.FormatInt(d.resetAt.Unix(), 10))

		if d.allowed {
			next.ServeHTTP(w, r)
			return
		}

		retryAfter := int(math.Ceil(d.retryAfter.Seconds()))
		logger.Warn("HTTP: Превышен лимит запросов",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("client_ip", ip),
			zap.Int("retry_after", retryAfter))

		header.Set("Retry-After", strconv.Itoa(retryAfter))
		header.Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		if err := json.NewEncoder(w).Encode(map[string]any{
			"error":       "rate_limit_exceeded",
			"message":     "Слишком много запросов. Попробуйте позже.",
			"retry_after": retryAfter,
			"request_id":  GetRequestID(r.Context()),
		}); err != nil {
			logger.Error("HTTP: Ошибка кодирования ответа", err)
		}
	})
}
