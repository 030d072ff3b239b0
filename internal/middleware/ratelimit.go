package middleware

import (
	"net"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimit throttles requests per client IP.
func RateLimit(requestsPerSecond int, burst int, log *zap.Logger) func(http.Handler) http.Handler {
	visitors := make(map[string]*rate.Limiter)
	var mu sync.Mutex

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, _ := net.SplitHostPort(r.RemoteAddr)

			mu.Lock()
			limiter, exists := visitors[ip]
			if !exists {
				limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
				visitors[ip] = limiter
			}
			mu.Unlock()

			if !limiter.Allow() {
				log.Warn("request throttled", zap.String("ip", ip), zap.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
