package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimit allows limit requests per period for each client IP, with a burst
// of limit. Idle limiters are evicted after a few periods.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	every := rate.Every(per / time.Duration(limit))
	limiters := cache.New(3*per, 3*per)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPForRateLimit(r)
			lim := rate.NewLimiter(every, limit)
			if err := limiters.Add(ip, lim, cache.DefaultExpiration); err != nil {
				v, ok := limiters.Get(ip)
				if ok {
					lim = v.(*rate.Limiter)
				}
			}
			limiters.SetDefault(ip, lim)
			if !lim.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIPForRateLimit keys on the peer address only. Forwarding headers are
// honored solely through chi's RealIP, which must run earlier in the chain.
func clientIPForRateLimit(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
