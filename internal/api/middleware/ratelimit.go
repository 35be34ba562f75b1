package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

// visitorSet tracks one token bucket per client IP. State is per
// middleware instance so two mounted limiters never share buckets.
type visitorSet struct {
	mu       sync.Mutex
	visitors map[string]*limiterEntry
	rps      float64
	burst    int
}

func (s *visitorSet) get(ip string) *limiterEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	le, ok := s.visitors[ip]
	if !ok {
		le = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.visitors[ip] = le
	}
	le.last = time.Now()
	return le
}

func (s *visitorSet) gc(idle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.visitors {
		if time.Since(v.last) > idle {
			delete(s.visitors, k)
		}
	}
}

func getIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit applies an IP-based token bucket. The burst absorbs the
// request clusters the mobile client fires on screen loads; sustained
// traffic above rps gets 429s until the bucket refills.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	set := &visitorSet{visitors: map[string]*limiterEntry{}, rps: rps, burst: burst}

	go func() {
		for range time.Tick(5 * time.Minute) {
			set.gc(10 * time.Minute)
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !set.get(getIP(r)).limiter.Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
