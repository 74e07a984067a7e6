package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/rotehq/notebridge/internal/pkg/errcode"
	"github.com/rotehq/notebridge/internal/pkg/response"
)

const limiterMaxEntries = 4096

type rateLimiter struct {
	window time.Duration
	seen   *expirable.LRU[string, time.Time]
	now    func() time.Time
}

// RateLimit rejects a client that repeats the same endpoint within the
// window. Conversions are heavyweight one-shot operations; the limiter
// keeps a bounded, self-expiring record of recent callers.
func RateLimit(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	limiter := &rateLimiter{
		window: window,
		seen:   expirable.NewLRU[string, time.Time](limiterMaxEntries, nil, window),
		now:    time.Now,
	}
	return limiter.handle
}

func (l *rateLimiter) handle(c *gin.Context) {
	if l.window <= 0 {
		c.Next()
		return
	}
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	key := strings.Join([]string{c.ClientIP(), path}, "|")

	if last, ok := l.seen.Get(key); ok && l.now().Sub(last) < l.window {
		logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
			zap.String("ip", c.ClientIP()),
			zap.String("path", path),
		)
		response.Error(c, errcode.ErrTooMany, http.StatusText(http.StatusTooManyRequests))
		c.Abort()
		return
	}
	l.seen.Add(key, l.now())
	c.Next()
}
