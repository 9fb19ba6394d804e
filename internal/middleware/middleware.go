package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RunThrottle limits how often each client may trigger a reconciliation run.
// A run re-ingests the whole mailbox; back-to-back triggers are never useful.
type RunThrottle struct {
	clients map[string]time.Time
	mu      sync.Mutex
	limit   time.Duration
}

func NewRunThrottle(limit time.Duration) *RunThrottle {
	return &RunThrottle{
		clients: make(map[string]time.Time),
		limit:   limit,
	}
}

func (t *RunThrottle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader("X-Client-ID")
		if clientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Client-ID header required"})
			c.Abort()
			return
		}
		t.mu.Lock()
		last, exists := t.clients[clientID]
		if exists && time.Since(last) < t.limit {
			t.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		t.clients[clientID] = time.Now()
		t.mu.Unlock()
		c.Next()
	}
}
