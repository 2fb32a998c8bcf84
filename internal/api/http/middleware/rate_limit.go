package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit applies a process-wide token bucket to the group it is mounted
// on. The generation endpoints use it so a runaway client cannot hog the
// simulated stream loop; the default limit is generous enough that normal
// chat traffic never sees a 429.
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rps, burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
