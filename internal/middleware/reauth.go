package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sprint-board-api/internal/response"
)

// DefaultReauthWindow is how long a login counts as recent
const DefaultReauthWindow = 12 * time.Hour

// ContextRecentAuth holds the bool set by MarkRecentAuth
const ContextRecentAuth = "recent_auth"

// RequireRecentAuth rejects the request with REAUTH_REQUIRED when the caller
// authenticated longer than window ago or the token carries no auth time.
// now may be nil.
func RequireRecentAuth(window time.Duration, now func() time.Time) gin.HandlerFunc {
	recent := recentAuthCheck(window, now)
	return func(c *gin.Context) {
		if !recent(c) {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeReauthRequired, "Please sign in again to continue")
			return
		}
		c.Next()
	}
}

// MarkRecentAuth records whether the login is recent without rejecting the
// request, for handlers where only some inputs are destructive.
func MarkRecentAuth(window time.Duration, now func() time.Time) gin.HandlerFunc {
	recent := recentAuthCheck(window, now)
	return func(c *gin.Context) {
		c.Set(ContextRecentAuth, recent(c))
		c.Next()
	}
}

// RecentlyAuthenticated reports the value stored by MarkRecentAuth
func RecentlyAuthenticated(c *gin.Context) bool {
	return c.GetBool(ContextRecentAuth)
}

func recentAuthCheck(window time.Duration, now func() time.Time) func(*gin.Context) bool {
	if window <= 0 {
		window = DefaultReauthWindow
	}
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) bool {
		v, exists := c.Get(ContextAuthTime)
		authTime, ok := v.(time.Time)
		return exists && ok && now().Sub(authTime) <= window
	}
}
