package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rimsapp/rims-activation/pkg/response"
	"github.com/rimsapp/rims-activation/pkg/session"
)

// SessionAuth validates the session cookie and ensures an active session
// exists server-side. It sets userID in the Gin context on success.
func SessionAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing session")
			return
		}
		claims, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid session")
			return
		}
		c.Set("userID", claims.UserID)
		c.Next()
	}
}
