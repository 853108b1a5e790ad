package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nhle/lacquer/internal/auth"
)

const userIDKey = "userID"

// requireUser resolves the caller or stops the request. Browsers are
// redirected to the sign-in page; API clients get a 401 with the redirect.
func (s *Server) requireUser(c *gin.Context) {
	token := auth.TokenFromRequest(c.Request, s.authCfg.CookieName)

	userID, err := s.auth.Resolve(c.Request.Context(), token)
	if err != nil {
		if !auth.IsAuthError(err) {
			s.logger.Error("resolving user", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to verify session. Please try again.",
			})
			return
		}

		if strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.Redirect(http.StatusFound, s.authCfg.SignInURL)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success":  false,
			"error":    auth.ErrAuthRequired,
			"redirect": s.authCfg.SignInURL,
		})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}
