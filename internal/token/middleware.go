package token

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAccount gates a route group behind HTTP basic auth with the
// account SID as username and the auth token as password, the same
// credential pair the outbound client presents. Comparison is constant
// time. It does not inject identity; the account is process-wide.
func RequireAccount(accountSID, authToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="api"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(accountSID)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(authToken)) == 1
		if !userOK || !passOK {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.Next()
	}
}
