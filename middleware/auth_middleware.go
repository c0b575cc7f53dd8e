package middleware

import (
	"net/http"
	"strings"

	"github.com/andrepriyanto/cctvadmin/services"
	"github.com/andrepriyanto/cctvadmin/utils"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware resolves the bearer token into an Identity and stores it in
// the request context. Controllers hand that Identity to the services
// explicitly; nothing downstream reads auth state ambiently.
func AuthMiddleware(issuer *utils.JWTIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := issuer.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, services.Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// CurrentIdentity returns the Identity set by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (services.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return services.Identity{}, false
	}
	ident, ok := v.(services.Identity)
	return ident, ok
}
