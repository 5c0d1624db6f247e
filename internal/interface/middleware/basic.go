package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"user-management-api/internal/application"
	"user-management-api/pkg/response"
)

// BasicAuth is the security filter guarding the user CRUD surface. It resolves
// the principal by email through the auth service and matches the supplied
// password against the stored hash. The principal never leaves the filter.
func BasicAuth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="users"`)
			resp := response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		p, err := auth.Authenticate(c.Request.Context(), email, password)
		if err != nil {
			c.Header("WWW-Authenticate", `Basic realm="users"`)
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Set("userEmail", p.Username)
		c.Set("authorities", p.Authorities)
		c.Next()
	}
}
