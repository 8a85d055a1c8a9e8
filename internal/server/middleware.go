package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookhaven/bookstore-api/internal/shared/httpapi"

	userports "github.com/bookhaven/bookstore-api/internal/domains/users/ports"
)

const principalKey = "bookstore.principal"

// Authenticate resolves the bearer token to a server-verified principal and
// stores it in the request context. Requests without a valid session never
// reach the handlers behind it.
func Authenticate(users userports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			httpapi.Unauthorized(c)
			return
		}
		principal, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			httpapi.Unauthorized(c)
			return
		}
		c.Set(principalKey, *principal)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. It must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok || !principal.IsAdmin() {
			httpapi.Unauthorized(c)
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) (userports.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return userports.Principal{}, false
	}
	principal, ok := value.(userports.Principal)
	return principal, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
