package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/service/auth"
	"github.com/bloodlink/bloodlink-api/pkg/httputil"
)

const (
	// ContextProfile holds the authenticated *model.Profile
	ContextProfile = "profile"
	// ContextClaims holds the validated *auth.Claims
	ContextClaims = "claims"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and loads the caller's profile
// into the request context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
				Success: false,
				Error:   &httputil.Error{Code: http.StatusUnauthorized, Message: "missing authorization header"},
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
				Success: false,
				Error:   &httputil.Error{Code: http.StatusUnauthorized, Message: "invalid authorization format"},
			})
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
				Success: false,
				Error:   &httputil.Error{Code: http.StatusUnauthorized, Message: "invalid token"},
			})
			return
		}

		profile, err := m.authService.CurrentProfile(c.Request.Context(), claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
				Success: false,
				Error:   &httputil.Error{Code: http.StatusUnauthorized, Message: "profile not found"},
			})
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextProfile, profile)
		c.Next()
	}
}

// RequireRole gates a route group to the listed roles
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := CurrentProfile(c)
		if profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
				Success: false,
				Error:   &httputil.Error{Code: http.StatusUnauthorized, Message: "not authenticated"},
			})
			return
		}
		for _, role := range roles {
			if profile.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, httputil.Response{
			Success: false,
			Error:   &httputil.Error{Code: http.StatusForbidden, Message: "insufficient role"},
		})
	}
}

// CurrentProfile returns the authenticated profile, or nil outside an
// authenticated route
func CurrentProfile(c *gin.Context) *model.Profile {
	v, ok := c.Get(ContextProfile)
	if !ok {
		return nil
	}
	profile, ok := v.(*model.Profile)
	if !ok {
		return nil
	}
	return profile
}
