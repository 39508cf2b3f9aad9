package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contactsapp/backend/internal/application/services"
	"github.com/contactsapp/backend/pkg/auth"
	"github.com/contactsapp/backend/pkg/constants"
)

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		constants.ResponseError:   "Unauthorized",
		constants.ResponseMessage: message,
		"code":                    "UNAUTHORIZED",
		"data":                    nil,
	})
	c.Abort()
}

// RequireAuth validates the bearer JWT and its session revocation state
func RequireAuth(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			unauthorized(c, "No authorization token provided")
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := parts[1]

		claims, err := authSvc.ValidateSession(c.Request.Context(), tokenString)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		// Update last activity (fire and forget)
		authSvc.TouchSession(claims.RegisteredClaims.ID)

		c.Set(constants.ContextKeyUser, claims.User)
		c.Set(constants.ContextKeyToken, tokenString)

		c.Next()
	}
}

// RequireAdmin checks that the authenticated user has the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userInterface, exists := c.Get(constants.ContextKeyUser)
		if !exists {
			unauthorized(c, "User not authenticated")
			return
		}

		user := userInterface.(auth.UserSession)
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				constants.ResponseError:   "Forbidden",
				constants.ResponseMessage: "Only administrators can access this resource",
				"code":                    "FORBIDDEN",
				"data":                    nil,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
