package rest

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactsapp/backend/pkg/auth"
	"github.com/contactsapp/backend/pkg/constants"
	"github.com/contactsapp/backend/pkg/errors"
)

// GetUserFromContext extracts the authenticated user from gin.Context.
// Returns nil when the request was not authenticated.
func GetUserFromContext(c *gin.Context) *auth.UserSession {
	userInterface, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}

	user := userInterface.(auth.UserSession)
	return &user
}

// RespondAppError sends a standardised JSON error response using pkg/errors
func RespondAppError(c *gin.Context, err error) {
	code := errors.GetHTTPStatus(err)
	errorCode := errors.GetErrorCode(err)
	message := err.Error()

	if code >= 500 {
		log.Printf("❌ ERROR [%d] %s %s: %s", code, c.Request.Method, c.Request.URL.Path, message)
	}

	c.JSON(code, gin.H{
		constants.ResponseError:   message,
		constants.ResponseMessage: message,
		"code":                    errorCode,
		"data":                    nil,
	})
}

// RespondError sends an ad-hoc error with an explicit status code
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		constants.ResponseError:   message,
		constants.ResponseMessage: message,
		"data":                    nil,
	})
}

// BindJSON binds the request body and replies 400 on failure.
// Returns true when binding succeeded.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, errors.NewValidationError("body", err.Error()))
		return false
	}
	return true
}

// RespondMessage sends a bare success message envelope
func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{constants.ResponseMessage: message})
}

// must is a tiny helper for handlers that only need the user
func mustUser(c *gin.Context) (*auth.UserSession, bool) {
	user := GetUserFromContext(c)
	if user == nil {
		RespondError(c, http.StatusUnauthorized, "User not found")
		return nil, false
	}
	return user, true
}
