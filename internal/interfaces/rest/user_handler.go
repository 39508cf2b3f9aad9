package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactsapp/backend/internal/application/services"
	"github.com/contactsapp/backend/internal/domain/models"
)

// UserHandler serves the /api/users route group
type UserHandler struct {
	svcMgr *services.ServiceManager
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(svcMgr *services.ServiceManager) *UserHandler {
	return &UserHandler{svcMgr: svcMgr}
}

func publicUser(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"full_name": u.FullName,
		"avatar":    u.Avatar,
		"confirmed": u.Confirmed,
		"role":      u.Role,
	}
}

// GetMe handles GET /api/users/me. The profile read goes through the Redis
// cache, unlike the session snapshot served by /api/auth/me.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	profile, err := h.svcMgr.Users.GetByEmail(c.Request.Context(), user.Email)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": publicUser(profile)})
}

// UpdateAvatar handles PATCH /api/users/avatar (admin only)
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	profile, err := h.svcMgr.Users.UpdateAvatar(c.Request.Context(), user.Role, user.Email, file,
		func(dst string) error {
			return c.SaveUploadedFile(file, dst)
		})
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": publicUser(profile)})
}
