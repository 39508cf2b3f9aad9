package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactsapp/backend/internal/application/services"
	"github.com/contactsapp/backend/internal/infrastructure/database"
	"github.com/contactsapp/backend/internal/interfaces/middleware"
	"github.com/contactsapp/backend/pkg/auth"
	"github.com/contactsapp/backend/pkg/constants"
)

// newUserRouter mirrors the production /api/users group: authenticated user in
// context, admin gate mounted on the avatar route.
func newUserRouter(t *testing.T, role string) (*gin.Engine, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svcMgr := services.NewServiceManager(database.WrapDB(db), nil)
	handler := NewUserHandler(svcMgr)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUser, auth.UserSession{
			ID: "user-1", FullName: "Jane Doe", Email: "jane@example.com", Role: role,
		})
	})

	group := router.Group("/api/users")
	group.GET("/me", handler.GetMe)
	group.PATCH("/avatar", middleware.RequireAdmin(), handler.UpdateAvatar)

	return router, mock, func() { db.Close() }
}

func TestGetMeEndpoint(t *testing.T) {
	router, mock, closeDB := newUserRouter(t, constants.RoleUser)
	defer closeDB()

	rows := sqlmock.NewRows([]string{"id", "email", "password", "full_name", "avatar",
		"confirmed", "role", "created_date", "last_modified_date"}).
		AddRow("user-1", "jane@example.com", "hash", "Jane Doe", nil, true, constants.RoleUser,
			time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1 LIMIT 1").
		WithArgs("jane@example.com").
		WillReturnRows(rows)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe")
	// The password hash must never leave the server
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestUpdateAvatarForbiddenForRegularUser(t *testing.T) {
	router, mock, closeDB := newUserRouter(t, constants.RoleUser)
	defer closeDB()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/users/avatar", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "administrators")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAvatarRequiresFile(t *testing.T) {
	router, mock, closeDB := newUserRouter(t, constants.RoleAdmin)
	defer closeDB()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/users/avatar", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file uploaded")
	assert.NoError(t, mock.ExpectationsWereMet())
}
