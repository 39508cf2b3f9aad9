package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/contactsapp/backend/internal/application/services"
)

// ContactHandler serves the /api/contacts route group
type ContactHandler struct {
	svcMgr *services.ServiceManager
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(svcMgr *services.ServiceManager) *ContactHandler {
	return &ContactHandler{svcMgr: svcMgr}
}

// List handles GET /api/contacts
func (h *ContactHandler) List(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	contacts, err := h.svcMgr.Contacts.List(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// Get handles GET /api/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	contact, err := h.svcMgr.Contacts.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// Create handles POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var in services.ContactInput
	if !BindJSON(c, &in) {
		return
	}

	contact, err := h.svcMgr.Contacts.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact": contact})
}

// Update handles PUT /api/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	var in services.ContactInput
	if !BindJSON(c, &in) {
		return
	}

	contact, err := h.svcMgr.Contacts.Update(c.Request.Context(), user.ID, c.Param("id"), in)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

// Delete handles DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	if err := h.svcMgr.Contacts.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Search handles GET /api/contacts/search/?query=
func (h *ContactHandler) Search(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	contacts, err := h.svcMgr.Contacts.Search(c.Request.Context(), user.ID, c.Query("query"))
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

// Birthdays handles GET /api/contacts/birthdays/
func (h *ContactHandler) Birthdays(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}

	contacts, err := h.svcMgr.Contacts.UpcomingBirthdays(c.Request.Context(), user.ID)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}
