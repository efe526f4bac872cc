package handler

import (
	"errors"
	"net/http"
	"strconv"

	"contacts_api/internal/middleware"
	"contacts_api/internal/model"
	"contacts_api/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler serves the owner scoped contact book
type ContactHandler struct {
	service service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(s service.ContactService) *ContactHandler {
	return &ContactHandler{service: s}
}

// authUser aborts with 401 when no user is attached to the context
func authUser(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.GetAuthUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return user, ok
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondValidation(c, errors.New("contact_id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func bindContact(c *gin.Context) (model.ContactRequest, bool) {
	var req model.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return req, false
	}
	if req.Birthday.IsZero() {
		respondValidation(c, errors.New("birthday is required"))
		return req, false
	}
	return req, true
}

func requiredQuery(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if v == "" {
		respondValidation(c, errors.New(name+" is required"))
		return "", false
	}
	return v, true
}

// List handles GET /contacts/
func (h *ContactHandler) List(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}

	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		respondValidation(c, err)
		return
	}

	contacts, err := h.service.List(c.Request.Context(), user, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// Birthdays handles GET /contacts/birthdays
func (h *ContactHandler) Birthdays(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}

	contacts, err := h.service.UpcomingBirthdays(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// Get handles GET /contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}

	contact, err := h.service.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// ByFirstName handles GET /contacts/first_name/
func (h *ContactHandler) ByFirstName(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	name, ok := requiredQuery(c, "contact_first_name")
	if !ok {
		return
	}

	contacts, err := h.service.SearchByFirstName(c.Request.Context(), user, name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// ByLastName handles GET /contacts/last_name/
func (h *ContactHandler) ByLastName(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	name, ok := requiredQuery(c, "contact_last_name")
	if !ok {
		return
	}

	contacts, err := h.service.SearchByLastName(c.Request.Context(), user, name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// ByEmail handles GET /contacts/email/
func (h *ContactHandler) ByEmail(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	email, ok := requiredQuery(c, "contact_email")
	if !ok {
		return
	}

	contact, err := h.service.SearchByEmail(c.Request.Context(), user, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Create handles POST /contacts/
func (h *ContactHandler) Create(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	req, ok := bindContact(c)
	if !ok {
		return
	}

	contact, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// Update handles PUT /contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}
	req, ok := bindContact(c)
	if !ok {
		return
	}

	contact, err := h.service.Update(c.Request.Context(), user, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Delete handles DELETE /contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterContactRoutes registers contact routes. Every route is rate limited and requires authentication.
func (h *ContactHandler) RegisterContactRoutes(rg *gin.RouterGroup, authMW, limitMW gin.HandlerFunc) {
	contactGroup := rg.Group("/contacts", limitMW, authMW)
	{
		contactGroup.GET("/", h.List)
		contactGroup.GET("/birthdays", h.Birthdays)
		contactGroup.GET("/first_name/", h.ByFirstName)
		contactGroup.GET("/last_name/", h.ByLastName)
		contactGroup.GET("/email/", h.ByEmail)
		contactGroup.GET("/:id", h.Get)
		contactGroup.POST("/", h.Create)
		contactGroup.PUT("/:id", h.Update)
		contactGroup.DELETE("/:id", h.Delete)
	}
}
