package handler

import (
	"errors"
	"net/http"

	"contacts_api/internal/model"
	"contacts_api/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves account endpoints for the authenticated user
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// UpdateAvatar handles PATCH /users/avatar
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondValidation(c, errors.New("file is required"))
		return
	}

	updated, err := h.service.UpdateAvatar(c.Request.Context(), user, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.ToResponse())
}

// List handles GET /users/ and is mounted behind the staff role check
func (h *UserHandler) List(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		respondValidation(c, err)
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]*model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	c.JSON(http.StatusOK, out)
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, limitMW, staffMW gin.HandlerFunc) {
	userGroup := rg.Group("/users", authMW)
	{
		userGroup.GET("/me", limitMW, h.Me)
		userGroup.PATCH("/avatar", h.UpdateAvatar)
		userGroup.GET("/", staffMW, h.List)
	}
}
