package handler

import (
	"bytes"
	"image"
	"image/png"
	"net/http"

	"contacts_api/internal/logger"
	"contacts_api/internal/middleware"
	"contacts_api/internal/model"
	"contacts_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// trackingPixel is a transparent 1x1 PNG served for email open tracking
var trackingPixel = func() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user.ToResponse())
}

// Login handles POST /auth/login. The OAuth2 password form carries the email in username.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidation(c, err)
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tokens)
}

// RefreshToken handles GET /auth/refresh_token with the refresh token as bearer
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	tokens, err := h.service.RefreshToken(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// ConfirmedEmail handles GET /auth/confirmed_email/:token
func (h *AuthHandler) ConfirmedEmail(c *gin.Context) {
	msg, err := h.service.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: msg})
}

// RequestEmail handles POST /auth/request_email
func (h *AuthHandler) RequestEmail(c *gin.Context) {
	var req model.RequestEmail
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	msg, err := h.service.RequestEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: msg})
}

// OpenTracking handles GET /auth/open/:username and records that a confirmation email was opened
func (h *AuthHandler) OpenTracking(c *gin.Context) {
	logger.Info("confirmation email opened", zap.String("username", c.Param("username")))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", trackingPixel)
}

// PasswordResetRequest handles POST /auth/password-reset-request
func (h *AuthHandler) PasswordResetRequest(c *gin.Context) {
	var req model.RequestEmail
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	msg, err := h.service.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: msg})
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	msg, err := h.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: msg})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.GetAuthUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/refresh_token", h.RefreshToken)
		authGroup.GET("/confirmed_email/:token", h.ConfirmedEmail)
		authGroup.POST("/request_email", h.RequestEmail)
		authGroup.GET("/open/:username", h.OpenTracking)
		authGroup.POST("/password-reset-request", h.PasswordResetRequest)
		authGroup.POST("/reset-password", h.ResetPassword)
		authGroup.POST("/logout", authMW, h.Logout)
	}
}
