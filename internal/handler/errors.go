package handler

import (
	"net/http"

	"contacts_api/internal/logger"
	"contacts_api/internal/middleware"
	"contacts_api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var kindStatus = map[service.Kind]int{
	service.KindConflict:         http.StatusConflict,
	service.KindUnauthorized:     http.StatusUnauthorized,
	service.KindVerification:     http.StatusBadRequest,
	service.KindNotFound:         http.StatusNotFound,
	service.KindInvalidOrExpired: http.StatusBadRequest,
	service.KindValidation:       http.StatusBadRequest,
	service.KindUpstream:         http.StatusBadGateway,
}

// respondError writes the status mapped from the error kind. Unclassified errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	status, ok := kindStatus[service.KindOf(err)]
	if !ok {
		logger.WithRequestID(middleware.GetRequestID(c)).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func respondValidation(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request: " + err.Error()})
}
