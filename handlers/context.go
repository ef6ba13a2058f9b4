package handlers

import (
	"net/http"

	"financial-advisor/api/logger"
	"financial-advisor/api/models"

	"github.com/gin-gonic/gin"
)

// currentClaims pulls the authenticated caller's claims set by the auth
// middleware, writing a 401 response when they are missing.
func currentClaims(c *gin.Context) (*models.AppClaims, bool) {
	user, exists := c.Get("user")
	if !exists {
		logger.Get().Error("user not authenticated")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	claims, ok := user.(*models.AppClaims)
	if !ok {
		logger.Get().Error("invalid user claims")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user claims"})
		return nil, false
	}

	return claims, true
}
