package handlers

import (
	"net/http"

	"financial-advisor/api/questionnaire"

	"github.com/gin-gonic/gin"
)

// GetQuestions handles GET /api/profile/questions: the fixed question
// schema, so clients render the questionnaire from one source of truth.
func GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": questionnaire.Questions()})
}
