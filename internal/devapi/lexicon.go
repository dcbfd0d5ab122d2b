package devapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"course-studio/internal/domain"
)

// Lexicon is the reference vocabulary served at /api/lexicon.
func Lexicon() map[string]any {
	verbs := make(map[string][]string, len(bloomVerbs))
	for level, v := range bloomVerbs {
		verbs[string(level)] = v
	}
	return map[string]any{
		"courseLevels":    domain.Levels,
		"courseThematics": domain.Thematics,
		"statusCodes":     domain.Statuses,
		"deliveryMethods": domain.DeliveryMethods,
		"assessmentTypes": domain.AssessmentTypes,
		"exportFormats":   domain.ExportFormats,
		"templates": map[string]any{
			"objectiveVerbs": verbs,
		},
	}
}

func (s *Server) lexicon(c *gin.Context) {
	c.JSON(http.StatusOK, Lexicon())
}

func (s *Server) verbs(c *gin.Context) {
	level := domain.Level(c.Param("level"))
	v, ok := bloomVerbs[level]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("No verbs found for level: %s", level)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"level": level, "verbs": v})
}
