package devapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"course-studio/internal/gateway"
)

var chatSuggestions = []string{
	"Generate learning objectives",
	"Create module structure",
	"Suggest assessments",
}

func (s *Server) chat(c *gin.Context) {
	var req gateway.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid chat request: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(c, "message is required")
		return
	}

	title := ""
	if req.CourseContext != nil {
		title = strings.TrimSpace(req.CourseContext.Title)
	}
	c.JSON(http.StatusOK, gateway.ChatResponse{
		Message:     chatReply(req.Message, title, req.CourseContext != nil),
		Suggestions: chatSuggestions,
	})
}

// chatReply picks a canned answer by keyword.
func chatReply(message, title string, hasCourse bool) string {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "objective"):
		return "I can help you create learning objectives! For this course level, consider using action verbs like 'analyze', 'evaluate', or 'apply'. Would you like me to generate some specific objectives based on your course topic?"
	case strings.Contains(m, "module"), strings.Contains(m, "content"):
		return "Course modules should follow a logical progression from foundational concepts to advanced applications. I recommend starting with an introduction, then covering core concepts, practical applications, and finally advanced topics. Would you like me to suggest a module structure?"
	case strings.Contains(m, "assessment"), strings.Contains(m, "test"):
		return "Effective assessments should align with your learning objectives. Consider using a mix of formative and summative assessments. Would you like me to suggest assessment types for your course?"
	case strings.Contains(m, "review"):
		if !hasCourse {
			return "Please configure your course details first, and I'll be happy to review them."
		}
		if title == "" {
			title = "your course"
		}
		return fmt.Sprintf("Looking at %s, I have a few suggestions:\n\n1. Consider adding more specific learning objectives\n2. Check that the duration fits the level\n3. Make sure to include practical exercises in each module", title)
	}
	return "I'm here to help you create an effective course! I can assist with:\n\n- Generating learning objectives\n- Structuring course modules\n- Creating assessments\n- Reviewing your course design\n\nWhat would you like help with?"
}
