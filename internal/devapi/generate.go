package devapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"course-studio/internal/domain"
	"course-studio/internal/gateway"
)

// bloomVerbs are objective verbs per level, lowest cognitive demand first.
var bloomVerbs = map[domain.Level][]string{
	domain.LevelAwareness:    {"identify", "recognize", "describe", "list", "recall", "name"},
	domain.LevelFoundational: {"explain", "summarize", "classify", "compare", "discuss", "interpret"},
	domain.LevelBasic:        {"apply", "demonstrate", "use", "implement", "execute", "solve"},
	domain.LevelIntermediate: {"analyze", "differentiate", "examine", "investigate", "organize", "distinguish"},
	domain.LevelAdvanced:     {"evaluate", "assess", "critique", "justify", "recommend", "judge"},
	domain.LevelExpert:       {"design", "create", "develop", "formulate", "construct", "synthesize"},
	domain.LevelSenior:       {"lead", "direct", "strategize", "transform", "innovate", "orchestrate"},
}

var levelPhrase = map[domain.Level]string{
	domain.LevelAwareness:    "introduction to",
	domain.LevelFoundational: "foundational understanding of",
	domain.LevelBasic:        "basic skills in",
	domain.LevelIntermediate: "intermediate proficiency in",
	domain.LevelAdvanced:     "advanced expertise in",
	domain.LevelExpert:       "expert-level mastery of",
	domain.LevelSenior:       "strategic leadership in",
}

func (s *Server) generate(c *gin.Context) {
	var req gateway.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid generation request: "+err.Error())
		return
	}

	gc := generationContext(req.Context)
	var data domain.CoursePatch
	switch req.GenerationType {
	case domain.GenerateObjectives:
		data.LearningObjectives = domain.Ptr(genObjectives(gc))
	case domain.GenerateModules:
		data.Modules = domain.Ptr(genModules(gc))
	case domain.GenerateAssessments:
		data.Assessments = domain.Ptr(genAssessments(gc))
	case domain.GenerateDescription:
		overview, description := genDescription(gc)
		data.Overview, data.Description = &overview, &description
	case domain.GenerateFull:
		overview, description := genDescription(gc)
		data.Overview, data.Description = &overview, &description
		data.LearningObjectives = domain.Ptr(genObjectives(gc))
		data.Modules = domain.Ptr(genModules(gc))
		data.Assessments = domain.Ptr(genAssessments(gc))
	default:
		c.JSON(http.StatusOK, gateway.GenerationResponse{
			Success: false,
			Message: fmt.Sprintf("Unknown generation type: %s", req.GenerationType),
		})
		return
	}

	s.log.Debug("content generated", "course_id", req.CourseID, "type", req.GenerationType)
	c.JSON(http.StatusOK, gateway.GenerationResponse{Success: true, Data: &data})
}

// generationContext decodes the context snapshot, falling back to defaults
// for anything missing or unparsable.
func generationContext(raw string) gateway.GenerationContext {
	var gc gateway.GenerationContext
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &gc)
	}
	if strings.TrimSpace(gc.Title) == "" {
		gc.Title = "Untitled Course"
	}
	if !gc.Level.Valid() {
		gc.Level = domain.LevelBasic
	}
	if gc.Thematic == "" {
		gc.Thematic = domain.ThematicPersonalSkills
	}
	if strings.TrimSpace(gc.TargetAudience) == "" {
		gc.TargetAudience = "Professionals"
	}
	return gc
}

func genObjectives(gc gateway.GenerationContext) []domain.LearningObjective {
	verbs := bloomVerbs[gc.Level]
	out := make([]domain.LearningObjective, 0, 5)
	for i := 0; i < 3; i++ {
		text := fmt.Sprintf("%s the key concepts and principles of %s", capitalize(verbs[i%len(verbs)]), gc.Title)
		out = append(out, domain.NewObjective(domain.ObjectiveTerminal, text, "", i+1))
	}
	parent := out[0].ID
	for i := 0; i < 2; i++ {
		text := fmt.Sprintf("%s specific techniques related to %s", capitalize(verbs[(i+3)%len(verbs)]), gc.Title)
		out = append(out, domain.NewObjective(domain.ObjectiveEnabling, text, parent, len(out)+1))
	}
	return out
}

func genModules(gc gateway.GenerationContext) []domain.Module {
	titles := []string{
		"Introduction to " + gc.Title,
		"Core Concepts of " + gc.Title,
		"Practical Applications",
		"Advanced Topics and Case Studies",
	}

	out := make([]domain.Module, 0, len(titles))
	for i, title := range titles {
		m := domain.Module{
			ID:          fmt.Sprintf("module-%d", i+1),
			Number:      i + 1,
			Title:       title,
			Description: "This module covers " + strings.ToLower(title),
		}
		for j := 1; j <= 3; j++ {
			l := domain.Lesson{
				ID:       fmt.Sprintf("lesson-%d-%d", i+1, j),
				Number:   j,
				Title:    fmt.Sprintf("Lesson %d: %s Part %d", j, title, j),
				Duration: 45,
				Content:  fmt.Sprintf("Content for %s - Part %d", title, j),
				KeyPoints: []string{
					fmt.Sprintf("Key point 1 for lesson %d", j),
					fmt.Sprintf("Key point 2 for lesson %d", j),
					fmt.Sprintf("Key point 3 for lesson %d", j),
				},
				Activities: []string{
					fmt.Sprintf("Discussion activity for lesson %d", j),
					fmt.Sprintf("Practical exercise for lesson %d", j),
				},
			}
			m.Duration += l.Duration
			m.Lessons = append(m.Lessons, l)
		}
		out = append(out, m)
	}
	return out
}

func genAssessments(gc gateway.GenerationContext) []domain.Assessment {
	return []domain.Assessment{
		{
			ID:          "assess-1",
			Type:        domain.AssessmentMultipleChoice,
			Title:       gc.Title + " Knowledge Check",
			Description: "Assess understanding of core concepts",
			Criteria: []string{
				"Demonstrate understanding of key terminology",
				"Identify correct procedures and processes",
				"Apply concepts to scenario-based questions",
			},
			PassingScore: 70,
			Duration:     30,
		},
		{
			ID:          "assess-2",
			Type:        domain.AssessmentPractical,
			Title:       gc.Title + " Practical Assessment",
			Description: "Apply learned skills in a practical scenario",
			Criteria: []string{
				"Complete all required tasks",
				"Demonstrate proper technique",
				"Achieve required performance standards",
			},
			PassingScore: 75,
			Duration:     60,
		},
	}
}

func genDescription(gc gateway.GenerationContext) (overview, description string) {
	phrase, ok := levelPhrase[gc.Level]
	if !ok {
		phrase = "introduction to"
	}
	overview = fmt.Sprintf("This course provides a comprehensive %s %s. Designed for %s, participants will gain practical knowledge and skills applicable to real-world scenarios.",
		phrase, gc.Title, gc.TargetAudience)

	description = strings.Join([]string{
		fmt.Sprintf("This %s-level course on %s is designed to equip %s with the knowledge and skills needed to excel in their roles.", gc.Level, gc.Title, gc.TargetAudience),
		"Through a combination of theoretical instruction and practical exercises, participants will develop a thorough understanding of key concepts, best practices, and emerging trends in the field.",
		"Upon completion, participants will be able to apply their learning directly to their professional responsibilities.",
	}, "\n\n")
	return overview, description
}

func (s *Server) aiStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"model":  "placeholder",
		"capabilities": []string{
			"objectives_generation",
			"modules_generation",
			"assessments_generation",
			"description_generation",
			"full_course_generation",
			"chat",
		},
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
