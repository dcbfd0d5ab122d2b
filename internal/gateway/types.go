package gateway

import "course-studio/internal/domain"

// GenerationRequest is the body of POST /ai/generate. Context is a JSON
// snapshot of the fields the generator conditions on.
type GenerationRequest struct {
	CourseID       string                `json:"courseId"`
	GenerationType domain.GenerationType `json:"generationType"`
	Context        string                `json:"context,omitempty"`
	Preferences    map[string]any        `json:"preferences,omitempty"`
}

type GenerationResponse struct {
	Success    bool                `json:"success"`
	Data       *domain.CoursePatch `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	TokensUsed int                 `json:"tokens_used,omitempty"`
}

// GenerationContext is what gets serialized into GenerationRequest.Context.
type GenerationContext struct {
	Title          string          `json:"title"`
	Level          domain.Level    `json:"level,omitempty"`
	Thematic       domain.Thematic `json:"thematic,omitempty"`
	TargetAudience string          `json:"targetAudience"`
}

type ChatRequest struct {
	Message       string         `json:"message"`
	CourseContext *domain.Course `json:"courseContext"`
}

type ChatResponse struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type ExportRequest struct {
	CourseID        string              `json:"courseId"`
	Format          domain.ExportFormat `json:"format"`
	IncludeMetadata bool                `json:"includeMetadata"`
}

type ExportResponse struct {
	Success     bool   `json:"success"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Message     string `json:"message,omitempty"`
}
