package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one entry of the assistant conversation. History is
// append-only and only ever cleared as a whole.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NewChatMessage stamps a message with a fresh id and time.
func NewChatMessage(role Role, content string, now time.Time) ChatMessage {
	return ChatMessage{
		ID:        "msg-" + uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: Timestamp(now),
	}
}

// NewObjective builds an objective with a generated id. parentID is only
// kept for enabling objectives.
func NewObjective(kind ObjectiveType, text, parentID string, order int) LearningObjective {
	o := LearningObjective{
		ID:    "obj-" + uuid.NewString(),
		Type:  kind,
		Text:  text,
		Order: order,
	}
	if kind == ObjectiveEnabling {
		o.ParentID = parentID
	}
	return o
}
