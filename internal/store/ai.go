package store

import (
	"context"
	"errors"
	"strings"

	"course-studio/internal/domain"
	"course-studio/internal/gateway"
)

const (
	generationFailed = "Generation failed"
	chatNoReply      = "I apologize, but I could not process your request."
	chatApology      = "I apologize, but an error occurred. Please try again."
)

// GenerateContent asks the service for content of the given kind and
// merges the returned fields into the current course. A response is only
// applied if no newer generation was started and the current course was
// not replaced in the meantime.
func (s *Store) GenerateContent(ctx context.Context, kind domain.GenerationType) {
	var (
		req      gateway.GenerationRequest
		buildErr error
		ok       bool
		seq      uint64
		epoch    uint64
	)
	s.update(func() bool {
		c := s.state.CurrentCourse
		if c == nil {
			return false
		}
		ok = true
		s.state.Error = ""
		req, buildErr = gateway.NewGenerationRequest(c, kind)
		if buildErr != nil {
			s.state.Error = errorMessage(buildErr, "Failed to generate content")
			return true
		}
		s.genSeq++
		seq = s.genSeq
		epoch = s.epoch
		s.generating++
		return true
	})
	if !ok || buildErr != nil {
		return
	}

	resp, err := s.gw.GenerateContent(ctx, req)
	if err == nil && resp == nil {
		err = errors.New("empty response from course service")
	}

	s.update(func() bool {
		s.generating--
		if seq != s.genSeq || epoch != s.epoch || s.state.CurrentCourse == nil {
			s.log.Debug("dropping stale generation response", "generation_type", kind, "course_id", req.CourseID)
			return true
		}
		if err != nil {
			s.log.Warn("generation failed", "generation_type", kind, "error", err)
			s.state.Error = errorMessage(err, "Failed to generate content")
			return true
		}
		if !resp.Success || resp.Data == nil {
			msg := strings.TrimSpace(resp.Message)
			if msg == "" {
				msg = generationFailed
			}
			s.state.Error = msg
			return true
		}
		patch := *resp.Data
		// generated content never re-keys the course
		patch.ID = nil
		c := s.state.CurrentCourse
		patch.Apply(c)
		s.touchLocked(c)
		s.log.Info("generated content merged", "generation_type", kind, "course_id", c.ID, "tokens_used", resp.TokensUsed)
		return true
	})
}

// SendChatMessage appends the user's message, sends it with the current
// course as context and appends the assistant's reply. Failures show up
// both as an apology in the chat and in State.Error. Blank messages are
// ignored.
func (s *Store) SendChatMessage(ctx context.Context, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}
	var (
		course    *domain.Course
		chatEpoch uint64
	)
	s.update(func() bool {
		s.state.ChatMessages = append(s.state.ChatMessages, domain.NewChatMessage(domain.RoleUser, content, s.now()))
		course = s.state.CurrentCourse.Clone()
		chatEpoch = s.chatEpoch
		s.chatting++
		return true
	})

	resp, err := s.gw.SendChatMessage(ctx, content, course)

	s.update(func() bool {
		s.chatting--
		if chatEpoch != s.chatEpoch {
			s.log.Debug("dropping chat reply for cleared conversation")
			return true
		}
		if err != nil {
			s.log.Warn("chat failed", "error", err)
			s.state.ChatMessages = append(s.state.ChatMessages, domain.NewChatMessage(domain.RoleAssistant, chatApology, s.now()))
			s.state.Error = errorMessage(err, "Chat error")
			return true
		}
		reply := ""
		if resp != nil {
			reply = resp.Message
		}
		if reply == "" {
			reply = chatNoReply
		}
		s.state.ChatMessages = append(s.state.ChatMessages, domain.NewChatMessage(domain.RoleAssistant, reply, s.now()))
		return true
	})
}

// ClearChat wipes the conversation. Replies still in flight are discarded.
func (s *Store) ClearChat() {
	s.update(func() bool {
		s.state.ChatMessages = []domain.ChatMessage{}
		s.chatEpoch++
		return true
	})
}

func (s *Store) SetError(msg string) {
	s.update(func() bool {
		s.state.Error = msg
		return true
	})
}

func (s *Store) ClearError() {
	s.SetError("")
}
