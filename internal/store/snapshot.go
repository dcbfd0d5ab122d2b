package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"course-studio/internal/domain"
	"course-studio/internal/persist"
)

const snapshotVersion = 1

// snapshot is the persisted slice of State. Flags and the error are never
// written.
type snapshot struct {
	CurrentCourse *domain.Course       `json:"currentCourse"`
	Courses       []domain.Course      `json:"courses"`
	ChatMessages  []domain.ChatMessage `json:"chatMessages"`
	Persisted     *bool                `json:"persisted,omitempty"`
}

type envelope struct {
	State   snapshot `json:"state"`
	Version int      `json:"version"`
}

func encodeSnapshot(st State) ([]byte, error) {
	persisted := st.Persisted
	return json.Marshal(envelope{
		State: snapshot{
			CurrentCourse: st.CurrentCourse,
			Courses:       st.Courses,
			ChatMessages:  st.ChatMessages,
			Persisted:     &persisted,
		},
		Version: snapshotVersion,
	})
}

// Restore loads the persisted session, if any, replacing the current
// course, course list and chat. Request flags and the error start cleared.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	b, err := s.persister.Load(ctx, s.key)
	if errors.Is(err, persist.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: restore: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("store: restore: decode snapshot: %w", err)
	}
	snap := env.State

	s.update(func() bool {
		cur := snap.CurrentCourse
		persisted := cur != nil && !domain.IsClientID(cur.ID)
		if snap.Persisted != nil {
			persisted = *snap.Persisted
		}
		s.setCurrentLocked(cur, persisted)
		s.state.Courses = snap.Courses
		if s.state.Courses == nil {
			s.state.Courses = []domain.Course{}
		}
		s.state.ChatMessages = snap.ChatMessages
		if s.state.ChatMessages == nil {
			s.state.ChatMessages = []domain.ChatMessage{}
		}
		s.chatEpoch++
		s.state.Error = ""
		if cur != nil {
			if ms, ok := clientIDMillis(cur.ID); ok && ms > s.lastIDMillis {
				s.lastIDMillis = ms
			}
		}
		return true
	})
	s.log.Info("session restored", "key", s.key, "courses", len(snap.Courses), "messages", len(snap.ChatMessages))
	return nil
}

func clientIDMillis(id string) (int64, bool) {
	if !strings.HasPrefix(id, domain.ClientIDPrefix) {
		return 0, false
	}
	ms, err := strconv.ParseInt(strings.TrimPrefix(id, domain.ClientIDPrefix), 10, 64)
	return ms, err == nil
}
