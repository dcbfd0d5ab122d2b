package store

import (
	"context"
	"errors"

	"course-studio/internal/domain"
)

// CreateNewCourse replaces the current course with a fresh draft.
func (s *Store) CreateNewCourse() {
	s.update(func() bool {
		s.setCurrentLocked(domain.DefaultCourse(s.nextIDLocked(), s.now()), false)
		return true
	})
}

// UpdateCourse merges patch into the current course and stamps
// metadata.updatedDate. Metadata in the patch is ignored; no-op without a
// current course.
func (s *Store) UpdateCourse(patch domain.CoursePatch) {
	patch.Metadata = nil
	s.update(func() bool {
		c := s.state.CurrentCourse
		if c == nil {
			return false
		}
		patch.Apply(c)
		s.touchLocked(c)
		return true
	})
}

// SaveCourse sends the current course to the service and replaces it with
// the canonical response. Courses never saved before are created, the rest
// updated.
func (s *Store) SaveCourse(ctx context.Context) {
	var (
		body   *domain.Course
		create bool
		epoch  uint64
	)
	s.update(func() bool {
		if s.state.CurrentCourse == nil {
			return false
		}
		body = s.state.CurrentCourse.Clone()
		create = !s.state.Persisted && domain.IsClientID(body.ID)
		epoch = s.epoch
		s.saving++
		s.state.Error = ""
		return true
	})
	if body == nil {
		return
	}

	var (
		saved *domain.Course
		err   error
	)
	if create {
		saved, err = s.gw.CreateCourse(ctx, body)
	} else {
		saved, err = s.gw.UpdateCourse(ctx, body)
	}
	if err == nil && saved == nil {
		err = errors.New("empty response from course service")
	}

	s.update(func() bool {
		s.saving--
		if err != nil {
			s.log.Warn("save course failed", "course_id", body.ID, "create", create, "error", err)
			s.state.Error = errorMessage(err, "Failed to save course")
			return true
		}
		s.upsertLocked(saved)
		// The user moved on to another course while the save was in
		// flight; the list still learns about the saved one.
		if s.epoch == epoch {
			s.state.CurrentCourse = saved.Clone()
			s.state.Persisted = true
		}
		s.log.Info("course saved", "course_id", saved.ID, "create", create)
		return true
	})
}

func (s *Store) upsertLocked(c *domain.Course) {
	for i := range s.state.Courses {
		if s.state.Courses[i].ID == c.ID {
			s.state.Courses[i] = *c.Clone()
			return
		}
	}
	s.state.Courses = append(s.state.Courses, *c.Clone())
}

// LoadCourse fetches one course into the editor when id is set, and
// refreshes the cached course list when it is empty. A fetched course is
// dropped if a newer load started or the current course was replaced while
// the request was in flight.
func (s *Store) LoadCourse(ctx context.Context, id string) {
	if id == "" {
		s.refreshCourses(ctx)
		return
	}

	var seq, epoch uint64
	s.update(func() bool {
		s.loadSeq++
		seq = s.loadSeq
		epoch = s.epoch
		s.loading++
		s.state.Error = ""
		return true
	})

	course, err := s.gw.GetCourse(ctx, id)
	if err == nil && course == nil {
		err = errors.New("empty response from course service")
	}

	s.update(func() bool {
		s.loading--
		if err != nil {
			s.log.Warn("load course failed", "course_id", id, "error", err)
			s.state.Error = errorMessage(err, "Failed to load course")
			return true
		}
		if seq != s.loadSeq || epoch != s.epoch {
			s.log.Debug("dropping superseded course load", "course_id", id)
			return true
		}
		s.setCurrentLocked(course, true)
		return true
	})
}

func (s *Store) refreshCourses(ctx context.Context) {
	s.update(func() bool {
		s.loading++
		s.state.Error = ""
		return true
	})

	courses, err := s.gw.ListCourses(ctx)

	s.update(func() bool {
		s.loading--
		if err != nil {
			s.log.Warn("list courses failed", "error", err)
			s.state.Error = errorMessage(err, "Failed to load course")
			return true
		}
		if courses == nil {
			courses = []domain.Course{}
		}
		s.state.Courses = courses
		return true
	})
}

// DeleteCourse deletes id on the service, then drops it from the cached
// list. Deleting the course being edited resets the editor to a fresh
// draft.
func (s *Store) DeleteCourse(ctx context.Context, id string) {
	s.update(func() bool {
		s.loading++
		s.state.Error = ""
		return true
	})

	err := s.gw.DeleteCourse(ctx, id)

	s.update(func() bool {
		s.loading--
		if err != nil {
			s.log.Warn("delete course failed", "course_id", id, "error", err)
			s.state.Error = errorMessage(err, "Failed to delete course")
			return true
		}
		kept := make([]domain.Course, 0, len(s.state.Courses))
		for _, c := range s.state.Courses {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		s.state.Courses = kept
		if cur := s.state.CurrentCourse; cur != nil && cur.ID == id {
			s.setCurrentLocked(domain.DefaultCourse(s.nextIDLocked(), s.now()), false)
		}
		s.log.Info("course deleted", "course_id", id)
		return true
	})
}

// ResetCourse starts over: a fresh draft and an empty chat.
func (s *Store) ResetCourse() {
	s.update(func() bool {
		s.setCurrentLocked(domain.DefaultCourse(s.nextIDLocked(), s.now()), false)
		s.state.ChatMessages = []domain.ChatMessage{}
		s.chatEpoch++
		return true
	})
}

// DuplicateCourse turns the current course into an unsaved copy with a new
// id, " (Copy)"/"-COPY" suffixes, DRAFT status and fresh dates.
func (s *Store) DuplicateCourse() {
	s.update(func() bool {
		src := s.state.CurrentCourse
		if src == nil {
			return false
		}
		dup := src.Clone()
		dup.ID = s.nextIDLocked()
		title := src.Title
		if title == "" {
			title = "Untitled"
		}
		dup.Title = title + " (Copy)"
		dup.Code = src.Code + "-COPY"
		dup.Status = domain.StatusDraft
		ts := s.stampAfter(src.Metadata.CreatedDate, src.Metadata.UpdatedDate)
		dup.Metadata.CreatedDate = ts
		dup.Metadata.UpdatedDate = ts
		s.setCurrentLocked(dup, false)
		return true
	})
}
