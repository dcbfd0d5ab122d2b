package devapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"course-studio/internal/domain"
)

func (s *Server) listCourses(c *gin.Context) {
	title := strings.ToLower(strings.TrimSpace(c.Query("title")))
	level := c.Query("level")
	thematic := c.Query("thematic")
	status := c.Query("status")

	s.mu.Lock()
	out := make([]domain.Course, 0, len(s.courses))
	for _, course := range s.courses {
		if title != "" && !strings.Contains(strings.ToLower(course.Title), title) {
			continue
		}
		if level != "" && string(course.Level) != level {
			continue
		}
		if thematic != "" && string(course.Thematic) != thematic {
			continue
		}
		if status != "" && string(course.Status) != status {
			continue
		}
		out = append(out, *course.Clone())
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}

func (s *Server) getCourse(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(c.Param("id"))
	if i < 0 {
		notFound(c, "Course")
		return
	}
	c.JSON(http.StatusOK, s.courses[i].Clone())
}

func (s *Server) createCourse(c *gin.Context) {
	var body domain.Course
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid course: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.insertLocked(body)
	s.log.Info("course created", "course_id", created.ID, "client_id", body.ID)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateCourse(c *gin.Context) {
	var body domain.Course
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid course: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	i := s.indexLocked(id)
	if i < 0 {
		notFound(c, "Course")
		return
	}

	prev := s.courses[i]
	body.ID = id
	normalizeLists(&body)
	if body.Metadata.CreatedDate == "" {
		body.Metadata.CreatedDate = prev.Metadata.CreatedDate
	}
	if body.Metadata.Version == "" {
		body.Metadata.Version = prev.Metadata.Version
	}
	body.Metadata.UpdatedDate = domain.Timestamp(s.now())
	s.courses[i] = *body.Clone()

	c.JSON(http.StatusOK, body)
}

func (s *Server) deleteCourse(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(c.Param("id"))
	if i < 0 {
		notFound(c, "Course")
		return
	}
	s.courses = append(s.courses[:i], s.courses[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (s *Server) duplicateCourse(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(c.Param("id"))
	if i < 0 {
		notFound(c, "Course")
		return
	}

	orig := s.courses[i].Clone()
	orig.Title += " (Copy)"
	if orig.Code != "" {
		orig.Code += "-COPY"
	}
	orig.Status = domain.StatusDraft
	orig.Metadata = domain.Metadata{
		Author:       orig.Metadata.Author,
		Organization: orig.Metadata.Organization,
	}
	c.JSON(http.StatusCreated, s.insertLocked(*orig))
}

// insertLocked stores a copy of course under a fresh id and returns it.
func (s *Server) insertLocked(course domain.Course) domain.Course {
	ts := domain.Timestamp(s.now())
	course.ID = s.ids.Generate().String()
	normalizeLists(&course)
	if course.Status == "" {
		course.Status = domain.StatusDraft
	}
	if course.Metadata.CreatedDate == "" {
		course.Metadata.CreatedDate = ts
	}
	course.Metadata.UpdatedDate = ts
	if course.Metadata.Version == "" {
		course.Metadata.Version = domain.DefaultVersion
	}
	s.courses = append(s.courses, *course.Clone())
	return course
}

func (s *Server) indexLocked(id string) int {
	for i := range s.courses {
		if s.courses[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) findCourse(id string) (*domain.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	return s.courses[i].Clone(), true
}

// normalizeLists makes absent lists encode as [] rather than null.
func normalizeLists(c *domain.Course) {
	if c.LearningObjectives == nil {
		c.LearningObjectives = []domain.LearningObjective{}
	}
	if c.Modules == nil {
		c.Modules = []domain.Module{}
	}
	if c.Assessments == nil {
		c.Assessments = []domain.Assessment{}
	}
}
