package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"course-studio/internal/concurrency"
	"course-studio/internal/domain"
	"course-studio/internal/gateway"
)

const exportFailed = "Export failed"

// ExportCourse asks the service to render the current course and hands the
// resulting link to the Opener. A successful export without a link is
// logged and otherwise ignored.
func (s *Store) ExportCourse(ctx context.Context, format domain.ExportFormat) {
	var (
		courseID string
		started  bool
	)
	s.update(func() bool {
		if s.state.CurrentCourse == nil {
			return false
		}
		courseID = s.state.CurrentCourse.ID
		started = true
		s.loading++
		s.state.Error = ""
		return true
	})
	if !started {
		return
	}

	err := s.exportOne(ctx, courseID, format)

	s.update(func() bool {
		s.loading--
		if err != nil {
			s.state.Error = errorMessage(err, "Failed to export course")
		}
		return true
	})
}

// ExportResult is the outcome of one course in ExportAll.
type ExportResult struct {
	CourseID string
	Title    string
	Err      error
}

// ExportAll exports every course of the cached list with at most workers
// concurrent requests (the pool default when workers is not positive). Failures are reported per course; State.Error
// summarizes them.
func (s *Store) ExportAll(ctx context.Context, format domain.ExportFormat, workers int) []ExportResult {
	var courses []domain.Course
	s.update(func() bool {
		courses = s.state.clone().Courses
		s.loading++
		s.state.Error = ""
		return true
	})

	opts := concurrency.DefaultOptions()
	if workers > 0 {
		opts.MaxWorkers = workers
	}
	results, _ := concurrency.ProcessParallel(ctx, courses, opts,
		func(ctx context.Context, _ int, c domain.Course) (ExportResult, error) {
			err := s.exportOne(ctx, c.ID, format)
			return ExportResult{CourseID: c.ID, Title: c.Title, Err: err}, err
		})

	failed := 0
	for i := range results {
		if results[i].CourseID == "" {
			// never started: the context ended first
			results[i] = ExportResult{CourseID: courses[i].ID, Title: courses[i].Title, Err: ctx.Err()}
		}
		if results[i].Err != nil {
			failed++
		}
	}

	s.update(func() bool {
		s.loading--
		if failed > 0 {
			s.state.Error = fmt.Sprintf("%d of %d exports failed", failed, len(results))
		}
		return true
	})
	return results
}

func (s *Store) exportOne(ctx context.Context, courseID string, format domain.ExportFormat) error {
	resp, err := s.gw.ExportCourse(ctx, gateway.ExportRequest{
		CourseID:        courseID,
		Format:          format,
		IncludeMetadata: true,
	})
	if err != nil {
		s.log.Warn("export failed", "course_id", courseID, "format", format, "error", err)
		return err
	}
	if resp == nil {
		return errors.New("empty response from course service")
	}
	if !resp.Success {
		msg := strings.TrimSpace(resp.Message)
		if msg == "" {
			msg = exportFailed
		}
		return errors.New(msg)
	}
	if resp.DownloadURL == "" {
		s.log.Warn("export succeeded without a download url", "course_id", courseID, "format", format, "message", resp.Message)
		return nil
	}
	if s.opener == nil {
		s.log.Info("export ready", "course_id", courseID, "download_url", resp.DownloadURL)
		return nil
	}
	if err := s.opener.Open(ctx, resp.DownloadURL); err != nil {
		return fmt.Errorf("open %s: %w", resp.DownloadURL, err)
	}
	return nil
}
