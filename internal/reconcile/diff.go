package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"course-studio/internal/domain"
	"course-studio/internal/export"
)

// Lister is the slice of the gateway the drift report needs.
type Lister interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
}

// Report lists how the remote catalog moved away from a cached list.
//   - Added: present remotely but not cached
//   - Changed: present in both but different (remote version)
//   - Removed: cached but gone remotely
type Report struct {
	Added   []domain.Course
	Changed []domain.Course
	Removed []export.Retired
}

func (r Report) Empty() bool {
	return len(r.Added) == 0 && len(r.Changed) == 0 && len(r.Removed) == 0
}

func (r Report) String() string {
	return fmt.Sprintf("added=%d changed=%d removed=%d", len(r.Added), len(r.Changed), len(r.Removed))
}

// Fetch lists remote courses keeping only the managed ones, i.e. those with
// a service-issued id.
func Fetch(ctx context.Context, l Lister) ([]domain.Course, error) {
	rows, err := l.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: list courses: %w", err)
	}
	return filterManaged(rows), nil
}

func filterManaged(in []domain.Course) []domain.Course {
	out := make([]domain.Course, 0, len(in))
	for _, c := range in {
		if domain.IsClientID(strings.TrimSpace(c.ID)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Diff compares the cached list with the remote one. Remote is the source of
// truth. Output slices are ordered by id.
func Diff(cached, remote []domain.Course) Report {
	remoteByID := indexByID(remote)
	cachedByID := indexByID(cached)

	var r Report
	for _, id := range sortedKeys(remoteByID) {
		rc := remoteByID[id]
		cc, ok := cachedByID[id]
		if !ok {
			r.Added = append(r.Added, rc)
			continue
		}
		if needsUpdate(rc, cc) {
			r.Changed = append(r.Changed, rc)
		}
	}

	for _, id := range sortedKeys(cachedByID) {
		if _, ok := remoteByID[id]; ok {
			continue
		}
		cc := cachedByID[id]
		r.Removed = append(r.Removed, export.Retired{
			Title:     strings.TrimSpace(cc.Title),
			CatalogID: export.CatalogID(&cc),
		})
	}
	return r
}

func indexByID(in []domain.Course) map[string]domain.Course {
	out := make(map[string]domain.Course, len(in))
	for _, c := range in {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			continue
		}
		out[id] = c
	}
	return out
}

func sortedKeys(m map[string]domain.Course) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// needsUpdate reports whether the remote copy differs from the cached one.
// When the server reports an update timestamp, that alone decides.
func needsUpdate(remote, cached domain.Course) bool {
	rTS := strings.TrimSpace(remote.Metadata.UpdatedDate)
	cTS := strings.TrimSpace(cached.Metadata.UpdatedDate)
	if rTS != "" && cTS != "" {
		rt, rerr := domain.ParseTimestamp(rTS)
		ct, cerr := domain.ParseTimestamp(cTS)
		if rerr == nil && cerr == nil {
			return !rt.Equal(ct)
		}
	}

	if norm(remote.Title) != norm(cached.Title) {
		return true
	}
	if norm(remote.Code) != norm(cached.Code) {
		return true
	}
	if norm(remote.Description) != norm(cached.Description) {
		return true
	}
	if remote.Level != cached.Level || remote.Thematic != cached.Thematic {
		return true
	}
	if remote.Status != cached.Status {
		return true
	}
	if remote.DurationHours != cached.DurationHours {
		return true
	}
	if remote.DeliveryMethod != cached.DeliveryMethod {
		return true
	}

	// list fields: only the shape, full comparison happens on load
	if len(remote.LearningObjectives) != len(cached.LearningObjectives) ||
		len(remote.Modules) != len(cached.Modules) ||
		len(remote.Assessments) != len(cached.Assessments) {
		return true
	}

	return norm(remote.Metadata.Version) != norm(cached.Metadata.Version)
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
