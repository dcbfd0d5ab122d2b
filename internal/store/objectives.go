package store

import "course-studio/internal/domain"

func (s *Store) AddObjective(o domain.LearningObjective) {
	s.editObjectives(func(list []domain.LearningObjective) ([]domain.LearningObjective, bool) {
		return append(list, o), true
	})
}

// UpdateObjective merges patch into the objective with the given id.
func (s *Store) UpdateObjective(id string, patch domain.ObjectivePatch) {
	s.editObjectives(func(list []domain.LearningObjective) ([]domain.LearningObjective, bool) {
		found := false
		for i := range list {
			if list[i].ID == id {
				patch.Apply(&list[i])
				found = true
			}
		}
		return list, found
	})
}

// RemoveObjective removes id and its direct children (objectives whose
// parentId is id). Grandchildren are left in place. An empty id never
// matches a missing parent.
func (s *Store) RemoveObjective(id string) {
	s.editObjectives(func(list []domain.LearningObjective) ([]domain.LearningObjective, bool) {
		kept := make([]domain.LearningObjective, 0, len(list))
		for _, o := range list {
			if o.ID != id && (id == "" || o.ParentID != id) {
				kept = append(kept, o)
			}
		}
		return kept, len(kept) != len(list)
	})
}

// ReorderObjectives rebuilds the list in the given id order, setting each
// objective's order to its index in ids. Objectives missing from ids are
// dropped; unknown and repeated ids are skipped.
func (s *Store) ReorderObjectives(ids []string) {
	s.editObjectives(func(list []domain.LearningObjective) ([]domain.LearningObjective, bool) {
		byID := make(map[string]domain.LearningObjective, len(list))
		for _, o := range list {
			if _, dup := byID[o.ID]; !dup {
				byID[o.ID] = o
			}
		}
		out := make([]domain.LearningObjective, 0, len(ids))
		seen := make(map[string]bool, len(ids))
		for i, id := range ids {
			o, ok := byID[id]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			o.Order = i
			out = append(out, o)
		}
		return out, true
	})
}

// editObjectives applies fn to a copy of the current objectives and stores
// the result when fn reports a change.
func (s *Store) editObjectives(fn func([]domain.LearningObjective) ([]domain.LearningObjective, bool)) {
	s.update(func() bool {
		c := s.state.CurrentCourse
		if c == nil {
			return false
		}
		list := append([]domain.LearningObjective(nil), c.LearningObjectives...)
		next, changed := fn(list)
		if !changed {
			return false
		}
		if next == nil {
			next = []domain.LearningObjective{}
		}
		c.LearningObjectives = next
		s.touchLocked(c)
		return true
	})
}
