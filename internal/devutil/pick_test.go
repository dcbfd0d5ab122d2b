package devutil

import (
	"reflect"
	"testing"

	"course-studio/internal/domain"
)

const testTitle = "Crisis Leadership"

func TestPick(t *testing.T) {
	course := domain.Course{
		ID:       "srv-1",
		Title:    testTitle,
		Level:    domain.LevelAdvanced,
		Metadata: domain.Metadata{Version: "1.0.0", Author: "ops"},
	}

	testCases := []struct {
		name     string
		input    any
		keys     []string
		expected map[string]any
	}{
		{
			name:  "Pick from course",
			input: course,
			keys:  []string{"id", "title"},
			expected: map[string]any{
				"id":    "srv-1",
				"title": testTitle,
			},
		},
		{
			name:  "Pick nested path",
			input: course,
			keys:  []string{"metadata.version", "level"},
			expected: map[string]any{
				"metadata.version": "1.0.0",
				"level":            "advanced",
			},
		},
		{
			name: "Pick from map",
			input: map[string]any{
				"title":    "Jane Smith",
				"duration": 25,
			},
			keys: []string{"title", "duration"},
			expected: map[string]any{
				"title":    "Jane Smith",
				"duration": float64(25), // JSON unmarshaling converts numbers to float64
			},
		},
		{
			name:     "Pick from nil",
			input:    nil,
			keys:     []string{"title"},
			expected: map[string]any{},
		},
		{
			name:     "Pick with no keys",
			input:    course,
			keys:     []string{},
			expected: map[string]any{},
		},
		{
			name:     "Pick non-existent keys",
			input:    course,
			keys:     []string{"nonexistent", "title.inner", "metadata.nope"},
			expected: map[string]any{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Pick(tc.input, tc.keys...)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Pick() = %v, want %v", result, tc.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	got := Fields(" id, title,,metadata.version ,")
	expected := []string{"id", "title", "metadata.version"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Fields() = %v, want %v", got, expected)
	}
	if Fields("") != nil {
		t.Error("Expected nil for empty flag")
	}
}
