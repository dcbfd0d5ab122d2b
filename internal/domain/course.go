package domain

import (
	"strconv"
	"strings"
	"time"
)

// ClientIDPrefix marks ids generated locally before the first save.
const ClientIDPrefix = "course-"

// DefaultVersion is the metadata version of a freshly created course.
const DefaultVersion = "1.0.0"

// timestampLayout matches the ISO-8601 form the remote service and browser
// clients exchange (millisecond precision, UTC, "Z" suffix).
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Course is the aggregate being edited. Field names and JSON keys follow the
// remote service contract; enum values are compared literally by the server.
type Course struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	Title          string         `json:"title"`
	Level          Level          `json:"level,omitempty"`
	Thematic       Thematic       `json:"thematic,omitempty"`
	CustomThematic string         `json:"customThematic,omitempty"`
	Status         Status         `json:"status"`
	Description    string         `json:"description"`
	Overview       string         `json:"overview"`
	TargetAudience string         `json:"targetAudience"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod,omitempty"`

	// DurationHours is sent as "duration". Panels disagree on the unit
	// (hours vs days); hours is what the export and level ranges assume.
	DurationHours int `json:"duration"`

	LearningObjectives []LearningObjective `json:"learningObjectives"`
	Modules            []Module            `json:"modules"`
	Assessments        []Assessment        `json:"assessments"`
	Metadata           Metadata            `json:"metadata"`
}

type Metadata struct {
	CreatedDate  string `json:"createdDate"`
	UpdatedDate  string `json:"updatedDate"`
	Author       string `json:"author"`
	Reviewer     string `json:"reviewer,omitempty"`
	Organization string `json:"organization,omitempty"`
	Version      string `json:"version"`
}

// LearningObjective is either terminal or enabling. ParentID is only
// meaningful for enabling objectives and is not checked against the list.
type LearningObjective struct {
	ID       string        `json:"id"`
	Type     ObjectiveType `json:"type"`
	Text     string        `json:"text"`
	ParentID string        `json:"parentId,omitempty"`
	Order    int           `json:"order"`
}

type Module struct {
	ID          string   `json:"id"`
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"`
	Lessons     []Lesson `json:"lessons"`
}

type Lesson struct {
	ID         string   `json:"id"`
	Number     int      `json:"number"`
	Title      string   `json:"title"`
	Duration   int      `json:"duration"`
	Content    string   `json:"content"`
	KeyPoints  []string `json:"keyPoints"`
	Activities []string `json:"activities"`
}

type Assessment struct {
	ID           string         `json:"id"`
	Type         AssessmentType `json:"type"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Criteria     []string       `json:"criteria"`
	PassingScore int            `json:"passingScore"`
	Duration     int            `json:"duration"`
}

// ClientID builds a client-generated course id from t.
func ClientID(t time.Time) string {
	return ClientIDPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}

// IsClientID reports whether id was generated locally and never persisted.
func IsClientID(id string) bool {
	return id == "" || strings.HasPrefix(id, ClientIDPrefix)
}

// Timestamp formats t the way course metadata stores dates.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp accepts both our own layout and plain RFC 3339 values
// coming back from the server.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// naive isoformat without zone, as emitted by some backends
	return time.Parse("2006-01-02T15:04:05.999999", s)
}

// DefaultCourse returns the empty draft used by "new course" and "reset".
func DefaultCourse(id string, now time.Time) *Course {
	ts := Timestamp(now)
	return &Course{
		ID:                 id,
		Status:             StatusDraft,
		LearningObjectives: []LearningObjective{},
		Modules:            []Module{},
		Assessments:        []Assessment{},
		Metadata: Metadata{
			CreatedDate: ts,
			UpdatedDate: ts,
			Version:     DefaultVersion,
		},
	}
}

// Clone returns a deep copy of c. A nil course clones to nil.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	out.LearningObjectives = cloneSlice(c.LearningObjectives)
	out.Assessments = nil
	if c.Assessments != nil {
		out.Assessments = make([]Assessment, len(c.Assessments))
		for i, a := range c.Assessments {
			a.Criteria = cloneSlice(a.Criteria)
			out.Assessments[i] = a
		}
	}
	out.Modules = nil
	if c.Modules != nil {
		out.Modules = make([]Module, len(c.Modules))
		for i, m := range c.Modules {
			out.Modules[i] = m.clone()
		}
	}
	return &out
}

func (m Module) clone() Module {
	if m.Lessons == nil {
		return m
	}
	lessons := make([]Lesson, len(m.Lessons))
	for i, l := range m.Lessons {
		l.KeyPoints = cloneSlice(l.KeyPoints)
		l.Activities = cloneSlice(l.Activities)
		lessons[i] = l
	}
	m.Lessons = lessons
	return m
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
