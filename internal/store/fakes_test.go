package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"course-studio/internal/domain"
	"course-studio/internal/gateway"
	"course-studio/internal/httpx"
)

var errUnexpected = errors.New("unexpected gateway call")

// fakeGateway records calls and delegates to optional function fields.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string
	n     int

	list     func(ctx context.Context) ([]domain.Course, error)
	get      func(ctx context.Context, id string) (*domain.Course, error)
	create   func(ctx context.Context, c *domain.Course) (*domain.Course, error)
	update   func(ctx context.Context, c *domain.Course) (*domain.Course, error)
	del      func(ctx context.Context, id string) error
	generate func(ctx context.Context, req gateway.GenerationRequest) (*gateway.GenerationResponse, error)
	chat     func(ctx context.Context, msg string, c *domain.Course) (*gateway.ChatResponse, error)
	export   func(ctx context.Context, req gateway.ExportRequest) (*gateway.ExportResponse, error)
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) ListCourses(ctx context.Context) ([]domain.Course, error) {
	f.record("list")
	if f.list == nil {
		return nil, errUnexpected
	}
	return f.list(ctx)
}

func (f *fakeGateway) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	f.record("get " + id)
	if f.get == nil {
		return nil, errUnexpected
	}
	return f.get(ctx, id)
}

// CreateCourse assigns server ids srv-1, srv-2, ... unless overridden.
func (f *fakeGateway) CreateCourse(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	f.record("create " + c.ID)
	if f.create != nil {
		return f.create(ctx, c)
	}
	f.mu.Lock()
	f.n++
	id := fmt.Sprintf("srv-%d", f.n)
	f.mu.Unlock()
	out := c.Clone()
	out.ID = id
	return out, nil
}

func (f *fakeGateway) UpdateCourse(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	f.record("update " + c.ID)
	if f.update != nil {
		return f.update(ctx, c)
	}
	return c.Clone(), nil
}

func (f *fakeGateway) DeleteCourse(ctx context.Context, id string) error {
	f.record("delete " + id)
	if f.del == nil {
		return nil
	}
	return f.del(ctx, id)
}

func (f *fakeGateway) GenerateContent(ctx context.Context, req gateway.GenerationRequest) (*gateway.GenerationResponse, error) {
	f.record("generate " + string(req.GenerationType))
	if f.generate == nil {
		return nil, errUnexpected
	}
	return f.generate(ctx, req)
}

func (f *fakeGateway) SendChatMessage(ctx context.Context, msg string, c *domain.Course) (*gateway.ChatResponse, error) {
	f.record("chat " + msg)
	if f.chat == nil {
		return nil, errUnexpected
	}
	return f.chat(ctx, msg, c)
}

func (f *fakeGateway) ExportCourse(ctx context.Context, req gateway.ExportRequest) (*gateway.ExportResponse, error) {
	f.record("export " + req.CourseID + " " + string(req.Format))
	if f.export == nil {
		return nil, errUnexpected
	}
	return f.export(ctx, req)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type openerFunc func(ctx context.Context, url string) error

func (f openerFunc) Open(ctx context.Context, url string) error { return f(ctx, url) }

func newTestStore(gw *fakeGateway, opts ...Option) (*Store, *fakeClock) {
	clk := newClock()
	opts = append([]Option{WithClock(clk.Now)}, opts...)
	return New(gw, opts...), clk
}

func objectiveFixture() []domain.LearningObjective {
	return []domain.LearningObjective{
		{ID: "t1", Type: domain.ObjectiveTerminal, Text: "Lead a crisis cell", Order: 0},
		{ID: "e1", Type: domain.ObjectiveEnabling, Text: "Brief the cell", ParentID: "t1", Order: 1},
		{ID: "t2", Type: domain.ObjectiveTerminal, Text: "Run a debrief", Order: 2},
	}
}

func objectiveIDs(list []domain.LearningObjective) []string {
	out := make([]string, len(list))
	for i, o := range list {
		out[i] = o.ID
	}
	return out
}

type errString string

func (e errString) Error() string { return string(e) }

func httpErr(status int, body string) error {
	return &httpx.HTTPError{Method: "POST", URL: "http://localhost:8000/api/courses", StatusCode: status, Body: []byte(body)}
}
