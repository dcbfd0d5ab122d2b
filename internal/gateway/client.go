package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"course-studio/internal/domain"
	"course-studio/internal/httpx"
)

// Client talks to the remote course service. It keeps no state between
// calls: one HTTP attempt per operation, errors returned unmodified
// (*httpx.HTTPError for non-2xx responses).
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	tr := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

/* -------- Courses -------- */

func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var out []domain.Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Course{}
	}
	return out, nil
}

func (c *Client) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	var out domain.Course
	if err := c.do(ctx, http.MethodGet, coursePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCourse(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	var out domain.Course
	if err := c.do(ctx, http.MethodPost, "/courses", course, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCourse(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	var out domain.Course
	if err := c.do(ctx, http.MethodPut, coursePath(course.ID), course, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveCourse routes on the id alone: a client-generated id means the course
// was never persisted and is created, anything else is updated. Callers
// that know the persistence state should use CreateCourse/UpdateCourse.
func (c *Client) SaveCourse(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	if domain.IsClientID(course.ID) {
		return c.CreateCourse(ctx, course)
	}
	return c.UpdateCourse(ctx, course)
}

func (c *Client) DeleteCourse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, coursePath(id), nil, nil)
}

/* -------- AI -------- */

func (c *Client) GenerateContent(ctx context.Context, req GenerationRequest) (*GenerationResponse, error) {
	var out GenerationResponse
	if err := c.do(ctx, http.MethodPost, "/ai/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendChatMessage resends the whole course as context; the service keeps
// no conversation state.
func (c *Client) SendChatMessage(ctx context.Context, message string, course *domain.Course) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, "/ai/chat", ChatRequest{Message: message, CourseContext: course}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/* -------- Export / reference data -------- */

func (c *Client) ExportCourse(ctx context.Context, req ExportRequest) (*ExportResponse, error) {
	var out ExportResponse
	if err := c.do(ctx, http.MethodPost, "/export", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetLexicon(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.do(ctx, http.MethodGet, "/lexicon", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveURL turns a server-relative download URL ("/api/export/download/x")
// into an absolute one using the client's base URL.
func (c *Client) ResolveURL(ref string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("gateway: invalid base url: %w", err)
	}
	u, err := base.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("gateway: invalid url %q: %w", ref, err)
	}
	return u.String(), nil
}

/* -------- helpers -------- */

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	build, err := httpx.JSONRequest(method, c.BaseURL+path, payload)
	if err != nil {
		return err
	}
	return httpx.DoJSON(ctx, c.HTTP, build, out, httpx.NoRetry())
}

func coursePath(id string) string {
	return "/courses/" + url.PathEscape(id)
}

// NewGenerationRequest snapshots the fields the generator needs.
func NewGenerationRequest(course *domain.Course, kind domain.GenerationType) (GenerationRequest, error) {
	ctxJSON, err := json.Marshal(GenerationContext{
		Title:          course.Title,
		Level:          course.Level,
		Thematic:       course.Thematic,
		TargetAudience: course.TargetAudience,
	})
	if err != nil {
		return GenerationRequest{}, fmt.Errorf("gateway: encode generation context: %w", err)
	}
	return GenerationRequest{
		CourseID:       course.ID,
		GenerationType: kind,
		Context:        string(ctxJSON),
	}, nil
}
