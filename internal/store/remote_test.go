package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-studio/internal/domain"
	"course-studio/internal/gateway"
)

func TestObjectives(t *testing.T) {
	t.Run("remove cascades one level", func(t *testing.T) {
		s, _ := newTestStore(&fakeGateway{})
		for _, o := range objectiveFixture() {
			s.AddObjective(o)
		}
		s.RemoveObjective("t1")
		assert.Equal(t, []string{"t2"}, objectiveIDs(s.State().CurrentCourse.LearningObjectives))
	})

	t.Run("remove empty id keeps unrelated objectives", func(t *testing.T) {
		s, _ := newTestStore(&fakeGateway{})
		for _, o := range objectiveFixture() {
			s.AddObjective(o)
		}
		before := objectiveIDs(s.State().CurrentCourse.LearningObjectives)
		s.RemoveObjective("")
		assert.Equal(t, before, objectiveIDs(s.State().CurrentCourse.LearningObjectives))
	})

	t.Run("remove empty id only drops objectives without id", func(t *testing.T) {
		s, _ := newTestStore(&fakeGateway{})
		s.AddObjective(domain.LearningObjective{ID: "t1", Type: domain.ObjectiveTerminal})
		s.AddObjective(domain.LearningObjective{Type: domain.ObjectiveTerminal, Text: "no id"})
		s.AddObjective(domain.LearningObjective{ID: "e1", Type: domain.ObjectiveEnabling, ParentID: "t1"})
		s.RemoveObjective("")
		assert.Equal(t, []string{"t1", "e1"}, objectiveIDs(s.State().CurrentCourse.LearningObjectives))
	})

	t.Run("remove leaves grandchildren", func(t *testing.T) {
		s, _ := newTestStore(&fakeGateway{})
		s.AddObjective(domain.LearningObjective{ID: "t1", Type: domain.ObjectiveTerminal})
		s.AddObjective(domain.LearningObjective{ID: "e1", Type: domain.ObjectiveEnabling, ParentID: "t1"})
		s.AddObjective(domain.LearningObjective{ID: "e2", Type: domain.ObjectiveEnabling, ParentID: "e1"})
		s.RemoveObjective("t1")
		assert.Equal(t, []string{"e2"}, objectiveIDs(s.State().CurrentCourse.LearningObjectives))
	})

	t.Run("reorder drops absent ids", func(t *testing.T) {
		s, _ := newTestStore(&fakeGateway{})
		for _, o := range objectiveFixture() {
			s.AddObjective(o)
		}
		s.ReorderObjectives([]string{"e1", "t1"})
		got := s.State().CurrentCourse.LearningObjectives
		require.Len(t, got, 2)
		assert.Equal(t, "e1", got[0].ID)
		assert.Equal(t, 0, got[0].Order)
		assert.Equal(t, "t1", got[1].ID)
		assert.Equal(t, 1, got[1].Order)
	})

	t.Run("reorder skips unknown and repeated ids", func(t *testing.T) {
		s, _ := newTestStore(&fakeGateway{})
		for _, o := range objectiveFixture() {
			s.AddObjective(o)
		}
		s.ReorderObjectives([]string{"t2", "nope", "t2", "t1"})
		got := s.State().CurrentCourse.LearningObjectives
		assert.Equal(t, []string{"t2", "t1"}, objectiveIDs(got))
		assert.Equal(t, 0, got[0].Order)
		assert.Equal(t, 3, got[1].Order)
	})

	t.Run("update merges into matching objective", func(t *testing.T) {
		s, _ := newTestStore(&fakeGateway{})
		for _, o := range objectiveFixture() {
			s.AddObjective(o)
		}
		s.UpdateObjective("e1", domain.ObjectivePatch{Text: domain.Ptr("Brief the team")})
		got := s.State().CurrentCourse.LearningObjectives
		assert.Equal(t, "Brief the team", got[1].Text)
		assert.Equal(t, "t1", got[1].ParentID)
		assert.Equal(t, "Lead a crisis cell", got[0].Text)
	})
}

func TestSaveCourseCreateThenUpdate(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newTestStore(gw)
	s.UpdateCourse(domain.CoursePatch{Title: domain.Ptr("Crisis Leadership")})
	clientID := s.State().CurrentCourse.ID

	s.SaveCourse(context.Background())
	st := s.State()
	require.Empty(t, st.Error)
	assert.Equal(t, "srv-1", st.CurrentCourse.ID)
	assert.True(t, st.Persisted)
	assert.False(t, st.IsSaving)

	s.UpdateCourse(domain.CoursePatch{Description: domain.Ptr("edited")})
	s.SaveCourse(context.Background())
	s.SaveCourse(context.Background())

	assert.Equal(t, []string{"create " + clientID, "update srv-1", "update srv-1"}, gw.Calls())
	st = s.State()
	require.Len(t, st.Courses, 1)
	assert.Equal(t, "srv-1", st.Courses[0].ID)
	assert.Equal(t, "edited", st.Courses[0].Description)
}

func TestSaveCourseRoutesOnIDWhenNotPersisted(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newTestStore(gw)
	s.UpdateCourse(domain.CoursePatch{ID: domain.Ptr("abc-42")})

	s.SaveCourse(context.Background())
	assert.Equal(t, []string{"update abc-42"}, gw.Calls())
}

func TestSaveKeepsServerIDWithClientPrefix(t *testing.T) {
	gw := &fakeGateway{
		create: func(_ context.Context, c *domain.Course) (*domain.Course, error) {
			return c.Clone(), nil
		},
	}
	s, _ := newTestStore(gw)
	id := s.State().CurrentCourse.ID

	s.SaveCourse(context.Background())
	s.SaveCourse(context.Background())
	assert.Equal(t, []string{"create " + id, "update " + id}, gw.Calls())
	assert.Len(t, s.State().Courses, 1)
}

func TestSaveCourseFailure(t *testing.T) {
	gw := &fakeGateway{
		create: func(context.Context, *domain.Course) (*domain.Course, error) {
			return nil, httpErr(422, `{"detail":"Title is required"}`)
		},
	}
	s, _ := newTestStore(gw)
	s.UpdateCourse(domain.CoursePatch{Code: domain.Ptr("SEC-101")})
	before := s.State().CurrentCourse

	s.SaveCourse(context.Background())
	st := s.State()
	assert.Equal(t, "Title is required", st.Error)
	assert.Equal(t, before, st.CurrentCourse)
	assert.False(t, st.IsSaving)
	assert.False(t, st.Persisted)
	assert.Empty(t, st.Courses)
}

func TestSaveClearsPreviousError(t *testing.T) {
	s, _ := newTestStore(&fakeGateway{})
	s.SetError("old")
	s.SaveCourse(context.Background())
	assert.Empty(t, s.State().Error)
}

func TestSaveFlagWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &fakeGateway{
		create: func(_ context.Context, c *domain.Course) (*domain.Course, error) {
			close(started)
			<-release
			return c.Clone(), nil
		},
	}
	s, _ := newTestStore(gw)

	done := make(chan struct{})
	go func() {
		s.SaveCourse(context.Background())
		close(done)
	}()
	<-started
	assert.True(t, s.State().IsSaving)
	close(release)
	<-done
	assert.False(t, s.State().IsSaving)
}

func TestSaveResponseAfterSwitchOnlyUpdatesList(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &fakeGateway{
		create: func(_ context.Context, c *domain.Course) (*domain.Course, error) {
			close(started)
			<-release
			out := c.Clone()
			out.ID = "srv-9"
			return out, nil
		},
	}
	s, _ := newTestStore(gw)
	s.UpdateCourse(domain.CoursePatch{Title: domain.Ptr("first")})

	done := make(chan struct{})
	go func() {
		s.SaveCourse(context.Background())
		close(done)
	}()
	<-started
	s.CreateNewCourse()
	close(release)
	<-done

	st := s.State()
	assert.Empty(t, st.CurrentCourse.Title)
	assert.False(t, st.Persisted)
	require.Len(t, st.Courses, 1)
	assert.Equal(t, "srv-9", st.Courses[0].ID)
}

func TestLoadCourse(t *testing.T) {
	gw := &fakeGateway{
		get: func(_ context.Context, id string) (*domain.Course, error) {
			if id == "srv-1" {
				return &domain.Course{ID: "srv-1", Title: "Loaded", Status: domain.StatusReview}, nil
			}
			return nil, httpErr(404, `{"detail":"Course not found"}`)
		},
		list: func(context.Context) ([]domain.Course, error) {
			return []domain.Course{{ID: "a"}, {ID: "b"}}, nil
		},
	}
	s, _ := newTestStore(gw)

	s.LoadCourse(context.Background(), "")
	st := s.State()
	assert.Len(t, st.Courses, 2)
	assert.Empty(t, st.CurrentCourse.Title, "list refresh must not touch the current course")

	s.LoadCourse(context.Background(), "srv-1")
	st = s.State()
	assert.Equal(t, "Loaded", st.CurrentCourse.Title)
	assert.True(t, st.Persisted)
	assert.Len(t, st.Courses, 2, "loading one course must not touch the list")
	assert.False(t, st.IsLoading)

	s.LoadCourse(context.Background(), "missing")
	st = s.State()
	assert.Equal(t, "Course not found", st.Error)
	assert.Equal(t, "Loaded", st.CurrentCourse.Title)
	assert.False(t, st.IsLoading)

	assert.Equal(t, []string{"list", "get srv-1", "get missing"}, gw.Calls())
}

func TestLoadListFailureKeepsCache(t *testing.T) {
	calls := 0
	gw := &fakeGateway{
		list: func(context.Context) ([]domain.Course, error) {
			calls++
			if calls == 1 {
				return []domain.Course{{ID: "a"}}, nil
			}
			return nil, errors.New("connection refused")
		},
	}
	s, _ := newTestStore(gw)
	s.LoadCourse(context.Background(), "")
	s.LoadCourse(context.Background(), "")

	st := s.State()
	assert.Len(t, st.Courses, 1)
	assert.Equal(t, "connection refused", st.Error)
}

func TestDeleteCourse(t *testing.T) {
	gw := &fakeGateway{
		list: func(context.Context) ([]domain.Course, error) {
			return []domain.Course{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}, nil
		},
		get: func(_ context.Context, id string) (*domain.Course, error) {
			return &domain.Course{ID: id, Title: "Current"}, nil
		},
	}
	s, _ := newTestStore(gw)
	s.LoadCourse(context.Background(), "")
	s.LoadCourse(context.Background(), "b")

	s.DeleteCourse(context.Background(), "a")
	st := s.State()
	require.Len(t, st.Courses, 1)
	assert.Equal(t, "b", st.Courses[0].ID)
	assert.Equal(t, "Current", st.CurrentCourse.Title)

	s.DeleteCourse(context.Background(), "b")
	st = s.State()
	assert.Empty(t, st.Courses)
	assert.NotEqual(t, "b", st.CurrentCourse.ID)
	assert.True(t, domain.IsClientID(st.CurrentCourse.ID))
	assert.False(t, st.Persisted)
	assert.False(t, st.IsLoading)
}

func TestDeleteCourseFailureKeepsList(t *testing.T) {
	gw := &fakeGateway{
		list: func(context.Context) ([]domain.Course, error) { return []domain.Course{{ID: "a"}}, nil },
		del:  func(context.Context, string) error { return httpErr(500, `{"detail":"db locked"}`) },
	}
	s, _ := newTestStore(gw)
	s.LoadCourse(context.Background(), "")
	s.DeleteCourse(context.Background(), "a")

	st := s.State()
	assert.Len(t, st.Courses, 1)
	assert.Equal(t, "db locked", st.Error)
}

func TestGenerateContentMergesPatch(t *testing.T) {
	var sent gateway.GenerationRequest
	gw := &fakeGateway{
		generate: func(_ context.Context, req gateway.GenerationRequest) (*gateway.GenerationResponse, error) {
			sent = req
			objs := []domain.LearningObjective{{ID: "g1", Type: domain.ObjectiveTerminal, Text: "Analyze threats"}}
			return &gateway.GenerationResponse{
				Success: true,
				Data: &domain.CoursePatch{
					ID:                 domain.Ptr("ignored"),
					LearningObjectives: &objs,
				},
				TokensUsed: 120,
			}, nil
		},
	}
	s, _ := newTestStore(gw)
	s.UpdateCourse(domain.CoursePatch{
		Title:          domain.Ptr("Threat Analysis"),
		Level:          domain.Ptr(domain.LevelIntermediate),
		Thematic:       domain.Ptr(domain.ThematicIntelligence),
		TargetAudience: domain.Ptr("analysts"),
	})
	id := s.State().CurrentCourse.ID

	s.GenerateContent(context.Background(), domain.GenerateObjectives)

	st := s.State()
	assert.Empty(t, st.Error)
	assert.False(t, st.IsGenerating)
	assert.Equal(t, id, st.CurrentCourse.ID)
	assert.Equal(t, "Threat Analysis", st.CurrentCourse.Title)
	require.Len(t, st.CurrentCourse.LearningObjectives, 1)
	assert.Equal(t, "Analyze threats", st.CurrentCourse.LearningObjectives[0].Text)

	assert.Equal(t, id, sent.CourseID)
	assert.Equal(t, domain.GenerateObjectives, sent.GenerationType)
	assert.JSONEq(t, `{"title":"Threat Analysis","level":"intermediate","thematic":"intelligence","targetAudience":"analysts"}`, sent.Context)
}

func TestGenerateContentFailuresLeaveCourseUnchanged(t *testing.T) {
	testCases := []struct {
		name    string
		resp    *gateway.GenerationResponse
		err     error
		wantErr string
	}{
		{name: "transport error", err: errors.New("context deadline exceeded"), wantErr: "context deadline exceeded"},
		{name: "http error", err: httpErr(400, `{"detail":"Unknown generation type: bogus"}`), wantErr: "Unknown generation type: bogus"},
		{name: "success false with message", resp: &gateway.GenerationResponse{Success: false, Message: "quota exhausted"}, wantErr: "quota exhausted"},
		{name: "success false without message", resp: &gateway.GenerationResponse{Success: false}, wantErr: "Generation failed"},
		{name: "success without data", resp: &gateway.GenerationResponse{Success: true}, wantErr: "Generation failed"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{
				generate: func(context.Context, gateway.GenerationRequest) (*gateway.GenerationResponse, error) {
					return tc.resp, tc.err
				},
			}
			s, _ := newTestStore(gw)
			s.UpdateCourse(domain.CoursePatch{Title: domain.Ptr("Stable")})
			before := s.State().CurrentCourse

			s.GenerateContent(context.Background(), domain.GenerateDescription)

			st := s.State()
			assert.Equal(t, before, st.CurrentCourse)
			assert.Equal(t, tc.wantErr, st.Error)
			assert.False(t, st.IsGenerating)
		})
	}
}

func TestStaleGenerationDroppedAfterReset(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &fakeGateway{
		generate: func(context.Context, gateway.GenerationRequest) (*gateway.GenerationResponse, error) {
			close(started)
			<-release
			return &gateway.GenerationResponse{Success: true, Data: &domain.CoursePatch{Description: domain.Ptr("late")}}, nil
		},
	}
	s, _ := newTestStore(gw)
	s.UpdateCourse(domain.CoursePatch{Title: domain.Ptr("Original")})

	done := make(chan struct{})
	go func() {
		s.GenerateContent(context.Background(), domain.GenerateDescription)
		close(done)
	}()
	<-started
	assert.True(t, s.State().IsGenerating)
	s.ResetCourse()
	close(release)
	<-done

	st := s.State()
	assert.Empty(t, st.CurrentCourse.Description)
	assert.Empty(t, st.CurrentCourse.Title)
	assert.False(t, st.IsGenerating)
	assert.Empty(t, st.Error)
}

func TestStaleLoadDroppedAfterReset(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &fakeGateway{
		get: func(_ context.Context, id string) (*domain.Course, error) {
			close(started)
			<-release
			return &domain.Course{ID: id, Title: "Remote"}, nil
		},
	}
	s, _ := newTestStore(gw)

	done := make(chan struct{})
	go func() {
		s.LoadCourse(context.Background(), "srv-1")
		close(done)
	}()
	<-started
	assert.True(t, s.State().IsLoading)
	s.ResetCourse()
	draftID := s.State().CurrentCourse.ID
	close(release)
	<-done

	st := s.State()
	assert.Equal(t, draftID, st.CurrentCourse.ID)
	assert.True(t, domain.IsClientID(st.CurrentCourse.ID))
	assert.Empty(t, st.CurrentCourse.Title)
	assert.False(t, st.Persisted)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
}

func TestOnlyLatestGenerationApplies(t *testing.T) {
	var mu sync.Mutex
	gates := map[string]chan struct{}{}
	ready := make(chan string, 2)
	gw := &fakeGateway{
		generate: func(_ context.Context, req gateway.GenerationRequest) (*gateway.GenerationResponse, error) {
			mu.Lock()
			gate := make(chan struct{})
			gates[string(req.GenerationType)] = gate
			mu.Unlock()
			ready <- string(req.GenerationType)
			<-gate
			return &gateway.GenerationResponse{Success: true, Data: &domain.CoursePatch{Overview: domain.Ptr(string(req.GenerationType))}}, nil
		},
	}
	s, _ := newTestStore(gw)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); s.GenerateContent(context.Background(), domain.GenerateDescription) }()
	<-ready
	wg.Add(1)
	go func() { defer wg.Done(); s.GenerateContent(context.Background(), domain.GenerateFull) }()
	<-ready

	mu.Lock()
	close(gates["full"])
	close(gates["description"])
	mu.Unlock()
	wg.Wait()

	st := s.State()
	assert.Equal(t, "full", st.CurrentCourse.Overview)
	assert.False(t, st.IsGenerating)
}

func TestSendChatMessage(t *testing.T) {
	var sentCourse *domain.Course
	gw := &fakeGateway{
		chat: func(_ context.Context, msg string, c *domain.Course) (*gateway.ChatResponse, error) {
			sentCourse = c
			return &gateway.ChatResponse{Message: "Consider adding a scenario-based assessment."}, nil
		},
	}
	s, _ := newTestStore(gw)
	s.UpdateCourse(domain.CoursePatch{Title: domain.Ptr("Crisis Leadership")})

	s.SendChatMessage(context.Background(), "What should I add?")

	st := s.State()
	require.Len(t, st.ChatMessages, 2)
	assert.Equal(t, domain.RoleUser, st.ChatMessages[0].Role)
	assert.Equal(t, "What should I add?", st.ChatMessages[0].Content)
	assert.Equal(t, domain.RoleAssistant, st.ChatMessages[1].Role)
	assert.Equal(t, "Consider adding a scenario-based assessment.", st.ChatMessages[1].Content)
	assert.NotEqual(t, st.ChatMessages[0].ID, st.ChatMessages[1].ID)
	assert.False(t, st.IsChatting)
	assert.Empty(t, st.Error)
	require.NotNil(t, sentCourse)
	assert.Equal(t, "Crisis Leadership", sentCourse.Title)
}

func TestSendChatMessageEmptyReply(t *testing.T) {
	gw := &fakeGateway{
		chat: func(context.Context, string, *domain.Course) (*gateway.ChatResponse, error) {
			return &gateway.ChatResponse{}, nil
		},
	}
	s, _ := newTestStore(gw)
	s.SendChatMessage(context.Background(), "hello")
	st := s.State()
	require.Len(t, st.ChatMessages, 2)
	assert.Equal(t, "I apologize, but I could not process your request.", st.ChatMessages[1].Content)
	assert.Empty(t, st.Error)
}

func TestSendChatMessageFailureIsReportedTwice(t *testing.T) {
	gw := &fakeGateway{
		chat: func(context.Context, string, *domain.Course) (*gateway.ChatResponse, error) {
			return nil, httpErr(502, `{"detail":"model unavailable"}`)
		},
	}
	s, _ := newTestStore(gw)
	s.SendChatMessage(context.Background(), "hello")

	st := s.State()
	require.Len(t, st.ChatMessages, 2)
	assert.Equal(t, domain.RoleAssistant, st.ChatMessages[1].Role)
	assert.Equal(t, "I apologize, but an error occurred. Please try again.", st.ChatMessages[1].Content)
	assert.Equal(t, "model unavailable", st.Error)
	assert.False(t, st.IsChatting)
}

func TestSendChatMessageIgnoresBlank(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newTestStore(gw)
	s.SendChatMessage(context.Background(), "   ")
	assert.Empty(t, s.State().ChatMessages)
	assert.Empty(t, gw.Calls())
}

func TestChatReplyDroppedAfterClear(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	gw := &fakeGateway{
		chat: func(context.Context, string, *domain.Course) (*gateway.ChatResponse, error) {
			close(started)
			<-release
			return &gateway.ChatResponse{Message: "late reply"}, nil
		},
	}
	s, _ := newTestStore(gw)

	done := make(chan struct{})
	go func() {
		s.SendChatMessage(context.Background(), "hello")
		close(done)
	}()
	<-started
	assert.True(t, s.State().IsChatting)
	s.ClearChat()
	close(release)
	<-done

	st := s.State()
	assert.Empty(t, st.ChatMessages)
	assert.False(t, st.IsChatting)
}

func TestExportCourse(t *testing.T) {
	var opened []string
	opener := openerFunc(func(_ context.Context, url string) error {
		opened = append(opened, url)
		return nil
	})

	t.Run("opens download url", func(t *testing.T) {
		opened = nil
		gw := &fakeGateway{
			export: func(_ context.Context, req gateway.ExportRequest) (*gateway.ExportResponse, error) {
				assert.True(t, req.IncludeMetadata)
				return &gateway.ExportResponse{Success: true, DownloadURL: "/api/export/download/x.pdf"}, nil
			},
		}
		s, _ := newTestStore(gw, WithOpener(opener))
		s.ExportCourse(context.Background(), domain.ExportPDF)
		assert.Equal(t, []string{"/api/export/download/x.pdf"}, opened)
		assert.Empty(t, s.State().Error)
		assert.False(t, s.State().IsLoading)
		assert.Equal(t, []string{"export " + s.State().CurrentCourse.ID + " pdf"}, gw.Calls())
	})

	t.Run("success without url is a no-op", func(t *testing.T) {
		opened = nil
		gw := &fakeGateway{
			export: func(context.Context, gateway.ExportRequest) (*gateway.ExportResponse, error) {
				return &gateway.ExportResponse{Success: true, Message: "emailed"}, nil
			},
		}
		s, _ := newTestStore(gw, WithOpener(opener))
		s.ExportCourse(context.Background(), domain.ExportSCORM)
		assert.Empty(t, opened)
		assert.Empty(t, s.State().Error)
	})

	t.Run("failures set error", func(t *testing.T) {
		opened = nil
		gw := &fakeGateway{
			export: func(_ context.Context, req gateway.ExportRequest) (*gateway.ExportResponse, error) {
				if req.Format == domain.ExportDOCX {
					return &gateway.ExportResponse{Success: false, Message: "Unsupported export format: docx"}, nil
				}
				return nil, httpErr(404, `{"detail":"Course not found"}`)
			},
		}
		s, _ := newTestStore(gw, WithOpener(opener))
		s.ExportCourse(context.Background(), domain.ExportDOCX)
		assert.Equal(t, "Unsupported export format: docx", s.State().Error)
		s.ExportCourse(context.Background(), domain.ExportJSON)
		assert.Equal(t, "Course not found", s.State().Error)
		assert.Empty(t, opened)
		assert.False(t, s.State().IsLoading)
	})

	t.Run("opener failure sets error", func(t *testing.T) {
		gw := &fakeGateway{
			export: func(context.Context, gateway.ExportRequest) (*gateway.ExportResponse, error) {
				return &gateway.ExportResponse{Success: true, DownloadURL: "/api/export/download/x.json"}, nil
			},
		}
		s, _ := newTestStore(gw, WithOpener(openerFunc(func(context.Context, string) error {
			return errors.New("disk full")
		})))
		s.ExportCourse(context.Background(), domain.ExportJSON)
		assert.Contains(t, s.State().Error, "disk full")
	})
}

func TestExportAll(t *testing.T) {
	var mu sync.Mutex
	var opened []string
	gw := &fakeGateway{
		list: func(context.Context) ([]domain.Course, error) {
			return []domain.Course{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}}, nil
		},
		export: func(_ context.Context, req gateway.ExportRequest) (*gateway.ExportResponse, error) {
			if req.CourseID == "b" {
				return nil, errors.New("timeout")
			}
			return &gateway.ExportResponse{Success: true, DownloadURL: "/api/export/download/" + req.CourseID + ".json"}, nil
		},
	}
	s, _ := newTestStore(gw, WithOpener(openerFunc(func(_ context.Context, url string) error {
		mu.Lock()
		defer mu.Unlock()
		opened = append(opened, url)
		return nil
	})))
	s.LoadCourse(context.Background(), "")

	results := s.ExportAll(context.Background(), domain.ExportJSON, 2)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].CourseID)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.Len(t, opened, 2)

	st := s.State()
	assert.Equal(t, "1 of 3 exports failed", st.Error)
	assert.False(t, st.IsLoading)
}
