// Package store holds the course editing session: the current course, the
// cached course list, chat history, request flags and the last error.
//
// Operations never return errors. Failures end up in State.Error, the way a
// panel would read them after a flag drops back to false.
package store

import (
	"context"
	"sync"
	"time"

	"course-studio/internal/domain"
	"course-studio/internal/gateway"
	"course-studio/internal/logger"
	"course-studio/internal/persist"
)

// PersistKey is the namespace the session snapshot is stored under.
const PersistKey = "prometheus-course-store"

// Gateway is the subset of the remote course service the Store drives.
// *gateway.Client implements it.
type Gateway interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	CreateCourse(ctx context.Context, course *domain.Course) (*domain.Course, error)
	UpdateCourse(ctx context.Context, course *domain.Course) (*domain.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	GenerateContent(ctx context.Context, req gateway.GenerationRequest) (*gateway.GenerationResponse, error)
	SendChatMessage(ctx context.Context, message string, course *domain.Course) (*gateway.ChatResponse, error)
	ExportCourse(ctx context.Context, req gateway.ExportRequest) (*gateway.ExportResponse, error)
}

// Opener receives export download links.
type Opener interface {
	Open(ctx context.Context, downloadURL string) error
}

// State is a point-in-time copy of the session. Mutating it has no effect
// on the Store.
type State struct {
	CurrentCourse *domain.Course       `json:"currentCourse"`
	Courses       []domain.Course      `json:"courses"`
	ChatMessages  []domain.ChatMessage `json:"chatMessages"`

	// Persisted reports whether CurrentCourse has been through a
	// successful save or was loaded from the service.
	Persisted bool `json:"persisted"`

	IsLoading    bool   `json:"isLoading"`
	IsSaving     bool   `json:"isSaving"`
	IsGenerating bool   `json:"isGenerating"`
	IsChatting   bool   `json:"isChatting"`
	Error        string `json:"error,omitempty"`
}

func (s State) clone() State {
	out := s
	out.CurrentCourse = s.CurrentCourse.Clone()
	if s.Courses != nil {
		out.Courses = make([]domain.Course, len(s.Courses))
		for i := range s.Courses {
			out.Courses[i] = *s.Courses[i].Clone()
		}
	}
	if s.ChatMessages != nil {
		out.ChatMessages = append(make([]domain.ChatMessage, 0, len(s.ChatMessages)), s.ChatMessages...)
	}
	return out
}

type Option func(*Store)

func WithPersister(p persist.Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithKey overrides PersistKey, e.g. to keep one session per profile.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithOpener(o Opener) Option {
	return func(s *Store) { s.opener = o }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

const persistTimeout = 5 * time.Second

type Store struct {
	gw        Gateway
	opener    Opener
	persister persist.Persister
	key       string
	now       func() time.Time
	log       *logger.Logger

	mu    sync.Mutex
	state State

	// in-flight request counts behind the Is* flags
	loading, saving, generating, chatting int

	// epoch changes whenever CurrentCourse is replaced by a different
	// course; chatEpoch whenever the chat history is wiped. Responses
	// captured under an older epoch are not applied.
	epoch, chatEpoch uint64
	genSeq, loadSeq  uint64
	lastIDMillis     int64

	version uint64

	pubMu     sync.Mutex
	published uint64
	lastSaved []byte
	listeners map[int]func(State)
	nextSub   int
}

// New builds a Store around gw, starting from a fresh default course.
// Call Restore to resume a persisted session.
func New(gw Gateway, opts ...Option) *Store {
	s := &Store{
		gw:        gw,
		key:       PersistKey,
		now:       time.Now,
		listeners: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With("component", "store")
	s.state = State{
		CurrentCourse: domain.DefaultCourse(s.nextIDLocked(), s.now()),
		Courses:       []domain.Course{},
		ChatMessages:  []domain.ChatMessage{},
	}
	return s
}

// State returns a deep copy of the current session.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a copy of the state after every change
// and returns a func that removes it. Listeners run synchronously on the
// goroutine that made the change and must not call back into mutating
// Store methods.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.pubMu.Lock()
		defer s.pubMu.Unlock()
		delete(s.listeners, id)
	}
}

// IsValid reports whether the current course passes the save gate.
func (s *Store) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentCourse.IsValid()
}

func (s *Store) CompletionPercentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentCourse.CompletionPercentage()
}

func (s *Store) snapshotLocked() State {
	st := s.state.clone()
	st.IsLoading = s.loading > 0
	st.IsSaving = s.saving > 0
	st.IsGenerating = s.generating > 0
	st.IsChatting = s.chatting > 0
	return st
}

// update runs fn under the state lock. When fn reports a change the new
// state is persisted and handed to listeners.
func (s *Store) update(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.version++
	v := s.version
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(v, st)
}

// publish drops states older than one already published, so listeners and
// the persisted snapshot never move backwards when updates race.
func (s *Store) publish(v uint64, st State) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if v <= s.published {
		return
	}
	s.published = v
	s.persistLocked(st)
	for _, fn := range s.listeners {
		fn(st.clone())
	}
}

func (s *Store) persistLocked(st State) {
	if s.persister == nil {
		return
	}
	b, err := encodeSnapshot(st)
	if err != nil {
		s.log.Error("encode session snapshot", "error", err)
		return
	}
	if string(b) == string(s.lastSaved) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.persister.Save(ctx, s.key, b); err != nil {
		s.log.Warn("persist session failed", "key", s.key, "error", err)
		return
	}
	s.lastSaved = b
}

// setCurrentLocked replaces the current course with a different one.
func (s *Store) setCurrentLocked(c *domain.Course, persisted bool) {
	s.state.CurrentCourse = c
	s.state.Persisted = persisted
	s.epoch++
}

// nextIDLocked issues client ids that never repeat within a Store, even
// when the clock stands still or steps back.
func (s *Store) nextIDLocked() string {
	ms := s.now().UnixMilli()
	if ms <= s.lastIDMillis {
		ms = s.lastIDMillis + 1
	}
	s.lastIDMillis = ms
	return domain.ClientID(time.UnixMilli(ms))
}

// stampAfter returns now, or the latest of prev when the clock is behind
// it, so metadata dates never go backwards.
func (s *Store) stampAfter(prev ...string) string {
	t := s.now()
	for _, p := range prev {
		if p == "" {
			continue
		}
		if pt, err := domain.ParseTimestamp(p); err == nil && pt.After(t) {
			t = pt
		}
	}
	return domain.Timestamp(t)
}

func (s *Store) touchLocked(c *domain.Course) {
	c.Metadata.UpdatedDate = s.stampAfter(c.Metadata.UpdatedDate)
}
