package reviews

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leaselens/leaselens/internal/domain/ai"
	"github.com/leaselens/leaselens/internal/domain/report"
)

// State enum for the upload session machine:
// Empty → FileSelected → Analyzing → {Reported, Failed} → (reset) → Empty
type State string

const (
	StateEmpty        State = "empty"
	StateFileSelected State = "file_selected"
	StateAnalyzing    State = "analyzing"
	StateReported     State = "reported"
	StateFailed       State = "failed"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoDocument       = errors.New("no document selected")
	ErrAnalysisInFlight = errors.New("analysis already in progress")
	ErrNoReport         = errors.New("no report available")
	ErrBadTransition    = errors.New("action not allowed in current state")
)

// Session is one browser user's upload flow. A session holds at most one
// selected document and at most one report; both are replaced wholesale,
// never merged.
type Session struct {
	mu sync.Mutex

	id        string
	state     State
	fileName  string
	document  ai.Document
	report    *report.Report
	errMsg    string
	phase     int
	updatedAt time.Time
}

func (s *Session) ID() string { return s.id }

// SelectFile moves the session to FileSelected, replacing any previous
// document. Allowed from Empty, FileSelected and Failed; a reported session
// must be reset first.
func (s *Session) SelectFile(name string, doc ai.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateEmpty, StateFileSelected, StateFailed:
	case StateAnalyzing:
		return ErrAnalysisInFlight
	default:
		return ErrBadTransition
	}
	if doc.Data == "" {
		return ErrNoDocument
	}
	s.state = StateFileSelected
	s.fileName = name
	s.document = doc
	s.report = nil
	s.errMsg = ""
	s.phase = 0
	s.touch()
	return nil
}

// beginAnalysis moves FileSelected → Analyzing. The previous report and error
// are discarded before the new attempt starts.
func (s *Session) beginAnalysis() (ai.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return ai.Document{}, ErrAnalysisInFlight
	}
	if s.state != StateFileSelected {
		return ai.Document{}, ErrNoDocument
	}
	s.state = StateAnalyzing
	s.report = nil
	s.errMsg = ""
	s.phase = 0
	s.touch()
	return s.document, nil
}

func (s *Session) completeAnalysis(r *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnalyzing {
		// session was reset while the call was in flight; drop the result
		return
	}
	s.state = StateReported
	s.report = r
	s.phase = 0
	s.touch()
}

func (s *Session) failAnalysis(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnalyzing {
		return
	}
	s.state = StateFailed
	s.errMsg = msg
	s.phase = 0
	s.touch()
}

// Reset returns the session to Empty: no file, no report, no error, phase at
// zero. Not allowed while an analysis is in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAnalyzing {
		return ErrAnalysisInFlight
	}
	s.state = StateEmpty
	s.fileName = ""
	s.document = ai.Document{}
	s.report = nil
	s.errMsg = ""
	s.phase = 0
	s.touch()
	return nil
}

// Report returns the session's report, or ErrNoReport outside Reported state.
func (s *Session) Report() (*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReported || s.report == nil {
		return nil, ErrNoReport
	}
	return s.report, nil
}

func (s *Session) advancePhase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAnalyzing {
		return
	}
	if s.phase < len(analysisPhases)-1 {
		s.phase++
	}
}

func (s *Session) touch() { s.updatedAt = time.Now() }

// View is the session snapshot returned to the client.
type View struct {
	ID       string               `json:"id"`
	State    State                `json:"state"`
	FileName string               `json:"file_name,omitempty"`
	Phase    string               `json:"phase,omitempty"`
	Report   *report.Report       `json:"report,omitempty"`
	Badge    *report.Presentation `json:"badge,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// Snapshot returns a consistent view of the session for rendering.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:       s.id,
		State:    s.state,
		FileName: s.fileName,
		Error:    s.errMsg,
	}
	if s.state == StateAnalyzing {
		v.Phase = analysisPhases[s.phase]
	}
	if s.state == StateReported && s.report != nil {
		v.Report = s.report
		badge := s.report.Grade.Presentation()
		v.Badge = &badge
	}
	return v
}

// SessionManager owns all live sessions. Sessions are in-memory only and
// vanish on restart; an idle sweeper keeps the map bounded.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	m := &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
	go m.sweep()
	return m
}

// Create starts a new Empty session and returns it.
func (m *SessionManager) Create() *Session {
	s := &Session{
		id:        uuid.New().String(),
		state:     StateEmpty,
		updatedAt: time.Now(),
	}
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *SessionManager) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		m.mu.Lock()
		for id, s := range m.sessions {
			s.mu.Lock()
			idle := now.Sub(s.updatedAt) > m.ttl
			busy := s.state == StateAnalyzing
			s.mu.Unlock()
			if idle && !busy {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}
