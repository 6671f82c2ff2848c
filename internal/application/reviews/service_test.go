package reviews

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/leaselens/leaselens/internal/application"
	"github.com/leaselens/leaselens/internal/domain/ai"
	"github.com/leaselens/leaselens/internal/domain/review"
)

const validReportJSON = `{
  "summary": "Reasonable lease with one serious gap.",
  "grade": "C",
  "red_flags": [{"title": "No cure period", "severity": "high", "detail": "Default is immediate.", "fix": "Ask for 10 days."}],
  "priorities": ["cure period"]
}`

// fakeClient scripts the model's behavior per call.
type fakeClient struct {
	mu          sync.Mutex
	analyzeText string
	analyzeErr  error
	analyzeWait time.Duration
	emailText   string
	emailErr    error
	gotConcerns string
}

func (f *fakeClient) AnalyzeLease(ctx context.Context, doc ai.Document) (string, error) {
	if f.analyzeWait > 0 {
		select {
		case <-time.After(f.analyzeWait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.analyzeText, f.analyzeErr
}

func (f *fakeClient) DraftEmail(ctx context.Context, concerns string) (string, error) {
	f.mu.Lock()
	f.gotConcerns = concerns
	f.mu.Unlock()
	return f.emailText, f.emailErr
}

type memRepo struct {
	mu    sync.Mutex
	saved []*review.Review
}

func (m *memRepo) Save(ctx context.Context, r *review.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, r)
	return nil
}

func (m *memRepo) Get(ctx context.Context, id review.ID) (*review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Paginate(ctx context.Context, page, pageSize int) ([]*review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*review.Review{}, m.saved...), nil
}

func newTestService(client ai.Client) *Service {
	return &Service{
		Sessions:      NewSessionManager(time.Hour),
		AI:            client,
		Clock:         application.SystemClock{},
		PhaseInterval: time.Millisecond,
	}
}

func selectedSession(t *testing.T, svc *Service) *Session {
	t.Helper()
	sess := svc.Sessions.Create()
	if err := svc.SelectFile(sess.ID(), "lease.pdf", []byte("fake lease bytes"), "application/pdf"); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	return sess
}

func TestAnalyzeSuccess(t *testing.T) {
	svc := newTestService(&fakeClient{analyzeText: validReportJSON})
	sess := selectedSession(t, svc)

	if err := svc.Analyze(context.Background(), sess.ID()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	v := sess.Snapshot()
	if v.State != StateReported {
		t.Fatalf("state = %q, want reported (error=%q)", v.State, v.Error)
	}
	if v.Report == nil || v.Report.Grade != "C" {
		t.Fatalf("report missing or wrong grade: %#v", v.Report)
	}
	if v.Badge == nil || v.Badge.Tone != "warn" {
		t.Errorf("badge should come from the grade table: %#v", v.Badge)
	}
}

func TestAnalyzeSuccessOnFencedOutput(t *testing.T) {
	svc := newTestService(&fakeClient{analyzeText: "```json\n" + validReportJSON + "\n```"})
	sess := selectedSession(t, svc)

	if err := svc.Analyze(context.Background(), sess.ID()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if v := sess.Snapshot(); v.State != StateReported {
		t.Fatalf("fenced output should still parse, got state %q error %q", v.State, v.Error)
	}
}

func TestAnalyzeModelErrorKeepsMessage(t *testing.T) {
	svc := newTestService(&fakeClient{analyzeErr: errors.New("request too large for model")})
	sess := selectedSession(t, svc)

	if err := svc.Analyze(context.Background(), sess.ID()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	v := sess.Snapshot()
	if v.State != StateFailed {
		t.Fatalf("state = %q, want failed", v.State)
	}
	if v.Error != "request too large for model" {
		t.Errorf("model message should surface verbatim, got %q", v.Error)
	}
}

func TestAnalyzeMalformedOutputFails(t *testing.T) {
	svc := newTestService(&fakeClient{analyzeText: "Sorry, I can't read this file."})
	sess := selectedSession(t, svc)

	if err := svc.Analyze(context.Background(), sess.ID()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if v := sess.Snapshot(); v.State != StateFailed || v.Error == "" {
		t.Fatalf("malformed output should fail with a message: %#v", v)
	}
}

func TestAnalyzePhaseTickerStops(t *testing.T) {
	svc := newTestService(&fakeClient{analyzeText: validReportJSON, analyzeWait: 20 * time.Millisecond})
	sess := selectedSession(t, svc)

	if err := svc.Analyze(context.Background(), sess.ID()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// the ticker was cancelled with the call; phase resets with the outcome
	if v := sess.Snapshot(); v.Phase != "" {
		t.Errorf("phase should be cleared once the call settles, got %q", v.Phase)
	}
}

func TestAnalyzeArchivesReview(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(&fakeClient{analyzeText: validReportJSON})
	svc.Repo = repo
	sess := selectedSession(t, svc)

	if err := svc.Analyze(context.Background(), sess.ID()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d reviews, want 1", len(repo.saved))
	}
	rec := repo.saved[0]
	if rec.Grade != "C" || rec.FileName != "lease.pdf" || rec.ReportJSON == "" {
		t.Errorf("archived review incomplete: %#v", rec)
	}
}

func TestDraftEmailHappyPath(t *testing.T) {
	client := &fakeClient{analyzeText: validReportJSON, emailText: "  Dear landlord,\n...\n  "}
	svc := newTestService(client)
	sess := selectedSession(t, svc)
	if err := svc.Analyze(context.Background(), sess.ID()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	text, err := svc.DraftEmail(context.Background(), sess.ID(), false, false)
	if err != nil {
		t.Fatalf("DraftEmail: %v", err)
	}
	if text != "Dear landlord,\n..." {
		t.Errorf("draft should be trimmed, got %q", text)
	}
	if !strings.Contains(client.gotConcerns, "1. RED FLAG: No cure period") {
		t.Errorf("concern list not sent to model: %q", client.gotConcerns)
	}
}

func TestDraftEmailFailureIsFixedText(t *testing.T) {
	client := &fakeClient{analyzeText: validReportJSON, emailErr: errors.New("proxy down")}
	svc := newTestService(client)
	sess := selectedSession(t, svc)
	if err := svc.Analyze(context.Background(), sess.ID()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	text, err := svc.DraftEmail(context.Background(), sess.ID(), true, true)
	if err != nil {
		t.Fatalf("DraftEmail should not error: %v", err)
	}
	if text != emailFailureText {
		t.Errorf("failure should yield the fixed text, got %q", text)
	}
}

func TestDraftEmailRequiresReport(t *testing.T) {
	svc := newTestService(&fakeClient{})
	sess := selectedSession(t, svc)

	if _, err := svc.DraftEmail(context.Background(), sess.ID(), false, false); !errors.Is(err, ErrNoReport) {
		t.Fatalf("err = %v, want ErrNoReport", err)
	}
}

func TestAnalyzeWithoutFile(t *testing.T) {
	svc := newTestService(&fakeClient{analyzeText: validReportJSON})
	sess := svc.Sessions.Create()

	if err := svc.Analyze(context.Background(), sess.ID()); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("err = %v, want ErrNoDocument", err)
	}
}

func TestSelectFileDefaultsMediaType(t *testing.T) {
	svc := newTestService(&fakeClient{analyzeText: validReportJSON})
	sess := svc.Sessions.Create()
	if err := svc.SelectFile(sess.ID(), "lease", []byte("bytes"), ""); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	doc, err := sess.beginAnalysis()
	if err != nil {
		t.Fatalf("beginAnalysis: %v", err)
	}
	if doc.MediaType != DefaultMediaType {
		t.Errorf("media type = %q, want default %q", doc.MediaType, DefaultMediaType)
	}
}
