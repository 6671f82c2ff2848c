package reviews

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leaselens/leaselens/internal/application"
	"github.com/leaselens/leaselens/internal/domain/ai"
	"github.com/leaselens/leaselens/internal/domain/report"
	"github.com/leaselens/leaselens/internal/domain/review"
	"github.com/leaselens/leaselens/internal/infra/ai/prompt"
)

// DefaultMediaType is assumed when an upload arrives without a usable
// content type.
const DefaultMediaType = "application/pdf"

// emailFailureText is the single user-visible failure surface for email
// drafting; every underlying cause collapses into it.
const emailFailureText = "We couldn't draft your email just now. Please try generating it again."

// Service implements the review use-cases: the analysis workflow and the
// email draft workflow, over in-memory sessions.
// Repo and Artifacts are optional; when nil, finished reviews are simply not
// archived.
type Service struct {
	Sessions  *SessionManager
	AI        ai.Client
	Repo      review.Repository
	Artifacts review.ArtifactStore
	Clock     application.Clock

	// PhaseInterval overrides the progress cadence; zero means default.
	PhaseInterval time.Duration
}

// SelectFile attaches raw document bytes to the session, base64-encoding
// them for transport. Any previous selection is replaced wholesale.
func (s *Service) SelectFile(sessionID, fileName string, data []byte, mediaType string) error {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrNoDocument
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = DefaultMediaType
	}
	return sess.SelectFile(fileName, ai.Document{
		Data:      base64.StdEncoding.EncodeToString(data),
		MediaType: mediaType,
	})
}

// Analyze confirms the selected file and runs the full analysis before
// returning. The HTTP layer uses StartAnalysis instead and polls.
func (s *Service) Analyze(ctx context.Context, sessionID string) error {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return err
	}
	doc, err := sess.beginAnalysis()
	if err != nil {
		return err
	}
	s.runAnalysis(ctx, sess, doc)
	return nil
}

// StartAnalysis transitions the session synchronously, so duplicate submits
// are rejected right away, then runs the model call in a detached goroutine
// with context.Background() so it survives the triggering request.
func (s *Service) StartAnalysis(sessionID string) error {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return err
	}
	doc, err := sess.beginAnalysis()
	if err != nil {
		return err
	}
	go s.runAnalysis(context.Background(), sess, doc)
	return nil
}

// runAnalysis drives one model call plus the cosmetic phase ticker as a
// scoped task group. The ticker is cancelled the moment the call settles,
// success or failure, so it can never outlive the attempt.
func (s *Service) runAnalysis(ctx context.Context, sess *Session, doc ai.Document) {
	start := s.Clock.Now()

	interval := s.PhaseInterval
	if interval <= 0 {
		interval = defaultPhaseInterval
	}

	tickCtx, stopTicker := context.WithCancel(ctx)
	var g errgroup.Group
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-tickCtx.Done():
				return nil
			case <-ticker.C:
				sess.advancePhase()
			}
		}
	})

	raw, callErr := s.AI.AnalyzeLease(ctx, doc)
	stopTicker()
	_ = g.Wait()

	if callErr != nil {
		// transport errors and model-reported errors surface the same way,
		// with the message kept verbatim
		sess.failAnalysis(callErr.Error())
		return
	}

	rep, err := prompt.ParseReport(raw)
	if err != nil {
		sess.failAnalysis(err.Error())
		return
	}

	sess.completeAnalysis(rep)
	s.archive(ctx, sess, doc, rep, s.Clock.Now().Sub(start))
}

// archive persists the finished review for history. Best-effort: the user
// already has their report, so archival problems are logged, not surfaced.
func (s *Service) archive(ctx context.Context, sess *Session, doc ai.Document, rep *report.Report, took time.Duration) {
	if s.Repo == nil {
		return
	}

	id := review.ID(uuid.New().String())
	snap := sess.Snapshot()

	artifactURL := ""
	if s.Artifacts != nil {
		data, err := base64.StdEncoding.DecodeString(doc.Data)
		if err == nil {
			key := fmt.Sprintf("leases/%s/%s", id, snap.FileName)
			artifactURL, err = s.Artifacts.Put(ctx, key, data, doc.MediaType)
		}
		if err != nil {
			log.Printf("archive: artifact upload failed for review %s: %v", id, err)
		}
	}

	reportJSON, err := marshalReport(rep)
	if err != nil {
		log.Printf("archive: marshal report for review %s: %v", id, err)
		return
	}

	rec := &review.Review{
		ID:          id,
		FileName:    snap.FileName,
		MediaType:   doc.MediaType,
		ArtifactURL: artifactURL,
		Grade:       string(rep.Grade),
		Summary:     rep.Summary,
		ReportJSON:  reportJSON,
		DurationMS:  took.Milliseconds(),
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		log.Printf("archive: save review %s: %v", id, err)
	}
}

// DraftEmail assembles the concern list from the session's report and asks
// the model for a ready-to-send email. Every failure past the preconditions
// yields the one fixed failure string, never an error.
func (s *Service) DraftEmail(ctx context.Context, sessionID string, includeAttention, includeMissing bool) (string, error) {
	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	rep, err := sess.Report()
	if err != nil {
		return "", err
	}

	concerns := prompt.BuildConcernList(rep, includeAttention, includeMissing)
	text, err := s.AI.DraftEmail(ctx, concerns)
	if err != nil {
		log.Printf("email draft failed for session %s: %v", sessionID, err)
		return emailFailureText, nil
	}
	return strings.TrimSpace(text), nil
}

// History returns a page of archived reviews.
func (s *Service) History(ctx context.Context, page, pageSize int) (*review.PaginatedResult, error) {
	if s.Repo == nil {
		return &review.PaginatedResult{Data: []*review.Review{}, Page: 1, PageSize: 0}, nil
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	list, err := s.Repo.Paginate(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &review.PaginatedResult{Data: list, Page: page, PageSize: pageSize}, nil
}

func marshalReport(rep *report.Report) (string, error) {
	b, err := json.Marshal(rep)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// GetReview fetches one archived review by id.
func (s *Service) GetReview(ctx context.Context, id string) (*review.Review, error) {
	if s.Repo == nil {
		return nil, nil
	}
	return s.Repo.Get(ctx, review.ID(id))
}
