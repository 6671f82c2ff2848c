package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/leaselens/leaselens/internal/domain/review"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Save inserts a completed review record
func (r *ReviewRepository) Save(ctx context.Context, rev *domain.Review) error {
	const q = `
INSERT INTO lease_reviews
  (id, file_name, media_type, artifact_url, grade, summary, report_json, duration_ms, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  artifact_url=VALUES(artifact_url), grade=VALUES(grade), summary=VALUES(summary), report_json=VALUES(report_json);
`
	// report_json column requires valid JSON; use empty object when blank
	reportJSON := rev.ReportJSON
	if strings.TrimSpace(reportJSON) == "" {
		reportJSON = "{}"
	}
	createdAt := rev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		rev.ID, stringOrDash(rev.FileName), stringOrDash(rev.MediaType), rev.ArtifactURL,
		rev.Grade, rev.Summary, reportJSON, rev.DurationMS, createdAt)
	return err
}

// Get returns one review by id, nil when absent
func (r *ReviewRepository) Get(ctx context.Context, id domain.ID) (*domain.Review, error) {
	const q = `
SELECT id, file_name, media_type, artifact_url, grade, summary, report_json, duration_ms, created_at
FROM lease_reviews
WHERE id=?;
`
	row := r.db.QueryRowContext(ctx, q, id)
	rev, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rev, err
}

// Paginate returns a page of reviews ordered by created_at desc
func (r *ReviewRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Review, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, file_name, media_type, artifact_url, grade, summary, report_json, duration_ms, created_at
FROM lease_reviews
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*domain.Review, error) {
	var rev domain.Review
	var created time.Time
	if err := row.Scan(&rev.ID, &rev.FileName, &rev.MediaType, &rev.ArtifactURL,
		&rev.Grade, &rev.Summary, &rev.ReportJSON, &rev.DurationMS, &created); err != nil {
		return nil, err
	}
	rev.CreatedAt = created
	return &rev, nil
}
