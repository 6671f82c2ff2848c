package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"

	domain "github.com/leaselens/leaselens/internal/domain/review"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Connect opens a Postgres pool and verifies it with a ping
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// Save inserts or updates a completed review record
func (r *ReviewRepository) Save(ctx context.Context, rev *domain.Review) error {
	const q = `
INSERT INTO lease_reviews
  (id, file_name, media_type, artifact_url, grade, summary, report_json, duration_ms, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  artifact_url=EXCLUDED.artifact_url,
  grade=EXCLUDED.grade,
  summary=EXCLUDED.summary,
  report_json=EXCLUDED.report_json;
`
	reportJSON := rev.ReportJSON
	if strings.TrimSpace(reportJSON) == "" {
		reportJSON = "{}"
	}
	createdAt := rev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		rev.ID, rev.FileName, rev.MediaType, rev.ArtifactURL,
		rev.Grade, rev.Summary, reportJSON, rev.DurationMS, createdAt)
	return err
}

// Get returns one review by id, nil when absent
func (r *ReviewRepository) Get(ctx context.Context, id domain.ID) (*domain.Review, error) {
	const q = `
SELECT id, file_name, media_type, artifact_url, grade, summary, report_json, duration_ms, created_at
FROM lease_reviews
WHERE id=$1;
`
	row := r.db.QueryRowContext(ctx, q, id)
	var rev domain.Review
	var created time.Time
	if err := row.Scan(&rev.ID, &rev.FileName, &rev.MediaType, &rev.ArtifactURL,
		&rev.Grade, &rev.Summary, &rev.ReportJSON, &rev.DurationMS, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rev.CreatedAt = created
	return &rev, nil
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
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Review
	for rows.Next() {
		var rev domain.Review
		var created time.Time
		if err := rows.Scan(&rev.ID, &rev.FileName, &rev.MediaType, &rev.ArtifactURL,
			&rev.Grade, &rev.Summary, &rev.ReportJSON, &rev.DurationMS, &created); err != nil {
			return nil, err
		}
		rev.CreatedAt = created
		out = append(out, &rev)
	}
	return out, rows.Err()
}
