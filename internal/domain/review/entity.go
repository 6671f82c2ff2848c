package review

import "time"

// ID tipe for a completed review
type ID string

// Review is a completed lease analysis kept for history: who graded what,
// where the uploaded lease lives, and the full report JSON the model produced.
type Review struct {
	ID          ID        `json:"id"`
	FileName    string    `json:"file_name"`
	MediaType   string    `json:"media_type"`
	ArtifactURL string    `json:"artifact_url,omitempty"`
	Grade       string    `json:"grade"`
	Summary     string    `json:"summary"`
	ReportJSON  string    `json:"report_json"`
	DurationMS  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}
