package review

import "context"

// Repository port for persisting and querying completed reviews
type Repository interface {
	Save(ctx context.Context, r *Review) error
	Get(ctx context.Context, id ID) (*Review, error)
	Paginate(ctx context.Context, page, pageSize int) ([]*Review, error)
}

// ArtifactStore port for archiving the uploaded lease bytes
type ArtifactStore interface {
	// Put stores the raw document under key and returns its URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
