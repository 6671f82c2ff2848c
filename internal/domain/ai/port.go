package ai

import "context"

// Document is an uploaded lease ready for transport: base64-encoded bytes
// plus the declared media type.
type Document struct {
	Data      string
	MediaType string
}

// Client is the port to the external model. Both operations return the
// model's raw text; interpreting that text is the caller's job.
type Client interface {
	// AnalyzeLease submits the document with the analysis instructions and
	// returns the candidate report JSON text.
	AnalyzeLease(ctx context.Context, doc Document) (string, error)
	// DraftEmail submits a numbered concern list with the email-authoring
	// instructions and returns the drafted email body.
	DraftEmail(ctx context.Context, concerns string) (string, error)
}
