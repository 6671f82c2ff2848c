package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/leaselens/leaselens/internal/domain/ai"
	"github.com/leaselens/leaselens/internal/infra/ai/prompt"
)

const defaultMaxTokens = 4096

// Client adapts the messages API to the ai.Client port. BaseURL normally
// points at a local proxy that holds the real credential.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
}

func NewClient(baseURL, apiKey, model string, maxTokens int) *Client {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	// retries stay off: a failed attempt is surfaced to the user, who
	// re-triggers manually
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &Client{
		api:       anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

// AnalyzeLease implements ai.Client.
func (c *Client) AnalyzeLease(ctx context.Context, doc ai.Document) (string, error) {
	return c.complete(ctx, prompt.AnalysisSystem(), anthropic.NewUserMessage(
		documentBlock(doc),
		anthropic.NewTextBlock(prompt.AnalysisUser()),
	))
}

// DraftEmail implements ai.Client.
func (c *Client) DraftEmail(ctx context.Context, concerns string) (string, error) {
	return c.complete(ctx, prompt.EmailSystem(), anthropic.NewUserMessage(
		anthropic.NewTextBlock(prompt.EmailUser(concerns)),
	))
}

// documentBlock picks the content block for the upload: images travel as
// image blocks, everything else as a base64 document.
func documentBlock(doc ai.Document) anthropic.ContentBlockParamUnion {
	if strings.HasPrefix(doc.MediaType, "image/") {
		return anthropic.NewImageBlockBase64(doc.MediaType, doc.Data)
	}
	return anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: doc.Data})
}

func (c *Client) complete(ctx context.Context, system string, msg anthropic.MessageParam) (string, error) {
	resp, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages:  []anthropic.MessageParam{msg},
	})
	if err != nil {
		var apierr *anthropic.Error
		if errors.As(err, &apierr) {
			if apierr.StatusCode == http.StatusTooManyRequests {
				return "", ai.ErrQuotaExceeded
			}
			// the SDK error carries the HTTP status and the API's own error
			// payload, so the model's reported message reaches the user
			return "", err
		}
		return "", fmt.Errorf("model request failed: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}
