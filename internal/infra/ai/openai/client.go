package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/leaselens/leaselens/internal/domain/ai"
	"github.com/leaselens/leaselens/internal/infra/ai/prompt"
	"github.com/sashabaranov/go-openai"
)

const maxTokens = 4096

// Client adapts an OpenAI-compatible endpoint to the ai.Client port.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// AnalyzeLease sends the document as a data URL part with the analysis
// instructions and returns the raw completion text.
func (c *Client) AnalyzeLease(ctx context.Context, doc ai.Document) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", doc.MediaType, doc.Data)
	req := openai.ChatCompletionRequest{
		Model: c.model(),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.AnalysisSystem()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
					{Type: openai.ChatMessagePartTypeText, Text: prompt.AnalysisUser()},
				},
			},
		},
	}
	return c.complete(ctx, req)
}

// DraftEmail sends the concern list with the email instructions.
func (c *Client) DraftEmail(ctx context.Context, concerns string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.EmailSystem()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.EmailUser(concerns)},
		},
	}
	return c.complete(ctx, req)
}

func (c *Client) model() string {
	if c.Model != "" {
		return c.Model
	}
	return "gpt-4o"
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	model := req.Model
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
				return "", ai.ErrQuotaExceeded
			}
			// keep the provider's own message so it reaches the user verbatim
			return "", errors.New(apiErr.Message)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
