package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leaselens/leaselens/internal/domain/ai"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int64  `json:"max_tokens"`
	System    []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
		} `json:"content"`
	} `json:"messages"`
}

func modelServer(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req capturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model == "" || req.MaxTokens <= 0 || len(req.System) == 0 {
			t.Errorf("request missing model, max_tokens or system: %+v", req)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("expected a single user message, got %+v", req.Messages)
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

const successBody = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "model-x",
  "stop_reason": "end_turn",
  "usage": {"input_tokens": 10, "output_tokens": 20},
  "content": [
    {"type": "text", "text": "{\"summary\":"},
    {"type": "text", "text": "\"ok\"}"}
  ]
}`

func TestAnalyzeLeaseConcatenatesTextBlocks(t *testing.T) {
	srv := modelServer(t, http.StatusOK, "application/json", successBody)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "model-x", 1024)
	got, err := c.AnalyzeLease(context.Background(), ai.Document{Data: "YWJj", MediaType: "application/pdf"})
	if err != nil {
		t.Fatalf("AnalyzeLease: %v", err)
	}
	if want := `{"summary":"ok"}`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestErrorPayloadMessageSurfaces(t *testing.T) {
	body := `{"type":"error","error":{"type":"invalid_request_error","message":"document too large"}}`
	srv := modelServer(t, http.StatusBadRequest, "application/json", body)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "model-x", 1024)
	_, err := c.AnalyzeLease(context.Background(), ai.Document{Data: "YWJj", MediaType: "application/pdf"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ai.ErrQuotaExceeded) {
		t.Fatalf("a 400 must not map to the quota error, got %v", err)
	}
	if !strings.Contains(err.Error(), "document too large") {
		t.Fatalf("error %q should carry the reported message", err)
	}
}

func TestQuotaExceededMapsSentinel(t *testing.T) {
	body := `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`
	srv := modelServer(t, http.StatusTooManyRequests, "application/json", body)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "model-x", 1024)
	_, err := c.DraftEmail(context.Background(), "1. RED FLAG: No cure period")
	if !errors.Is(err, ai.ErrQuotaExceeded) {
		t.Fatalf("got %v, want ErrQuotaExceeded", err)
	}
}

func TestNonJSONErrorBodyKeepsStatus(t *testing.T) {
	srv := modelServer(t, http.StatusBadGateway, "text/html", "<html>Bad Gateway</html>")
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "model-x", 1024)
	_, err := c.AnalyzeLease(context.Background(), ai.Document{Data: "YWJj", MediaType: "application/pdf"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("error %q should mention the HTTP status", err)
	}
}
