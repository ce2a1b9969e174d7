package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/arc-engine/internal/engine/domain"
)

func newTestInvoker(url string) Invoker {
	return NewOpenAIInvoker(OpenAIConfig{
		ResponsesURL: url,
		Model:        "test-model",
		APIKey:       "test-key",
	})
}

func TestOpenAIInvokeSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"output_text": "  The gate creaks open.  "})
	}))
	defer server.Close()

	text, err := newTestInvoker(server.URL).Invoke(context.Background(), domain.RoleNarrator, "continue the scene")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if text != "The gate creaks open." {
		t.Fatalf("unexpected output %q", text)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Fatalf("unexpected model %v", gotBody["model"])
	}
	if gotBody["input"] != "continue the scene" {
		t.Fatalf("unexpected input %v", gotBody["input"])
	}
}

func TestOpenAIInvokeFallsBackToOutputItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[{"content":[{"type":"output_text","text":"A shadow moves."}]}]}`))
	}))
	defer server.Close()

	text, err := newTestInvoker(server.URL).Invoke(context.Background(), domain.RoleWildcard, "complicate")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if text != "A shadow moves." {
		t.Fatalf("unexpected output %q", text)
	}
}

func TestOpenAIInvokeErrorClasses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"gateway timeout", http.StatusGatewayTimeout, ErrTimeout},
		{"server error", http.StatusInternalServerError, ErrUnavailable},
		{"bad request", http.StatusBadRequest, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			_, err := newTestInvoker(server.URL).Invoke(context.Background(), domain.RoleNarrator, "go")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestOpenAIInvokeTimeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestInvoker(server.URL).Invoke(ctx, domain.RoleNarrator, "go")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestOpenAIInvokeRequiresCredentials(t *testing.T) {
	invoker := NewOpenAIInvoker(OpenAIConfig{Model: "m"})
	_, err := invoker.Invoke(context.Background(), domain.RoleNarrator, "go")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without api key, got %v", err)
	}
}

func TestOpenAIInvokeMissingOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[]}`))
	}))
	defer server.Close()

	_, err := newTestInvoker(server.URL).Invoke(context.Background(), domain.RoleNarrator, "go")
	if err == nil {
		t.Fatal("expected error for empty output")
	}
}
