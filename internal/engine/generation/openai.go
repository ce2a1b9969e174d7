package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/louisbranch/arc-engine/internal/engine/domain"
)

// OpenAIConfig configures the OpenAI responses endpoint and HTTP behavior.
type OpenAIConfig struct {
	ResponsesURL string
	Model        string
	APIKey       string
	HTTPClient   *http.Client
}

type openAIInvoker struct {
	cfg OpenAIConfig
}

// NewOpenAIInvoker builds an OpenAI-backed Invoker.
func NewOpenAIInvoker(cfg OpenAIConfig) Invoker {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = "https://api.openai.com/v1/responses"
	}
	return &openAIInvoker{cfg: cfg}
}

// roleInstructions keeps per-role system framing close to the adapter so a
// provider swap carries the participant voices with it.
var roleInstructions = map[domain.Role]string{
	domain.RoleNarrator:  "You are the primary narrator of a collaborative story. Continue the scene vividly and end with numbered options for the player.",
	domain.RoleMechanics: "You resolve action attempts. Describe the mechanical outcome of the player's action tersely and concretely.",
	domain.RoleWildcard:  "You inject one unexpected complication into the scene. Keep it short and leave the narrator room to react.",
}

func (a *openAIInvoker) Invoke(ctx context.Context, role domain.Role, prompt string) (string, error) {
	if strings.TrimSpace(a.cfg.APIKey) == "" {
		return "", ErrUnavailable.WithMetadata(map[string]string{"Role": string(role)})
	}
	if strings.TrimSpace(a.cfg.Model) == "" {
		return "", fmt.Errorf("model is required")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	requestBody, err := json.Marshal(map[string]any{
		"model":        a.cfg.Model,
		"instructions": roleInstructions[role],
		"input":        prompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal invoke request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build invoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	res, err := a.cfg.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", ErrUnavailable.WithMetadata(map[string]string{"Role": string(role)})
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case res.StatusCode == http.StatusRequestTimeout || res.StatusCode == http.StatusGatewayTimeout:
		return "", ErrTimeout
	case res.StatusCode < 200 || res.StatusCode >= 300:
		body, readErr := io.ReadAll(io.LimitReader(res.Body, 4096))
		if readErr != nil {
			return "", fmt.Errorf("read invoke error body: %w", readErr)
		}
		return "", ErrUnavailable.WithMetadata(map[string]string{
			"Role":   string(role),
			"Status": res.Status,
			"Body":   strings.TrimSpace(string(body)),
		})
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode invoke response: %w", err)
	}

	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if strings.TrimSpace(content.Text) != "" {
					outputText = strings.TrimSpace(content.Text)
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return "", fmt.Errorf("invoke response missing output text")
	}
	return outputText, nil
}
