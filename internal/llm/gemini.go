package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// GeminiConfig configures the Gemini REST backend.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // default: public Gemini API
	Timeout time.Duration
}

// GeminiBackend calls the Gemini generateContent endpoint.
type GeminiBackend struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGemini creates a Gemini backend. Empty fields take defaults.
func NewGemini(cfg GeminiConfig) *GeminiBackend {
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &GeminiBackend{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns "gemini".
func (g *GeminiBackend) Name() string { return BackendGemini }

// Model returns the configured model.
func (g *GeminiBackend) Model() string { return g.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

type geminiErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends prompt and returns the concatenated text of the first candidate.
// An empty candidate list yields an empty string, not an error.
func (g *GeminiBackend) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	req.GenerationConfig.Temperature = temperature

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", decodeGeminiError(resp.StatusCode, respBody)
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	slog.Debug("gemini call",
		"model", g.model,
		"prompt_tokens", apiResp.UsageMetadata.PromptTokenCount,
		"output_tokens", apiResp.UsageMetadata.CandidatesTokenCount,
	)

	if len(apiResp.Candidates) == 0 {
		return "", nil
	}
	var out strings.Builder
	for _, p := range apiResp.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	return out.String(), nil
}

func decodeGeminiError(status int, body []byte) error {
	var env geminiErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		return &APIError{Status: status, Code: env.Error.Status, Message: env.Error.Message}
	}
	return &APIError{Status: status, Message: strings.TrimSpace(string(body))}
}
