package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const defaultChatModel = "gpt-4o-mini"

// ChatConfig configures the OpenAI-compatible chat backend.
type ChatConfig struct {
	APIKey string
	Model  string
	// BaseURL points at any OpenAI-compatible endpoint, e.g.
	// https://generativelanguage.googleapis.com/v1beta/openai/ for Gemini.
	BaseURL string
	Timeout time.Duration
}

// ChatBackend generates text through an eino chat model.
type ChatBackend struct {
	chat  model.BaseChatModel
	model string
}

// NewChat creates a chat backend on the eino OpenAI adapter.
func NewChat(ctx context.Context, cfg ChatConfig) (*ChatBackend, error) {
	if cfg.Model == "" {
		cfg.Model = defaultChatModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model %s: %w", cfg.Model, err)
	}
	return newChatWithModel(chatModel, cfg.Model), nil
}

func newChatWithModel(m model.BaseChatModel, name string) *ChatBackend {
	return &ChatBackend{chat: m, model: name}
}

// Name returns "openai".
func (c *ChatBackend) Name() string { return BackendOpenAI }

// Model returns the configured model.
func (c *ChatBackend) Model() string { return c.model }

// Generate sends prompt as a single user message.
// Provider errors are returned as-is; their text carries the HTTP status.
func (c *ChatBackend) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	msg, err := c.chat.Generate(ctx,
		[]*schema.Message{schema.UserMessage(prompt)},
		model.WithTemperature(float32(temperature)),
	)
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", nil
	}
	return msg.Content, nil
}
