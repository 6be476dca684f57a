// Package llm provides the text-generation backends used for slide narration.
//
// Each backend is a concrete adapter behind the Backend interface; New picks
// one from configuration once, at construction time.
package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/errors"
)

// Backend generates text for a prompt.
type Backend interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
	// Name identifies the adapter (e.g. "gemini"), Model the model it calls.
	Name() string
	Model() string
}

// APIError is a failed call as reported by the provider.
// Error() keeps the status and code tokens in the message so that callers
// matching on text still see them.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Backend names accepted in configuration.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// New builds the backend named by cfg.Backend, wrapped with the response
// cache when cfg.RedisAddr is set.
func New(ctx context.Context, cfg *config.Config, apiKey string) (Backend, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.NewMissingCredential(cfg.APIKeyEnv)
	}

	timeout := time.Duration(cfg.RequestTimeoutSec) * time.Second

	var (
		b   Backend
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendGemini, "":
		b = NewGemini(GeminiConfig{
			APIKey:  apiKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: timeout,
		})
	case BackendOpenAI:
		b, err = NewChat(ctx, ChatConfig{
			APIKey:  apiKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: timeout,
		})
		if err != nil {
			return nil, errors.NewBackendUnavailable(err.Error())
		}
	default:
		return nil, errors.NewBackendUnavailable(fmt.Sprintf("unknown backend %q (want gemini or openai)", cfg.Backend))
	}

	if cfg.RedisAddr != "" {
		b = NewCached(b, sharedRedisStore(cfg.RedisAddr), time.Duration(cfg.CacheTTLHours)*time.Hour)
	}
	return b, nil
}

// redisStores holds one connection pool per address for the process lifetime;
// every pass builds a fresh backend but reuses the pool.
var redisStores sync.Map

func sharedRedisStore(addr string) *RedisStore {
	if s, ok := redisStores.Load(addr); ok {
		return s.(*RedisStore)
	}
	fresh := NewRedisStore(addr)
	s, loaded := redisStores.LoadOrStore(addr, fresh)
	if loaded {
		_ = fresh.Close()
	}
	return s.(*RedisStore)
}
