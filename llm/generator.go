// Package llm is the generation port: the single seam between the
// conversation core and a text-generation backend. Implementations return
// raw text; recovering structure out of it is the caller's job.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Generator produces one completion for a prompt. No streaming; a call that
// outlives its timeout is a backend failure and is not retried here.
type Generator interface {
	Generate(ctx context.Context, messages []*schema.Message) (string, error)
}

// ChatModelGenerator adapts an eino chat model to the Generator port,
// applying a per-call timeout.
type ChatModelGenerator struct {
	model   model.BaseChatModel
	timeout time.Duration
}

type ChatModelOption func(*ChatModelGenerator)

// WithTimeout bounds each generation call. Zero disables the bound.
func WithTimeout(timeout time.Duration) ChatModelOption {
	return func(g *ChatModelGenerator) { g.timeout = timeout }
}

func NewChatModelGenerator(m model.BaseChatModel, opts ...ChatModelOption) *ChatModelGenerator {
	g := &ChatModelGenerator{model: m, timeout: 60 * time.Second}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *ChatModelGenerator) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	resp, err := g.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	return resp.Content, nil
}

// OpenAIConfig configures any OpenAI-compatible endpoint (OpenAI, Mistral,
// OpenRouter, Ollama).
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewOpenAIGenerator(ctx context.Context, conf *OpenAIConfig) (*ChatModelGenerator, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.APIKey,
		BaseURL: conf.BaseURL,
		Model:   conf.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	var opts []ChatModelOption
	if conf.Timeout > 0 {
		opts = append(opts, WithTimeout(conf.Timeout))
	}
	return NewChatModelGenerator(cm, opts...), nil
}

var _ Generator = (*ChatModelGenerator)(nil)
