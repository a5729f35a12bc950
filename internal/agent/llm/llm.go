// Package llm builds the chat model for the configured provider and the
// session issuer that goes with it.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	agentmodel "github.com/Chative-core-poc-v1/wa-assistant/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
)

// NewChatModel returns the chat model for cfg.Provider.
func NewChatModel(ctx context.Context, cfg agentmodel.LLMConfig) (model.ToolCallingChatModel, error) {
	switch cfg.Provider {
	case agentmodel.ProviderGemini:
		return NewGeminiChatModel(ctx, cfg)
	case agentmodel.ProviderOpenAI, "":
		return NewOpenAIChatModel(NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL), OpenAIOptions{
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}

type threadClient interface {
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
}

// ThreadIssuer opens an OpenAI Assistants thread per new user; the thread id
// is the session handle.
type ThreadIssuer struct {
	client threadClient
}

func NewThreadIssuer(client threadClient) *ThreadIssuer {
	return &ThreadIssuer{client: client}
}

func (i *ThreadIssuer) NewSession(ctx context.Context) (string, error) {
	th, err := i.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", errx.Upstream(fmt.Errorf("create thread: %w", err))
	}
	if th.ID == "" {
		return "", errx.Upstream(fmt.Errorf("create thread: empty id"))
	}
	return th.ID, nil
}

// LocalIssuer mints random handles for providers without server-side sessions.
type LocalIssuer struct{}

func (LocalIssuer) NewSession(context.Context) (string, error) {
	return "thread_" + uuid.NewString(), nil
}

// SessionIssuer is the issuer matching cfg.Provider.
type SessionIssuer interface {
	NewSession(ctx context.Context) (string, error)
}

func NewSessionIssuer(cfg agentmodel.LLMConfig) SessionIssuer {
	if cfg.Provider == agentmodel.ProviderOpenAI || cfg.Provider == "" {
		return NewThreadIssuer(NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL))
	}
	return LocalIssuer{}
}
