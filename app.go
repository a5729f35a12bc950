package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/flows"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/graph"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/llm"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/tools"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/config"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/observability/metrics"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/session"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/whatsapp"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

// app is the wired process: one flow, one model, one session manager.
type app struct {
	runner   *graph.Orchestrator
	sessions *session.Manager
	whatsapp *whatsapp.Client
	metrics  *metrics.AssistantMetrics
	rdb      *goredis.Client
}

func buildApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	a := &app{metrics: metrics.NewAssistantMetrics(nil)}

	store, err := a.sessionStore(cfg)
	if err != nil {
		return nil, err
	}
	a.sessions = session.NewManager(store, llm.NewSessionIssuer(cfg.LLM), session.WithCreatedHook(a.metrics.SessionCreated))

	deps := flows.Deps{}
	if cfg.RegistrationURL != "" {
		deps.Registrar = tools.NewHTTPRegistrar(cfg.RegistrationURL)
	}
	flow, err := flows.Build(cfg.FlowID(), deps)
	if err != nil {
		a.Close()
		return nil, err
	}

	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	a.runner, err = graph.New(ctx, graph.Config{
		Flow:         flow,
		ChatModel:    chatModel,
		ModelName:    cfg.LLM.ModelName(),
		Conversation: cfg.Conversation,
		Metrics:      a.metrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.whatsapp = newWhatsAppClient(cfg, a.metrics)
	return a, nil
}

func (a *app) sessionStore(cfg *config.AppConfig) (session.Store, error) {
	if cfg.SessionBackend != config.SessionRedis {
		logx.Debug().Str("file", cfg.SessionFile).Msg("Using file session store")
		return session.NewFileStore(cfg.SessionFile), nil
	}
	rdb, err := cfg.Redis.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
	}
	a.rdb = rdb
	logx.Info().Str("key", cfg.SessionRedisKey).Msg("Connected to Redis successfully")
	return session.NewRedisStore(rdb, cfg.SessionRedisKey), nil
}

func newWhatsAppClient(cfg *config.AppConfig, m *metrics.AssistantMetrics) *whatsapp.Client {
	c := whatsapp.NewClient(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.Version)
	if cfg.WhatsApp.BaseURL != "" {
		c.BaseURL = cfg.WhatsApp.BaseURL
	}
	if m != nil {
		c.Observer = m
	}
	return c
}

func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			logx.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}
