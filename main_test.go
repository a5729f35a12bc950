package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/config"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/core"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

func TestLogStartupMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logx.Init(logx.LoggerOpts{Environment: core.Production, Level: "debug", Output: &buf})
	t.Cleanup(func() { logx.Init() })

	cfg := &config.AppConfig{Flow: "ticketing", SessionBackend: config.SessionFile}
	cfg.LLM.Provider = "openai"
	cfg.LLM.OpenAI.Model = "gpt-3.5-turbo"
	cfg.LLM.OpenAI.APIKey = "sk-live-0123456789"
	cfg.WhatsApp.AccessToken = "EAAG-secret-token"
	cfg.WhatsApp.AppSecret = "app-secret-value"

	logStartup(cfg)

	out := buf.String()
	assert.Contains(t, out, "Starting WhatsApp assistant")
	assert.Contains(t, out, "Loaded configuration")
	assert.Contains(t, out, `"flow":"ticketing"`)
	assert.NotContains(t, out, "sk-live-0123456789")
	assert.NotContains(t, out, "EAAG-secret-token")
	assert.NotContains(t, out, "app-secret-value")
}
