package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/flows"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/model"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/core"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, model.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "v18.0", cfg.WhatsApp.Version)
	assert.Equal(t, SessionFile, cfg.SessionBackend)
	assert.Equal(t, "threads_db.json", cfg.SessionFile)
	assert.Equal(t, flows.Storytelling, cfg.FlowID())
	assert.Equal(t, 5, cfg.Conversation.MaxRounds)
	assert.Equal(t, 60*time.Second, cfg.Conversation.TurnTimeout)
	assert.Equal(t, model.DefaultApology, cfg.Conversation.Apology)
	assert.Equal(t, core.Development, cfg.Env())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ACCESS_TOKEN", "wa-token")
	t.Setenv("PHONE_NUMBER_ID", "12345")
	t.Setenv("APP_SECRET", "shh")
	t.Setenv("FLOW", "gas_station")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CONVERSATION_MAX_ROUNDS", "3")
	t.Setenv("CONVERSATION_TURN_TIMEOUT", "15s")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, core.Production, cfg.Env())
	assert.Equal(t, model.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName())
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "wa-token", cfg.WhatsApp.AccessToken)
	assert.Equal(t, "12345", cfg.WhatsApp.PhoneNumberID)
	assert.Equal(t, "shh", cfg.WhatsApp.AppSecret)
	assert.Equal(t, flows.GasStation, cfg.FlowID())
	assert.Equal(t, SessionRedis, cfg.SessionBackend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 3, cfg.Conversation.MaxRounds)
	assert.Equal(t, 15*time.Second, cfg.Conversation.TurnTimeout)
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("VERIFY_TOKEN=from-file\nRECIPIENT_WAID=255700000009\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("VERIFY_TOKEN")
		_ = os.Unsetenv("RECIPIENT_WAID")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.WhatsApp.VerifyToken)
	assert.Equal(t, "255700000009", cfg.WhatsApp.RecipientWaID)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"provider": {"LLM_PROVIDER", "anthropic"},
		"backend":  {"SESSION_BACKEND", "postgres"},
		"flow":     {"FLOW", "retrieval"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load(noEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestRedactedMasksSecrets(t *testing.T) {
	cfg := AppConfig{}
	cfg.LLM.OpenAI.APIKey = "sk-1234567890"
	cfg.WhatsApp.AccessToken = "abc"

	r := cfg.Redacted()
	assert.Equal(t, "sk*********90", r.LLM.OpenAI.APIKey)
	assert.Equal(t, "***", r.WhatsApp.AccessToken)
	assert.Equal(t, "sk-1234567890", cfg.LLM.OpenAI.APIKey)
}
