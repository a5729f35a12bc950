// Package config loads the service configuration from the environment, with
// a local .env file applied first when present.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/flows"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/model"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/core"
	pkgredis "github.com/Chative-core-poc-v1/wa-assistant/pkg/redis"
)

type SessionBackend string

const (
	SessionFile  SessionBackend = "file"
	SessionRedis SessionBackend = "redis"
)

// AppConfig defines every configurable parameter of the service.
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8000"`

	// LLM provider
	LLM          model.LLMConfig
	Conversation model.ConversationConfig

	// Messaging
	WhatsApp WhatsAppConfig

	// Assistant
	Flow            string `envconfig:"FLOW" default:"storytelling"`
	RegistrationURL string `envconfig:"REGISTRATION_URL"`

	// Sessions
	SessionBackend  SessionBackend `envconfig:"SESSION_BACKEND" default:"file"`
	SessionFile     string         `envconfig:"SESSION_FILE" default:"threads_db.json"`
	SessionRedisKey string         `envconfig:"SESSION_REDIS_KEY" default:"wa:sessions"`
	Redis           pkgredis.Config
}

type WhatsAppConfig struct {
	AccessToken   string `envconfig:"ACCESS_TOKEN"`
	PhoneNumberID string `envconfig:"PHONE_NUMBER_ID"`
	Version       string `envconfig:"VERSION" default:"v18.0"`
	AppID         string `envconfig:"APP_ID"`
	AppSecret     string `envconfig:"APP_SECRET"`
	RecipientWaID string `envconfig:"RECIPIENT_WAID"`
	VerifyToken   string `envconfig:"VERIFY_TOKEN"`
	BaseURL       string `envconfig:"WHATSAPP_BASE_URL" default:"https://graph.facebook.com"`
}

// Load reads envFiles (".env" when none are given) and then the process
// environment. A missing .env file is not an error.
func Load(envFiles ...string) (*AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values envconfig cannot. Provider credentials are not
// checked here; a missing key fails the first model call.
func (c *AppConfig) Validate() error {
	switch c.LLM.Provider {
	case model.ProviderOpenAI, model.ProviderGemini:
	default:
		return fmt.Errorf("invalid LLM_PROVIDER %q", c.LLM.Provider)
	}
	switch c.SessionBackend {
	case SessionFile, SessionRedis:
	default:
		return fmt.Errorf("invalid SESSION_BACKEND %q", c.SessionBackend)
	}
	if _, err := flows.ParseID(c.Flow); err != nil {
		return err
	}
	c.Conversation = c.Conversation.Normalize()
	return nil
}

func (c *AppConfig) Env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}

func (c *AppConfig) FlowID() flows.ID {
	id, _ := flows.ParseID(c.Flow)
	return id
}

// Redacted returns a copy safe to log.
func (c AppConfig) Redacted() AppConfig {
	c.LLM.OpenAI.APIKey = mask(c.LLM.OpenAI.APIKey)
	c.LLM.Gemini.APIKey = mask(c.LLM.Gemini.APIKey)
	c.WhatsApp.AccessToken = mask(c.WhatsApp.AccessToken)
	c.WhatsApp.AppSecret = mask(c.WhatsApp.AppSecret)
	c.WhatsApp.VerifyToken = mask(c.WhatsApp.VerifyToken)
	return c
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
