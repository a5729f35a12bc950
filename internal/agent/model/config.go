package model

import "time"

const (
	DefaultApology = "Samahani, kuna tatizo. Tafadhali jaribu tena baadaye."
	DefaultGiveUp  = "Samahani, ombi lako limechukua hatua nyingi sana. Tafadhali jaribu tena kwa maelezo mafupi."
)

// ================ Config ================
type ConversationConfig struct {
	MaxRounds   int           `envconfig:"CONVERSATION_MAX_ROUNDS" default:"5"`
	TurnTimeout time.Duration `envconfig:"CONVERSATION_TURN_TIMEOUT" default:"60s"`
	Apology     string        `envconfig:"CONVERSATION_APOLOGY_MESSAGE" default:"Samahani, kuna tatizo. Tafadhali jaribu tena baadaye."`
	GiveUp      string        `envconfig:"CONVERSATION_GIVE_UP_MESSAGE" default:"Samahani, ombi lako limechukua hatua nyingi sana. Tafadhali jaribu tena kwa maelezo mafupi."`
}

// Normalize fills zero values so a hand-built config behaves like a loaded one.
func (c ConversationConfig) Normalize() ConversationConfig {
	if c.MaxRounds <= 0 {
		c.MaxRounds = 5
	}
	if c.TurnTimeout <= 0 {
		c.TurnTimeout = 60 * time.Second
	}
	if c.Apology == "" {
		c.Apology = DefaultApology
	}
	if c.GiveUp == "" {
		c.GiveUp = DefaultGiveUp
	}
	return c
}

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

type LLMConfig struct {
	Provider    Provider `envconfig:"LLM_PROVIDER" default:"openai"`
	Temperature float32  `envconfig:"LLM_TEMPERATURE" default:"0.4"`
	MaxTokens   int      `envconfig:"LLM_MAX_TOKENS" default:"1024"`
	OpenAI      OpenAIConfig
	Gemini      GeminiConfig
}

type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL"`
	Model   string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`
}

type GeminiConfig struct {
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
	Model   string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
}

// ModelName returns the model id of the selected provider.
func (c LLMConfig) ModelName() string {
	if c.Provider == ProviderGemini {
		return c.Gemini.Model
	}
	return c.OpenAI.Model
}
