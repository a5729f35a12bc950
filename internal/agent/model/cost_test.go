package model

import (
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingOf(t *testing.T) {
	p, ok := ResolvePricing("gpt-3.5-turbo")
	require.True(t, ok)
	c := p.Of(&schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 500_000})
	assert.InDelta(t, 0.50, c.Input, 1e-9)
	assert.InDelta(t, 0.75, c.Output, 1e-9)
	assert.InDelta(t, 1.25, c.Total, 1e-9)

	assert.Zero(t, p.Of(nil).Total)
}

func TestResolvePricing(t *testing.T) {
	cases := []struct {
		model string
		want  string
		ok    bool
	}{
		{"gpt-4o", "gpt-4o", true},
		{"GPT-4o-mini", "gpt-4o-mini", true},
		{"gpt-4o-mini-2024-07-18", "gpt-4o-mini", true},
		{"gpt-4o-2024-08-06", "gpt-4o", true},
		{"gemini-2.5-flash-lite", "gemini-2.5-flash-lite", true},
		{"gpt-4omni", "", false},
		{"llama-3", "", false},
	}
	for _, c := range cases {
		t.Run(c.model, func(t *testing.T) {
			p, ok := ResolvePricing(c.model)
			assert.Equal(t, c.ok, ok)
			if c.ok {
				assert.Equal(t, pricingTable[c.want], p)
			} else {
				assert.Zero(t, p.Of(&schema.TokenUsage{PromptTokens: 10}).Total)
			}
		})
	}
}

func TestConversationConfigNormalize(t *testing.T) {
	c := ConversationConfig{}.Normalize()
	assert.Equal(t, 5, c.MaxRounds)
	assert.Equal(t, 60*time.Second, c.TurnTimeout)
	assert.Equal(t, DefaultApology, c.Apology)
	assert.Equal(t, DefaultGiveUp, c.GiveUp)

	c = ConversationConfig{MaxRounds: 2, Apology: "sorry"}.Normalize()
	assert.Equal(t, 2, c.MaxRounds)
	assert.Equal(t, "sorry", c.Apology)
}

func TestLLMConfigModelName(t *testing.T) {
	c := LLMConfig{Provider: ProviderGemini, OpenAI: OpenAIConfig{Model: "gpt-3.5-turbo"}, Gemini: GeminiConfig{Model: "gemini-2.5-flash"}}
	assert.Equal(t, "gemini-2.5-flash", c.ModelName())
	c.Provider = ProviderOpenAI
	assert.Equal(t, "gpt-3.5-turbo", c.ModelName())
}
