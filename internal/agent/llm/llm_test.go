package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
)

type stubChatClient struct {
	requests []openai.ChatCompletionRequest
	resp     openai.ChatCompletionResponse
	err      error
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	return s.resp, s.err
}

type stubThreadClient struct {
	id    string
	err   error
	calls int
}

func (s *stubThreadClient) CreateThread(context.Context, openai.ThreadRequest) (openai.Thread, error) {
	s.calls++
	return openai.Thread{ID: s.id}, s.err
}

func paymentTool() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: "process_payment",
		Desc: "Process a payment with specified details.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"amount": {Type: schema.Number, Desc: "The amount to be paid.", Required: true},
		}),
	}
}

func TestGenerateSendsToolsInAutoMode(t *testing.T) {
	client := &stubChatClient{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{{
					ID:       "call_1",
					Type:     openai.ToolTypeFunction,
					Function: openai.FunctionCall{Name: "process_payment", Arguments: `{"amount":100}`},
				}},
			},
			FinishReason: openai.FinishReasonToolCalls,
		}},
		Usage: openai.Usage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15},
	}}

	base := NewOpenAIChatModel(client, OpenAIOptions{Temperature: 0.2})
	bound, err := base.WithTools([]*schema.ToolInfo{paymentTool()})
	require.NoError(t, err)

	out, err := bound.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("pay 100"),
		schema.AssistantMessage("Payment of 100 USD processed using credit card.", nil),
	})
	require.NoError(t, err)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, openai.GPT3Dot5Turbo, req.Model)
	assert.Equal(t, "auto", req.ToolChoice)
	require.Len(t, req.Tools, 1)
	assert.Equal(t, "process_payment", req.Tools[0].Function.Name)

	raw, err := json.Marshal(req.Tools[0].Function.Parameters)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount"`)
	assert.Contains(t, string(raw), `"required"`)

	roles := []string{req.Messages[0].Role, req.Messages[1].Role, req.Messages[2].Role}
	assert.Equal(t, []string{openai.ChatMessageRoleSystem, openai.ChatMessageRoleUser, openai.ChatMessageRoleAssistant}, roles)

	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "process_payment", out.ToolCalls[0].Function.Name)
	assert.Equal(t, `{"amount":100}`, out.ToolCalls[0].Function.Arguments)
	assert.Equal(t, 15, out.ResponseMeta.Usage.TotalTokens)

	assert.Empty(t, base.tools, "WithTools must not mutate the receiver")
}

func TestGenerateReadsLegacyFunctionCall(t *testing.T) {
	client := &stubChatClient{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:         openai.ChatMessageRoleAssistant,
				FunctionCall: &openai.FunctionCall{Name: "provide_sample_works", Arguments: "{}"},
			},
		}},
	}}
	out, err := NewOpenAIChatModel(client, OpenAIOptions{}).Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "provide_sample_works", out.ToolCalls[0].Function.Name)
	assert.Nil(t, client.requests[0].Tools)
}

func TestGenerateFailures(t *testing.T) {
	m := NewOpenAIChatModel(&stubChatClient{err: errors.New("connection reset")}, OpenAIOptions{})
	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.Equal(t, errx.KindUpstreamUnavailable, errx.KindOf(err))

	m = NewOpenAIChatModel(&stubChatClient{}, OpenAIOptions{})
	_, err = m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no choices"))
}

func TestStreamYieldsSingleMessage(t *testing.T) {
	client := &stubChatClient{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "Habari!"}}},
	}}
	sr, err := NewOpenAIChatModel(client, OpenAIOptions{}).Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	defer sr.Close()

	msg, err := sr.Recv()
	require.NoError(t, err)
	assert.Equal(t, "Habari!", msg.Content)
}

func TestThreadIssuer(t *testing.T) {
	c := &stubThreadClient{id: "thread_abc"}
	id, err := NewThreadIssuer(c).NewSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "thread_abc", id)

	_, err = NewThreadIssuer(&stubThreadClient{err: errors.New("401")}).NewSession(context.Background())
	assert.Equal(t, errx.KindUpstreamUnavailable, errx.KindOf(err))

	_, err = NewThreadIssuer(&stubThreadClient{}).NewSession(context.Background())
	assert.Error(t, err)
}

func TestLocalIssuer(t *testing.T) {
	a, err := LocalIssuer{}.NewSession(context.Background())
	require.NoError(t, err)
	b, _ := LocalIssuer{}.NewSession(context.Background())
	assert.True(t, strings.HasPrefix(a, "thread_"))
	assert.NotEqual(t, a, b)
}
