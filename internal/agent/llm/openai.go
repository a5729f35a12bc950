package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"

	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIChatModel adapts a go-openai client to eino's chat model contract.
// Tool calling runs in automatic mode whenever tools are bound.
type OpenAIChatModel struct {
	client      chatClient
	model       string
	temperature float32
	maxTokens   int
	tools       []openai.Tool
}

type OpenAIOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

func NewOpenAIChatModel(client chatClient, opts OpenAIOptions) *OpenAIChatModel {
	if client == nil {
		panic("llm: chat client cannot be nil")
	}
	if opts.Model == "" {
		opts.Model = openai.GPT3Dot5Turbo
	}
	return &OpenAIChatModel{
		client:      client,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

// NewOpenAIClient builds the go-openai client, honouring a custom base URL.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// WithTools returns a copy of the model advertising the given schemas.
func (m *OpenAIChatModel) WithTools(infos []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	tools, err := toOpenAITools(infos)
	if err != nil {
		return nil, err
	}
	cp := *m
	cp.tools = tools
	return &cp, nil
}

func (m *OpenAIChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{
		Model:       &m.model,
		Temperature: &m.temperature,
		MaxTokens:   &m.maxTokens,
	}, opts...)

	tools := m.tools
	if len(options.Tools) > 0 {
		var err error
		if tools, err = toOpenAITools(options.Tools); err != nil {
			return nil, err
		}
	}

	req := openai.ChatCompletionRequest{
		Model:    *options.Model,
		Messages: toOpenAIMessages(input),
	}
	if options.Temperature != nil {
		req.Temperature = *options.Temperature
	}
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		req.MaxTokens = *options.MaxTokens
	}
	if len(tools) > 0 {
		req.Tools = tools
		req.ToolChoice = "auto"
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, errx.Upstream(fmt.Errorf("openai completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return nil, errx.Upstream(errors.New("openai returned no choices"))
	}
	return fromOpenAIChoice(resp.Choices[0], resp.Usage), nil
}

func (m *OpenAIChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *OpenAIChatModel) GetType() string { return "OpenAI" }

var _ model.ToolCallingChatModel = (*OpenAIChatModel)(nil)

func toOpenAITools(infos []*schema.ToolInfo) ([]openai.Tool, error) {
	tools := make([]openai.Tool, 0, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}
		params := json.RawMessage(`{"type":"object","properties":{}}`)
		if info.ParamsOneOf != nil {
			js, err := info.ParamsOneOf.ToJSONSchema()
			if err != nil {
				return nil, fmt.Errorf("tool %s schema: %w", info.Name, err)
			}
			raw, err := json.Marshal(js)
			if err != nil {
				return nil, fmt.Errorf("tool %s schema: %w", info.Name, err)
			}
			params = raw
		}
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        info.Name,
				Description: info.Desc,
				Parameters:  params,
			},
		})
	}
	return tools, nil
}

func toOpenAIMessages(in []*schema.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(in))
	for _, m := range in {
		if m == nil {
			continue
		}
		msg := openai.ChatCompletionMessage{Content: m.Content}
		switch m.Role {
		case schema.System:
			msg.Role = openai.ChatMessageRoleSystem
		case schema.Assistant:
			msg.Role = openai.ChatMessageRoleAssistant
			for _, tc := range m.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Function.Name,
						Arguments: tc.Function.Arguments,
					},
				})
			}
		case schema.Tool:
			msg.Role = openai.ChatMessageRoleTool
			msg.ToolCallID = m.ToolCallID
		default:
			msg.Role = openai.ChatMessageRoleUser
		}
		out = append(out, msg)
	}
	return out
}

func fromOpenAIChoice(choice openai.ChatCompletionChoice, usage openai.Usage) *schema.Message {
	out := &schema.Message{
		Role:    schema.Assistant,
		Content: choice.Message.Content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: string(choice.FinishReason),
			Usage: &schema.TokenUsage{
				PromptTokens:     usage.PromptTokens,
				CompletionTokens: usage.CompletionTokens,
				TotalTokens:      usage.TotalTokens,
			},
		},
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			ID:   tc.ID,
			Type: string(tc.Type),
			Function: schema.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	// Older deployments still answer with the legacy function_call field.
	if len(out.ToolCalls) == 0 && choice.Message.FunctionCall != nil {
		out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
			Type: string(openai.ToolTypeFunction),
			Function: schema.FunctionCall{
				Name:      choice.Message.FunctionCall.Name,
				Arguments: choice.Message.FunctionCall.Arguments,
			},
		})
	}
	return out
}
