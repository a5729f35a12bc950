package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/actions"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/flows"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/observability/metrics"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

const (
	NodePrompt    = "prompt"
	NodeChatModel = "chat_model"
	NodeDispatch  = "dispatch"
	NodeHalt      = "halt"
)

// NewPromptPreHandler seeds the turn state from the input.
func NewPromptPreHandler(flowID flows.ID) func(context.Context, model.TurnInput, *model.TurnState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.TurnState) (model.TurnInput, error) {
		s.WaID = in.WaID
		s.Session = in.Session
		s.Flow = string(flowID)
		s.Messages = nil
		s.Rounds = 0
		s.Halt = ""
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewPromptNode emits the opening [system, user] pair of the turn.
func NewPromptNode(flow *flows.Flow) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) ([]*schema.Message, error) {
		sys, err := flow.RenderSystem(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		return []*schema.Message{sys, schema.UserMessage(in.Text)}, nil
	})
}

// NewChatModelPreHandler appends the new messages to the turn and feeds the
// model the whole sequence.
func NewChatModelPreHandler() func(context.Context, []*schema.Message, *model.TurnState) ([]*schema.Message, error) {
	return func(ctx context.Context, in []*schema.Message, state *model.TurnState) ([]*schema.Message, error) {
		state.Messages = append(state.Messages, in...)

		logx.Debug().
			Str("wa_id", state.WaID).
			Int("messages", len(state.Messages)).
			Int("round", state.Rounds).
			Msg("AI thinking...")

		out := make([]*schema.Message, len(state.Messages))
		copy(out, state.Messages)
		return out, nil
	}
}

// NewChatModelPostHandler computes and logs usage cost. The model's own
// function-call message is not added to the turn.
func NewChatModelPostHandler(modelName string, m *metrics.AssistantMetrics) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.TurnState) (*schema.Message, error) {
		if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
			return out, nil
		}
		usage := out.ResponseMeta.Usage
		pricing, known := model.ResolvePricing(modelName)
		if !known {
			logx.Warn().Str("model", modelName).Msg("No pricing for model; cost recorded as zero")
		}
		cost := pricing.Of(usage)
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra["usage_cost"] = map[string]any{
			"currency":          "USD",
			"model":             modelName,
			"prompt_tokens":     usage.PromptTokens,
			"completion_tokens": usage.CompletionTokens,
			"total_tokens":      usage.TotalTokens,
			"input_cost":        cost.Input,
			"output_cost":       cost.Output,
			"total_cost":        cost.Total,
		}
		logx.Debug().
			Str("wa_id", state.WaID).
			Str("node", NodeChatModel).
			Str("model", modelName).
			Int("prompt_tokens", usage.PromptTokens).
			Int("completion_tokens", usage.CompletionTokens).
			Int("total_tokens", usage.TotalTokens).
			Float64("total_cost_usd", cost.Total).
			Msg("LLM usage")

		state.TotalCostUSD += cost.Total
		out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
		m.AddCost(modelName, cost.Total)
		return out, nil
	}
}

// NewChatModelCondition routes a function-call reply to dispatch and anything
// else to the end of the turn.
func NewChatModelCondition() func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, out *schema.Message) (string, error) {
		if out != nil && len(out.ToolCalls) > 0 {
			logx.Debug().Int("call_count", len(out.ToolCalls)).Msg("Routing to dispatch")
			return NodeDispatch, nil
		}
		logx.Debug().Msg("No function call - continuing to end")
		return compose.END, nil
	}
}

// NewDispatchNode runs the first function call of a model reply and emits its
// rendered result as one assistant message. Unknown names and an exhausted
// round budget halt the turn without running any handler.
func NewDispatchNode(registry *actions.Registry, cfg model.ConversationConfig, m *metrics.AssistantMetrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in *schema.Message) ([]*schema.Message, error) {
		call := in.ToolCalls[0]
		name := call.Function.Name

		var waID string
		_ = compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			waID = s.WaID
			return nil
		})

		if len(in.ToolCalls) > 1 {
			ignored := make([]string, 0, len(in.ToolCalls)-1)
			for _, tc := range in.ToolCalls[1:] {
				ignored = append(ignored, tc.Function.Name)
			}
			logx.Warn().Str("wa_id", waID).Str("action", name).Strs("ignored", ignored).
				Msg("Model requested several functions; only the first runs")
		}

		action, ok := registry.Lookup(name)
		if !ok {
			logx.Error().Err(errx.UnknownFunction(name)).Str("wa_id", waID).Msg("Dispatch rejected")
			m.ObserveAction(name, "unknown")
			return nil, halt(ctx, cfg.Apology)
		}

		var claimed bool
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			claimed = claimRound(s, cfg.MaxRounds)
			s.LastCall = name
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		if !claimed {
			logx.Warn().Str("wa_id", waID).Str("action", name).Int("max_rounds", normalizeMaxRounds(cfg.MaxRounds)).
				Msg("Round limit reached - giving up")
			m.ObserveAction(name, "limit")
			return nil, halt(ctx, cfg.GiveUp)
		}

		result, err := action.Invoke(ctx, call.Function.Arguments)
		if err != nil {
			m.ObserveAction(name, "error")
			return nil, err
		}
		text := actions.Render(result)
		m.ObserveAction(name, "ok")

		logx.Info().
			Str("wa_id", waID).
			Str("action", name).
			Str("result", text).
			Msg("Function executed")

		return []*schema.Message{schema.AssistantMessage(text, nil)}, nil
	})
}

func halt(ctx context.Context, reply string) error {
	return compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
		s.Halt = reply
		return nil
	})
}

// NewDispatchCondition loops back to the model unless dispatch halted the turn.
func NewDispatchCondition() func(context.Context, []*schema.Message) (string, error) {
	return func(ctx context.Context, _ []*schema.Message) (string, error) {
		var halted bool
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			halted = s.Halt != ""
			return nil
		}); err != nil {
			return "", err
		}
		if halted {
			return NodeHalt, nil
		}
		return NodeChatModel, nil
	}
}

// NewHaltNode turns the halt reply into the final message of the turn.
func NewHaltNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ []*schema.Message) (*schema.Message, error) {
		var reply string
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			reply = s.Halt
			return nil
		}); err != nil {
			return nil, err
		}
		return schema.AssistantMessage(reply, nil), nil
	})
}
