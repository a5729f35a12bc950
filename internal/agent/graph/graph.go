// Package graph runs one conversation turn as an eino graph:
//
//	START → prompt → chat_model ─┬─(text)──→ END
//	                             └─(call)──→ dispatch ─┬→ chat_model
//	                                                   └→ halt → END
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/flows"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/graph/nodes"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/graph/observers"
	agentmodel "github.com/Chative-core-poc-v1/wa-assistant/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/observability/metrics"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

// Runner runs one turn and always yields a reply.
type Runner interface {
	Run(ctx context.Context, in agentmodel.TurnInput) string
}

// Config holds everything needed to build the turn graph for one flow.
type Config struct {
	Flow         *flows.Flow
	ChatModel    model.ToolCallingChatModel
	ModelName    string
	Conversation agentmodel.ConversationConfig
	Metrics      *metrics.AssistantMetrics
}

// GraphBuilder handles the construction of the turn graph.
type GraphBuilder struct {
	config *Config
	bound  model.BaseChatModel
	graph  *compose.Graph[agentmodel.TurnInput, *schema.Message]
}

// Orchestrator is the compiled graph plus the turn-level failure policy.
type Orchestrator struct {
	runnable compose.Runnable[agentmodel.TurnInput, *schema.Message]
	flow     flows.ID
	conv     agentmodel.ConversationConfig
	metrics  *metrics.AssistantMetrics
}

// New builds and compiles the graph for cfg.Flow.
func New(ctx context.Context, cfg Config) (*Orchestrator, error) {
	if cfg.Flow == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	if cfg.ChatModel == nil {
		return nil, fmt.Errorf("chat model is nil")
	}
	cfg.Conversation = cfg.Conversation.Normalize()

	bound, err := cfg.ChatModel.WithTools(cfg.Flow.Registry.Infos())
	if err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	b := &GraphBuilder{
		config: &cfg,
		bound:  bound,
		graph: compose.NewGraph[agentmodel.TurnInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *agentmodel.TurnState {
				return &agentmodel.TurnState{}
			}),
		),
	}
	if err := b.addNodes(); err != nil {
		return nil, err
	}
	if err := b.addEdges(); err != nil {
		return nil, err
	}
	if err := b.addBranches(); err != nil {
		return nil, err
	}
	runnable, err := b.compile(ctx)
	if err != nil {
		return nil, err
	}

	logx.Debug().Str("flow", string(cfg.Flow.ID)).Int("actions", cfg.Flow.Registry.Len()).Msg("Turn graph built successfully")
	return &Orchestrator{
		runnable: runnable,
		flow:     cfg.Flow.ID,
		conv:     cfg.Conversation,
		metrics:  cfg.Metrics,
	}, nil
}

func (b *GraphBuilder) addNodes() error {
	cfg := b.config
	adds := []error{
		b.graph.AddLambdaNode(nodes.NodePrompt,
			nodes.NewPromptNode(cfg.Flow),
			compose.WithStatePreHandler(nodes.NewPromptPreHandler(cfg.Flow.ID)),
		),
		b.graph.AddChatModelNode(nodes.NodeChatModel, b.bound,
			compose.WithStatePreHandler(nodes.NewChatModelPreHandler()),
			compose.WithStatePostHandler(nodes.NewChatModelPostHandler(cfg.ModelName, cfg.Metrics)),
		),
		b.graph.AddLambdaNode(nodes.NodeDispatch,
			nodes.NewDispatchNode(cfg.Flow.Registry, cfg.Conversation, cfg.Metrics),
		),
		b.graph.AddLambdaNode(nodes.NodeHalt, nodes.NewHaltNode()),
	}
	for _, err := range adds {
		if err != nil {
			logx.Error().Err(err).Msg("Error adding node")
			return fmt.Errorf("error adding node: %w", err)
		}
	}
	return nil
}

func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodePrompt},
		{nodes.NodePrompt, nodes.NodeChatModel},
		{nodes.NodeHalt, compose.END},
	}
	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			logx.Error().Err(err).Msg("Error adding edge")
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

func (b *GraphBuilder) addBranches() error {
	callBranch := compose.NewGraphBranch(
		nodes.NewChatModelCondition(),
		map[string]bool{
			nodes.NodeDispatch: true,
			compose.END:        true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeChatModel, callBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding call branch")
		return fmt.Errorf("error adding call branch: %w", err)
	}

	loopBranch := compose.NewGraphBranch(
		nodes.NewDispatchCondition(),
		map[string]bool{
			nodes.NodeChatModel: true,
			nodes.NodeHalt:      true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeDispatch, loopBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding loop branch")
		return fmt.Errorf("error adding loop branch: %w", err)
	}
	return nil
}

func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[agentmodel.TurnInput, *schema.Message], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("turn_"+string(b.config.Flow.ID)),
		compose.WithMaxRunSteps(nodes.MaxRunSteps(b.config.Conversation.MaxRounds)),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}
	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

// Run executes one turn. Every failure is logged and converted to the apology
// reply; nothing is returned to the caller as an error.
func (o *Orchestrator) Run(ctx context.Context, in agentmodel.TurnInput) string {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, o.conv.TurnTimeout)
	defer cancel()

	logx.Info().
		Str("wa_id", in.WaID).
		Str("session", in.Session).
		Str("flow", string(o.flow)).
		Msg("Running assistant")

	out, err := o.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	reply, outcome := o.resolve(out, err)

	ev := logx.Info()
	if err != nil {
		ev = logx.Error().Err(err).Str("kind", string(errx.KindOf(err)))
	}
	ev.Str("wa_id", in.WaID).
		Str("flow", string(o.flow)).
		Str("outcome", outcome).
		Dur("elapsed", time.Since(start)).
		Msg("Turn finished")

	o.metrics.ObserveTurn(string(o.flow), outcome, time.Since(start).Seconds())
	return reply
}

func (o *Orchestrator) resolve(out *schema.Message, err error) (string, string) {
	switch {
	case err != nil:
		return o.conv.Apology, "error"
	case out == nil || strings.TrimSpace(out.Content) == "":
		return o.conv.Apology, "empty"
	case out.Content == o.conv.Apology:
		return out.Content, "apology"
	case out.Content == o.conv.GiveUp:
		return out.Content, "give_up"
	}
	return out.Content, "reply"
}
