// Package actions holds the closed set of business functions a flow exposes to
// the model: their advertised schema, argument decoding and result rendering.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
)

// Name is the dispatch key the model uses to request an action.
type Name string

// Param describes one argument of an action as advertised to the model.
type Param struct {
	Name     string
	Type     schema.DataType
	Desc     string
	Required bool
	Enum     []string
}

// Action is a named, schema-described capability the orchestrator may invoke.
type Action interface {
	Name() Name
	Info() *schema.ToolInfo
	// Invoke decodes the JSON-encoded arguments and runs the handler.
	Invoke(ctx context.Context, arguments string) (any, error)
}

// Handler is the typed body of an action.
type Handler[T any] func(ctx context.Context, in T) (any, error)

type typedAction[T any] struct {
	name Name
	info *schema.ToolInfo
	fn   Handler[T]
}

// New builds an Action whose arguments are decoded into T before fn runs.
// Decoding failures surface as errx.KindArgumentDecode; schema requirements are
// not enforced here, handlers reject what they cannot use.
func New[T any](name Name, desc string, params []Param, fn Handler[T]) Action {
	info := &schema.ToolInfo{Name: string(name), Desc: desc}
	if len(params) > 0 {
		props := make(map[string]*schema.ParameterInfo, len(params))
		for _, p := range params {
			props[p.Name] = &schema.ParameterInfo{
				Type:     p.Type,
				Desc:     p.Desc,
				Required: p.Required,
				Enum:     p.Enum,
			}
		}
		info.ParamsOneOf = schema.NewParamsOneOfByParams(props)
	}
	return &typedAction[T]{name: name, info: info, fn: fn}
}

func (a *typedAction[T]) Name() Name { return a.name }

func (a *typedAction[T]) Info() *schema.ToolInfo { return a.info }

func (a *typedAction[T]) Invoke(ctx context.Context, arguments string) (any, error) {
	var in T
	raw := strings.TrimSpace(arguments)
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, errx.ArgumentDecode(fmt.Errorf("%s: %w", a.name, err))
	}
	out, err := a.fn(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.name, err)
	}
	return out, nil
}

// NoArgs is the argument type of actions that take no parameters.
type NoArgs struct{}
