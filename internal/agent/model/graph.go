package model

import (
	"github.com/cloudwego/eino/schema"
)

// TurnState is the graph-local state of one conversation turn.
// All reads and writes happen inside eino state handlers or
// compose.ProcessState, which serialise access. It is discarded when the
// turn ends.
type TurnState struct {
	WaID    string
	Session string
	Flow    string

	Messages []*schema.Message // system, user, then one assistant message per round
	Rounds   int               // action rounds dispatched so far
	Halt     string            // terminal reply set by dispatch; ends the turn
	LastCall string            // name of the most recent dispatched action

	TotalCostUSD float64
}

// TurnInput is what the pipeline hands the orchestrator for one inbound message.
type TurnInput struct {
	WaID    string `json:"wa_id"`
	Name    string `json:"name"`
	Text    string `json:"text"`
	Session string `json:"session"`
}
