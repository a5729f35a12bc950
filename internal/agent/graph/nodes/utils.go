package nodes

import (
	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/model"
)

const DefaultMaxRounds = 5

// normalizeMaxRounds returns a sane default when the provided value is invalid.
func normalizeMaxRounds(n int) int {
	if n <= 0 {
		return DefaultMaxRounds
	}
	return n
}

// claimRound reserves one action round. It returns false, leaving the state
// untouched, once max rounds have already been dispatched this turn.
func claimRound(state *model.TurnState, max int) bool {
	if state.Rounds >= normalizeMaxRounds(max) {
		return false
	}
	state.Rounds++
	return true
}

// MaxRunSteps bounds graph supersteps for a turn allowing maxRounds rounds:
// prompt, one model+dispatch pair per round, the final model call and halt.
func MaxRunSteps(maxRounds int) int {
	steps := 10 + normalizeMaxRounds(maxRounds)*2
	if steps < 20 {
		steps = 20
	}
	return steps
}
