package logx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/core"
)

func TestInitStagingWritesJSONAtDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Staging, Output: &buf})
	t.Cleanup(func() { Init() })

	Debug().Str("wa_id", "15550001111").Msg("turn started")

	line := buf.String()
	require.NotEmpty(t, line)
	assert.Contains(t, line, `"level":"debug"`)
	assert.Contains(t, line, `"wa_id":"15550001111"`)
	assert.NotContains(t, line, `"caller"`)
}

func TestInitLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Production, Level: "error", Output: &buf})
	t.Cleanup(func() { Init() })

	Info().Msg("dropped")
	Error().Msg("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}
