package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	cases := map[string]Environment{
		"production":   Production,
		" PROD ":       Production,
		"staging":      Staging,
		"test":         Testing,
		"Testing":      Testing,
		"dev":          Development,
		"":             Development,
		"qa-cluster-7": Development,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseEnvironment(in), in)
	}
}

func TestEnvironmentLogDefaults(t *testing.T) {
	assert.True(t, Production.Deployed())
	assert.True(t, Staging.Deployed())
	assert.False(t, Development.Deployed())
	assert.False(t, Testing.Deployed())

	assert.Equal(t, "info", Production.DefaultLogLevel())
	assert.Equal(t, "debug", Staging.DefaultLogLevel())
	assert.Equal(t, "warn", Testing.DefaultLogLevel())
	assert.Equal(t, "debug", Development.DefaultLogLevel())
}
