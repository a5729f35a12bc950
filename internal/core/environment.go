package core

import "strings"

// Environment is the deployment environment of the assistant.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment accepts the long names plus "dev", "prod" and "test".
// Anything else is Development so a local webhook still starts.
func ParseEnvironment(v string) Environment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "production", "prod":
		return Production
	case "staging":
		return Staging
	case "testing", "test":
		return Testing
	default:
		return Development
	}
}

// Deployed reports whether the assistant is serving real WhatsApp traffic.
// Deployed environments log JSON without caller info.
func (e Environment) Deployed() bool {
	return e == Production || e == Staging
}

// DefaultLogLevel is used when LOG_LEVEL is unset or unparsable.
func (e Environment) DefaultLogLevel() string {
	switch e {
	case Production:
		return "info"
	case Testing:
		return "warn"
	default:
		return "debug"
	}
}
