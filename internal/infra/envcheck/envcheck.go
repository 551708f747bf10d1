// Package envcheck validates process configuration before the service serves
// traffic: required secrets exist and are strong, optional integrations are
// either complete or cleanly absent, and a typed immutable config is built
// once at startup and passed explicitly to dependents.
package envcheck

import (
	"os"
	"strings"
)

// Environment is an immutable snapshot of process environment variables.
// Validators operate on a snapshot rather than os.Getenv so tests can supply
// fixtures and the running service reads configuration exactly once.
type Environment map[string]string

// FromOS captures the current process environment.
func FromOS() Environment {
	env := make(Environment)
	for _, kv := range os.Environ() {
		if idx := strings.IndexByte(kv, '='); idx > 0 {
			env[kv[:idx]] = kv[idx+1:]
		}
	}
	return env
}

// Get returns the value for key, or empty string when unset.
func (e Environment) Get(key string) string {
	return e[key]
}

// Has reports whether key is set to a non-empty value.
func (e Environment) Has(key string) bool {
	return e[key] != ""
}

// Severity classifies how serious a configuration finding is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue describes a single configuration problem tied to a variable.
type Issue struct {
	Variable string
	Severity Severity
	Message  string
}
