// Agent identity resolution. Every claim records which agent made it, so the
// name must be stable across invocations on the same machine.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// AgentSource represents where the agent identity was resolved from.
type AgentSource string

const (
	AgentSourceFlag      AgentSource = "flag"
	AgentSourceEnv       AgentSource = "environment"
	AgentSourceConfig    AgentSource = "config_file"
	AgentSourceHostname  AgentSource = "hostname"
	AgentSourceGenerated AgentSource = "generated"
)

// ResolveAgent returns the agent identity and where it came from.
// It checks in order: explicit override (command flag), FOREMAN_AGENT,
// config file, hostname. As a last resort it generates a random name,
// which is stable only for the current process.
func ResolveAgent(cfg *Config, override string) (string, AgentSource) {
	if override != "" {
		return override, AgentSourceFlag
	}

	if name := os.Getenv("FOREMAN_AGENT"); name != "" {
		return name, AgentSourceEnv
	}

	if cfg != nil && cfg.Agent.Name != "" {
		name := os.ExpandEnv(cfg.Agent.Name)
		if name != "" && !strings.HasPrefix(name, "${") {
			return name, AgentSourceConfig
		}
	}

	if host, err := os.Hostname(); err == nil && host != "" {
		return host, AgentSourceHostname
	}

	return fmt.Sprintf("agent-%s", uuid.New().String()[:8]), AgentSourceGenerated
}

// ValidateAgentName performs basic validation on an agent name before it is
// written into claims.
func ValidateAgentName(name string) error {
	if name == "" {
		return fmt.Errorf("agent name must not be empty")
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("agent name must not contain whitespace")
	}
	if len(name) > 64 {
		return fmt.Errorf("agent name too long (max 64 characters)")
	}
	return nil
}
