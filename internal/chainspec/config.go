package chainspec

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// CanonicalConfigPath is the config file location the loader looks for
// first. ForkhestraOpen Question resolution: the repository
// this spec was distilled from carried both "forge/chains.json" and
// "forge/orch/chains.json" across different eras; this build picks the
// flatter path as canonical and reads the nested one as a courtesy
// fallback when the canonical file is absent.
const CanonicalConfigPath = "forge/chains.json"

// FallbackConfigPath is read only when CanonicalConfigPath does not exist.
const FallbackConfigPath = "forge/orch/chains.json"

// Config is the parsed, substitution-ready contents of a chain config file.
type Config struct {
	Chains map[string]ChainSpec
	Agents map[string]AgentDefault

	// Unknown holds top-level keys other than "chains" and "agents",
	// verbatim, so a caller that round-trips the document does not
	// drop forward-compatible additions.
	Unknown map[string]json.RawMessage
}

// rawStep mirrors the on-disk step shape, accepting both "prompt_file"
// and the alternate "promptFile" spelling.
type rawStep struct {
	Agent         string   `json:"agent"`
	Iterations    *int     `json:"iterations,omitempty"`
	Args          []string `json:"args,omitempty"`
	Prompt        string   `json:"prompt,omitempty"`
	PromptFile    string   `json:"prompt_file,omitempty"`
	PromptFileAlt string   `json:"promptFile,omitempty"`
	When          string   `json:"when,omitempty"`
}

type rawChain struct {
	Description   string    `json:"description,omitempty"`
	Steps         []rawStep `json:"steps"`
	Prompt        string    `json:"prompt,omitempty"`
	PromptFile    string    `json:"prompt_file,omitempty"`
	PromptFileAlt string    `json:"promptFile,omitempty"`
}

type rawAgentDefault struct {
	DefaultPrompt        string   `json:"default_prompt,omitempty"`
	DefaultPromptFile    string   `json:"default_prompt_file,omitempty"`
	DefaultPromptFileAlt string   `json:"defaultPromptFile,omitempty"`
	SystemPromptFile     string   `json:"system_prompt_file,omitempty"`
	Model                string   `json:"model,omitempty"`
	MaxTurns             int      `json:"max_turns,omitempty"`
	AllowedTools         []string `json:"allowed_tools,omitempty"`
	DisallowedTools      []string `json:"disallowed_tools,omitempty"`
	SettingsFile         string   `json:"settings_file,omitempty"`
	MCPConfigFile        string   `json:"mcp_config_file,omitempty"`
}

type rawConfig struct {
	Chains map[string]rawChain        `json:"chains"`
	Agents map[string]rawAgentDefault `json:"agents,omitempty"`
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func (s rawStep) toStep() (Step, error) {
	if s.Agent == "" {
		return Step{}, &ConfigError{Reason: "step has empty agent"}
	}
	step := Step{
		Agent:      s.Agent,
		Args:       s.Args,
		Prompt:     s.Prompt,
		PromptFile: firstNonEmpty(s.PromptFile, s.PromptFileAlt),
		When:       s.When,
	}
	if s.Iterations != nil {
		if *s.Iterations < 1 {
			return Step{}, &ConfigError{Reason: fmt.Sprintf("step %q has non-positive iterations %d", s.Agent, *s.Iterations)}
		}
		step.Loop = true
		step.MaxIterations = *s.Iterations
	} else {
		step.Loop = false
		step.MaxIterations = 1
	}
	return step, nil
}

func (c rawChain) toChainSpec(name string) (ChainSpec, error) {
	if len(c.Steps) == 0 {
		return ChainSpec{}, &ConfigError{Reason: fmt.Sprintf("chain %q has no steps", name)}
	}
	spec := ChainSpec{
		Name:        name,
		Description: c.Description,
		Prompt:      c.Prompt,
		PromptFile:  firstNonEmpty(c.PromptFile, c.PromptFileAlt),
		Steps:       make([]Step, len(c.Steps)),
	}
	for i, rs := range c.Steps {
		st, err := rs.toStep()
		if err != nil {
			return ChainSpec{}, fmt.Errorf("chain %q step %d: %w", name, i, err)
		}
		spec.Steps[i] = st
	}
	return spec, nil
}

func (a rawAgentDefault) toAgentDefault() AgentDefault {
	return AgentDefault{
		DefaultPrompt:     a.DefaultPrompt,
		DefaultPromptFile: firstNonEmpty(a.DefaultPromptFile, a.DefaultPromptFileAlt),
		SystemPromptFile:  a.SystemPromptFile,
		Model:             a.Model,
		MaxTurns:          a.MaxTurns,
		AllowedTools:      a.AllowedTools,
		DisallowedTools:   a.DisallowedTools,
		SettingsFile:      a.SettingsFile,
		MCPConfigFile:     a.MCPConfigFile,
	}
}

// Load reads and validates the chain config at CanonicalConfigPath,
// falling back to FallbackConfigPath if the canonical file is absent.
func Load(projectRoot string) (*Config, string, error) {
	for _, rel := range []string{CanonicalConfigPath, FallbackConfigPath} {
		path := joinPath(projectRoot, rel)
		data, err := os.ReadFile(path)
		if err == nil {
			cfg, err := parse(data, path)
			return cfg, path, err
		}
		if !os.IsNotExist(err) {
			return nil, path, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return nil, "", &ConfigError{Path: CanonicalConfigPath, Reason: "not found"}
}

func joinPath(root, rel string) string {
	if root == "" {
		return rel
	}
	return root + "/" + rel
}

func parse(data []byte, path string) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Path: path, Reason: err.Error()}
	}
	if len(raw.Chains) == 0 {
		return nil, &ConfigError{Path: path, Reason: "chains must be a non-empty mapping"}
	}

	var everything map[string]json.RawMessage
	if err := json.Unmarshal(data, &everything); err != nil {
		return nil, &ConfigError{Path: path, Reason: err.Error()}
	}
	delete(everything, "chains")
	delete(everything, "agents")

	cfg := &Config{
		Chains:  make(map[string]ChainSpec, len(raw.Chains)),
		Agents:  make(map[string]AgentDefault, len(raw.Agents)),
		Unknown: everything,
	}
	for name, rc := range raw.Chains {
		spec, err := rc.toChainSpec(name)
		if err != nil {
			return nil, err
		}
		cfg.Chains[name] = spec
	}
	for name, ra := range raw.Agents {
		cfg.Agents[name] = ra.toAgentDefault()
	}
	return cfg, nil
}

// GetChain looks up a chain by name.
func (c *Config) GetChain(name string) (ChainSpec, error) {
	spec, ok := c.Chains[name]
	if !ok {
		names := make([]string, 0, len(c.Chains))
		for n := range c.Chains {
			names = append(names, n)
		}
		sort.Strings(names)
		return ChainSpec{}, &UnknownChainError{Name: name, Available: names}
	}
	return spec, nil
}
