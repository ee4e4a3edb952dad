// Package chainspec defines the data model shared by the DSL parser, the
// config loader, and the prompt resolver: steps, chains, agent defaults,
// and the results the chain executor aggregates.
package chainspec

// Step is a single agent invocation request, either one-shot or looping.
type Step struct {
	Agent         string   `json:"agent"`
	Loop          bool     `json:"loop"`
	MaxIterations int      `json:"max_iterations"`
	Args          []string `json:"args,omitempty"`
	Prompt        string   `json:"prompt,omitempty"`
	PromptFile    string   `json:"prompt_file,omitempty"`
	// When, if non-empty, is an expr-lang boolean expression gating whether
	// the step runs at all. Empty means always run.
	When string `json:"when,omitempty"`
}

// ChainSpec is an ordered sequence of steps plus chain-level defaults.
type ChainSpec struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`
	Prompt      string `json:"prompt,omitempty"`
	PromptFile  string `json:"prompt_file,omitempty"`
}

// AgentDefault carries the default prompt and opaque invocation metadata
// for a named agent. Metadata fields are loaded from the config and
// carried here uninterpreted; the executor uses only the default prompt
// fields, and none of the metadata is passed to the child process.
type AgentDefault struct {
	DefaultPrompt     string `json:"default_prompt,omitempty"`
	DefaultPromptFile string `json:"default_prompt_file,omitempty"`

	SystemPromptFile string            `json:"system_prompt_file,omitempty"`
	Model            string            `json:"model,omitempty"`
	MaxTurns         int               `json:"max_turns,omitempty"`
	AllowedTools     []string          `json:"allowed_tools,omitempty"`
	DisallowedTools  []string          `json:"disallowed_tools,omitempty"`
	SettingsFile     string            `json:"settings_file,omitempty"`
	MCPConfigFile    string            `json:"mcp_config_file,omitempty"`
	Extra            map[string]string `json:"-"`
}

// ResolvedPrompt is the single string chosen by the prompt resolver for a
// given CLI/step/chain/agent-default quadruple, or Absent if none applied.
type ResolvedPrompt struct {
	Text   string
	Absent bool
}

// RunReason classifies why a step's run ended.
type RunReason string

const (
	ReasonMarker        RunReason = "marker"
	ReasonMaxIterations RunReason = "max_iterations"
	ReasonError         RunReason = "error"
	ReasonSingleRun     RunReason = "single_run"
	ReasonSignal        RunReason = "signal"
	ReasonSkipped       RunReason = "skipped"
)

// RunResult is returned by executing a single Step.
type RunResult struct {
	Complete   bool
	Iterations int
	ExitCode   int
	Reason     RunReason
	StepIndex  int
	Agent      string
}

// ChainResult aggregates the per-step RunResults of one chain invocation.
type ChainResult struct {
	Steps    []RunResult
	Success  bool
	FailedAt int // -1 if every executed step completed
}
