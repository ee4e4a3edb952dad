package chainspec

import (
	"fmt"
	"os"
	"path/filepath"
)

// PromptSources bundles the eight inputs a single step's prompt can come
// from, at descending precedence: CLI > step > chain > agent-default,
// inline beating file within a level.
type PromptSources struct {
	CLIPrompt     string
	CLIPromptFile string

	StepPrompt     string
	StepPromptFile string

	ChainPrompt     string
	ChainPromptFile string

	AgentDefaultPrompt     string
	AgentDefaultPromptFile string

	Cwd string
}

// Resolve applies the precedence rules and returns the resolved prompt
// text, reading a prompt file if that is the winning source.
func Resolve(src PromptSources) (ResolvedPrompt, error) {
	levels := []struct {
		inline string
		file   string
	}{
		{src.CLIPrompt, src.CLIPromptFile},
		{src.StepPrompt, src.StepPromptFile},
		{src.ChainPrompt, src.ChainPromptFile},
		{src.AgentDefaultPrompt, src.AgentDefaultPromptFile},
	}
	for _, lvl := range levels {
		if lvl.inline != "" {
			return ResolvedPrompt{Text: lvl.inline}, nil
		}
		if lvl.file != "" {
			text, err := ReadPromptFile(lvl.file, src.Cwd)
			if err != nil {
				return ResolvedPrompt{}, err
			}
			return ResolvedPrompt{Text: text}, nil
		}
	}
	return ResolvedPrompt{Absent: true}, nil
}

// ReadPromptFile resolves path against cwd and reads the file as UTF-8.
func ReadPromptFile(path, cwd string) (string, error) {
	full := path
	if !filepath.IsAbs(path) && cwd != "" {
		full = filepath.Join(cwd, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &PromptFileNotFoundError{Path: full}
		}
		return "", &PromptFileUnreadableError{Path: full, Cause: err}
	}
	return string(data), nil
}

// String renders a ResolvedPrompt for diagnostics.
func (r ResolvedPrompt) String() string {
	if r.Absent {
		return "<absent>"
	}
	return fmt.Sprintf("%q", r.Text)
}
