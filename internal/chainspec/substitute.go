package chainspec

import (
	"regexp"
)

// varRef matches ${NAME} where NAME is [A-Z_][A-Z0-9_]*.
var varRef = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)

// Substitute performs a single-pass, non-recursive substitution of
// ${NAME} tokens in s using vars. It never re-scans substituted text, so
// a value itself containing ${OTHER} is left untouched. An unbound
// reference returns a *MissingVariableError naming the first such token.
func Substitute(s string, vars map[string]string) (string, error) {
	var missing *MissingVariableError
	result := varRef.ReplaceAllStringFunc(s, func(tok string) string {
		if missing != nil {
			return tok
		}
		name := tok[2 : len(tok)-1]
		val, ok := vars[name]
		if !ok {
			missing = &MissingVariableError{Name: name}
			return tok
		}
		return val
	})
	if missing != nil {
		return "", missing
	}
	return result, nil
}

// SubstituteSlice applies Substitute to every element of ss, returning
// a new slice and leaving ss unchanged. It stops at the first error.
func SubstituteSlice(ss []string, vars map[string]string) ([]string, error) {
	out := make([]string, len(ss))
	for i, s := range ss {
		r, err := Substitute(s, vars)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// SubstituteStep returns a copy of step with ${NAME} tokens resolved in
// its args, prompt, and prompt_file fields.
func SubstituteStep(step Step, vars map[string]string) (Step, error) {
	out := step
	var err error
	out.Args, err = SubstituteSlice(step.Args, vars)
	if err != nil {
		return Step{}, err
	}
	out.Prompt, err = Substitute(step.Prompt, vars)
	if err != nil {
		return Step{}, err
	}
	out.PromptFile, err = Substitute(step.PromptFile, vars)
	if err != nil {
		return Step{}, err
	}
	return out, nil
}

// SubstituteChain applies Substitute across every step plus the
// chain-level prompt fields of spec, returning a new ChainSpec.
func SubstituteChain(spec ChainSpec, vars map[string]string) (ChainSpec, error) {
	out := spec
	var err error
	out.Prompt, err = Substitute(spec.Prompt, vars)
	if err != nil {
		return ChainSpec{}, err
	}
	out.PromptFile, err = Substitute(spec.PromptFile, vars)
	if err != nil {
		return ChainSpec{}, err
	}
	out.Steps = make([]Step, len(spec.Steps))
	for i, s := range spec.Steps {
		out.Steps[i], err = SubstituteStep(s, vars)
		if err != nil {
			return ChainSpec{}, err
		}
	}
	return out, nil
}

// SubstituteAgentDefault applies Substitute to the prompt fields of an
// AgentDefault.
func SubstituteAgentDefault(a AgentDefault, vars map[string]string) (AgentDefault, error) {
	out := a
	var err error
	out.DefaultPrompt, err = Substitute(a.DefaultPrompt, vars)
	if err != nil {
		return AgentDefault{}, err
	}
	out.DefaultPromptFile, err = Substitute(a.DefaultPromptFile, vars)
	if err != nil {
		return AgentDefault{}, err
	}
	return out, nil
}
