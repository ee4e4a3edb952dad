// Package executor implements the Chain Executor: it walks a resolved
// chain's steps in order, delegating each to the Runner, and stops at
// the first incomplete step.
package executor

import (
	"context"

	"github.com/expr-lang/expr"
	"github.com/rs/zerolog"

	"github.com/forkhestra/forkhestra/internal/chainspec"
	"github.com/forkhestra/forkhestra/internal/runner"
)

// Inputs bundles everything the executor needs beyond the chain spec
// itself: the CLI-level prompt override and the agent defaults map used
// by the Prompt Resolver at each step.
type Inputs struct {
	CLIPrompt     string
	CLIPromptFile string
	Agents        map[string]chainspec.AgentDefault
	Cwd           string
	Verbose       bool
	Env           []string
	Vars          map[string]string // bindings used to evaluate step.When
}

// Executor runs a ChainSpec's steps in order via a Runner.
type Executor struct {
	Runner *runner.Runner
	Log    zerolog.Logger
}

// New builds an Executor around r.
func New(r *runner.Runner, log zerolog.Logger) *Executor {
	return &Executor{Runner: r, Log: log}
}

// Run executes every step of spec in order, stopping at the first step
// whose RunResult is incomplete for a reason other than a successful
// single_run exit.
func (e *Executor) Run(ctx context.Context, spec chainspec.ChainSpec, in Inputs) chainspec.ChainResult {
	result := chainspec.ChainResult{FailedAt: -1}

	for i, step := range spec.Steps {
		if step.When != "" {
			ok, err := evalWhen(step.When, in.Vars, result.Steps)
			if err != nil {
				e.Log.Error().Err(err).Int("step", i).Msg("when condition failed to evaluate")
				result.Steps = append(result.Steps, chainspec.RunResult{StepIndex: i, Agent: step.Agent, Reason: chainspec.ReasonError})
				result.FailedAt = i
				result.Success = false
				return result
			}
			if !ok {
				e.Log.Info().Int("step", i).Str("agent", step.Agent).Msg("step skipped by when condition")
				result.Steps = append(result.Steps, chainspec.RunResult{StepIndex: i, Agent: step.Agent, Reason: chainspec.ReasonSkipped, Complete: true})
				continue
			}
		}

		resolved, err := chainspec.Resolve(chainspec.PromptSources{
			CLIPrompt:              in.CLIPrompt,
			CLIPromptFile:          in.CLIPromptFile,
			StepPrompt:             step.Prompt,
			StepPromptFile:         step.PromptFile,
			ChainPrompt:            spec.Prompt,
			ChainPromptFile:        spec.PromptFile,
			AgentDefaultPrompt:     in.Agents[step.Agent].DefaultPrompt,
			AgentDefaultPromptFile: in.Agents[step.Agent].DefaultPromptFile,
			Cwd:                    in.Cwd,
		})
		if err != nil {
			e.Log.Error().Err(err).Int("step", i).Msg("prompt resolution failed")
			result.Steps = append(result.Steps, chainspec.RunResult{StepIndex: i, Agent: step.Agent, Reason: chainspec.ReasonError})
			result.FailedAt = i
			result.Success = false
			return result
		}

		run := e.Runner.Run(ctx, runner.Invocation{
			Agent:         step.Agent,
			Args:          step.Args,
			Prompt:        resolved,
			Loop:          step.Loop,
			MaxIterations: step.MaxIterations,
		}, runner.Options{Cwd: in.Cwd, Verbose: in.Verbose, Env: in.Env}, i)

		result.Steps = append(result.Steps, run)

		if !run.Complete {
			result.FailedAt = i
			result.Success = false
			return result
		}
	}

	result.Success = true
	return result
}

// evalWhen evaluates a step's guard expression against the chain's
// variable bindings and the results accumulated so far.
func evalWhen(exprStr string, vars map[string]string, prev []chainspec.RunResult) (bool, error) {
	env := map[string]any{"prev": prev}
	for k, v := range vars {
		env[k] = v
	}
	program, err := expr.Compile(exprStr, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	result, ok := out.(bool)
	if !ok {
		return false, &WhenTypeError{Expr: exprStr}
	}
	return result, nil
}
