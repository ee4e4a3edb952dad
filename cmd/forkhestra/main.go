// Command forkhestra is the CLI front end for the chain executor: it
// accepts a DSL expression or a named chain, resolves prompts and
// variables, and runs each step's agent to completion.
package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/forkhestra/forkhestra/internal/chainspec"
	"github.com/forkhestra/forkhestra/internal/dsl"
	"github.com/forkhestra/forkhestra/internal/executor"
	"github.com/forkhestra/forkhestra/internal/runner"
)

var varBindingPattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*=`)

var (
	flagCwd        string
	flagVerbose    bool
	flagDryRun     bool
	flagChain      string
	flagPrompt     string
	flagPromptFile string
	flagTimeout    time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitCodeError
		if ok := asExitCodeError(err, &exitErr); ok {
			fmt.Fprintln(os.Stderr, "error:", exitErr.err)
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

// exitCodeError pins a specific process exit code to an error, so a
// RunE can distinguish "chain ran but didn't complete" (1) from
// "couldn't even start" (2) without cobra's default always-exit-1.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }

func asExitCodeError(err error, target **exitCodeError) bool {
	if e, ok := err.(*exitCodeError); ok {
		*target = e
		return true
	}
	return false
}

var rootCmd = &cobra.Command{
	Use:           "forkhestra [options] <target>",
	Short:         "Run a DSL chain or a named chain config against local agent binaries",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&flagCwd, "cwd", "", "working directory for all child processes")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "show per-iteration diagnostics on stderr")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the resolved plan; do not execute")
	rootCmd.Flags().StringVar(&flagChain, "chain", "", "load a named chain from the config file")
	rootCmd.Flags().StringVarP(&flagPrompt, "prompt", "p", "", "inline prompt applied to all steps (highest precedence)")
	rootCmd.Flags().StringVar(&flagPromptFile, "prompt-file", "", "prompt file applied to all steps (highest precedence)")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "wall-clock limit for the whole chain; 0 means no limit")
}

func runRoot(cmd *cobra.Command, args []string) error {
	log := newLogger(flagVerbose)

	vars := map[string]string{}
	var dslTokens []string
	for _, a := range args {
		if varBindingPattern.MatchString(a) {
			kv := strings.SplitN(a, "=", 2)
			vars[kv[0]] = kv[1]
			continue
		}
		dslTokens = append(dslTokens, a)
	}

	var spec chainspec.ChainSpec
	var agents map[string]chainspec.AgentDefault

	if flagChain != "" {
		cfg, _, err := chainspec.Load(flagCwd)
		if err != nil {
			return &exitCodeError{2, err}
		}
		chain, err := cfg.GetChain(flagChain)
		if err != nil {
			return &exitCodeError{2, err}
		}
		substituted, err := chainspec.SubstituteChain(chain, vars)
		if err != nil {
			return &exitCodeError{2, err}
		}
		spec = substituted

		agents = make(map[string]chainspec.AgentDefault, len(cfg.Agents))
		for name, a := range cfg.Agents {
			sa, err := chainspec.SubstituteAgentDefault(a, vars)
			if err != nil {
				return &exitCodeError{2, err}
			}
			agents[name] = sa
		}
	} else {
		if len(dslTokens) == 0 {
			return &exitCodeError{2, fmt.Errorf("no DSL target or --chain given")}
		}
		expr := strings.Join(dslTokens, " ")
		steps, err := dsl.Parse(expr)
		if err != nil {
			return &exitCodeError{2, err}
		}
		spec = chainspec.ChainSpec{Steps: steps}
	}

	if flagDryRun {
		printPlan(spec)
		return nil
	}

	r := runner.New(log)
	ex := executor.New(r, log)
	in := executor.Inputs{
		CLIPrompt:     flagPrompt,
		CLIPromptFile: flagPromptFile,
		Agents:        agents,
		Cwd:           flagCwd,
		Verbose:       flagVerbose,
		Vars:          vars,
	}

	runCtx := context.Background()
	if flagTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, flagTimeout)
		defer cancel()
	}

	result := ex.Run(runCtx, spec, in)
	printResult(result)

	if !result.Success {
		return &exitCodeError{1, fmt.Errorf("chain incomplete at step %d", result.FailedAt)}
	}
	return nil
}

func printPlan(spec chainspec.ChainSpec) {
	for i, step := range spec.Steps {
		mode := "single_run"
		if step.Loop {
			mode = fmt.Sprintf("loop x%d", step.MaxIterations)
		}
		fmt.Printf("%d. %s [%s] args=%v prompt=%q when=%q\n", i, step.Agent, mode, step.Args, step.Prompt, step.When)
	}
}

func printResult(result chainspec.ChainResult) {
	for _, r := range result.Steps {
		fmt.Printf("step %d (%s): complete=%t iterations=%d exit=%d reason=%s\n",
			r.StepIndex, r.Agent, r.Complete, r.Iterations, r.ExitCode, r.Reason)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
