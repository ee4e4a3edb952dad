package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forkhestra/forkhestra/internal/chainspec"
)

// DefaultMarker is the literal completion marker this build recognizes.
// Open Question resolution (spec §9): the source carried both
// FORKHESTRA_COMPLETE and ORCHESTRA_COMPLETE across branches; this build
// picks FORKHESTRA_COMPLETE as the one canonical string.
const DefaultMarker = "FORKHESTRA_COMPLETE"

// DefaultInjectedFlags are prepended to every child invocation so the
// agent runs headless: non-interactive print mode and no interactive
// permission prompts. Backend-specific per spec §4.5; a different
// Backend may need a different pair, which is why Runner carries them
// rather than DefaultBackend hardcoding them.
var DefaultInjectedFlags = []string{"--print", "--dangerously-skip-permissions"}

// Invocation is a fully-resolved request to run one Step: prompt
// resolution and variable substitution have already happened upstream.
type Invocation struct {
	Agent         string
	Args          []string
	Prompt        chainspec.ResolvedPrompt
	Loop          bool
	MaxIterations int
}

// Options configures how a Runner executes one Invocation.
type Options struct {
	Cwd     string
	Verbose bool
	Env     []string
}

// Runner executes a single Step: one child process for non-loop steps,
// or a bounded sequence of children for loop steps, streaming stdout
// and scanning for the completion marker.
type Runner struct {
	Backend       Backend
	Marker        string
	InjectedFlags []string
	Log           zerolog.Logger
}

// New builds a Runner with the default backend and marker.
func New(log zerolog.Logger) *Runner {
	return &Runner{
		Backend:       DefaultBackend{},
		Marker:        DefaultMarker,
		InjectedFlags: DefaultInjectedFlags,
		Log:           log,
	}
}

func (r *Runner) argv(inv Invocation) []string {
	argv := make([]string, 0, len(r.InjectedFlags)+len(inv.Args)+1)
	argv = append(argv, r.InjectedFlags...)
	argv = append(argv, inv.Args...)
	if !inv.Prompt.Absent {
		argv = append(argv, inv.Prompt.Text)
	}
	return argv
}

// Run executes inv to completion (possibly several iterations in loop
// mode) and returns the aggregate RunResult for the step.
func (r *Runner) Run(ctx context.Context, inv Invocation, opts Options, stepIndex int) chainspec.RunResult {
	runID := uuid.NewString()
	log := r.Log.With().Str("run_id", runID).Str("agent", inv.Agent).Int("step", stepIndex).Logger()

	if !r.Backend.IsAvailable(inv.Agent) {
		log.Error().Msg("agent unavailable")
		return chainspec.RunResult{Complete: false, Iterations: 0, ExitCode: -1, Reason: chainspec.ReasonError, StepIndex: stepIndex, Agent: inv.Agent}
	}

	spawnOpts := SpawnOpts{Command: inv.Agent, Args: r.argv(inv), Env: opts.Env, Dir: opts.Cwd}

	if !inv.Loop {
		exitCode, interrupted, err := r.runOnce(ctx, spawnOpts, &log)
		if interrupted {
			return chainspec.RunResult{Complete: false, Iterations: 1, ExitCode: exitCode, Reason: chainspec.ReasonSignal, StepIndex: stepIndex, Agent: inv.Agent}
		}
		if err != nil {
			log.Error().Err(err).Msg("spawn failed")
			return chainspec.RunResult{Complete: false, Iterations: 0, ExitCode: exitCode, Reason: chainspec.ReasonError, StepIndex: stepIndex, Agent: inv.Agent}
		}
		return chainspec.RunResult{Complete: exitCode == 0, Iterations: 1, ExitCode: exitCode, Reason: chainspec.ReasonSingleRun, StepIndex: stepIndex, Agent: inv.Agent}
	}

	scanner := NewMarkerScanner(r.Marker)
	var lastExit int
	for i := 1; i <= inv.MaxIterations; i++ {
		iterLog := log.With().Int("iteration", i).Logger()
		iterLog.Info().Msg("starting iteration")

		exitCode, interrupted, err := r.runStreaming(ctx, spawnOpts, scanner, &iterLog)
		lastExit = exitCode
		if interrupted {
			return chainspec.RunResult{Complete: false, Iterations: i, ExitCode: exitCode, Reason: chainspec.ReasonSignal, StepIndex: stepIndex, Agent: inv.Agent}
		}
		if err != nil {
			iterLog.Warn().Err(err).Msg("iteration spawn error; treated as a non-terminal failed iteration")
		}

		if scanner.Seen() {
			iterLog.Info().Msg("marker observed")
			return chainspec.RunResult{Complete: true, Iterations: i, ExitCode: exitCode, Reason: chainspec.ReasonMarker, StepIndex: stepIndex, Agent: inv.Agent}
		}
	}
	log.Info().Msg("iterations exhausted without marker")
	return chainspec.RunResult{Complete: false, Iterations: inv.MaxIterations, ExitCode: lastExit, Reason: chainspec.ReasonMaxIterations, StepIndex: stepIndex, Agent: inv.Agent}
}

// runOnce spawns a single child with inherited stdio and races an
// incoming SIGINT/SIGTERM against its exit, per spec §4.5/§6.6.
func (r *Runner) runOnce(ctx context.Context, opts SpawnOpts, log *zerolog.Logger) (exitCode int, interrupted bool, err error) {
	proc, err := r.Backend.StartOnce(ctx, opts)
	if err != nil {
		return -1, false, err
	}
	return r.waitWithSignals(ctx, proc, log)
}

// runStreaming spawns a single child, tees its stdout to os.Stdout and
// into scanner unchanged, and races signals against exit the same way
// runOnce does.
func (r *Runner) runStreaming(ctx context.Context, opts SpawnOpts, scanner *MarkerScanner, log *zerolog.Logger) (exitCode int, interrupted bool, err error) {
	proc, stdout, err := r.Backend.StartStreaming(ctx, opts)
	if err != nil {
		return -1, false, err
	}

	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		_, copyErr := io.Copy(io.MultiWriter(os.Stdout, scanner), stdout)
		if copyErr != nil && copyErr != io.EOF {
			log.Warn().Err(copyErr).Msg("stdout drain error")
		}
	}()

	exitCode, interrupted, err = r.waitWithSignals(ctx, proc, log)
	<-drainDone // ordering guarantee: stdout is fully drained before returning
	return exitCode, interrupted, err
}

// waitWithSignals forwards SIGINT/SIGTERM to proc and blocks until it
// exits, reporting whether a signal arrived. Signal handlers are
// registered for the duration of this call only and removed on every
// return path, so they never leak across invocations (spec §4.5). A
// ctx deadline (the --timeout flag) is forwarded the same way as an OS
// signal: SIGTERM on expiry, reason = signal in the aggregate result.
func (r *Runner) waitWithSignals(ctx context.Context, proc Process, log *zerolog.Logger) (exitCode int, interrupted bool, err error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var wasInterrupted atomic.Bool
	waitDone := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			wasInterrupted.Store(true)
			if sigErr := proc.Signal(sig); sigErr != nil {
				log.Warn().Err(sigErr).Msg("failed to forward signal")
			}
		case <-ctx.Done():
			wasInterrupted.Store(true)
			log.Warn().Msg("chain timeout exceeded; terminating agent")
			if sigErr := proc.Signal(syscall.SIGTERM); sigErr != nil {
				log.Warn().Err(sigErr).Msg("failed to forward timeout signal")
			}
		case <-waitDone:
		}
	}()

	exitCode, err = proc.Wait()
	close(waitDone)
	return exitCode, wasInterrupted.Load(), err
}

// Classify maps an error from the prompt/config layers to a short
// diagnostic string for --verbose logging.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%T: %v", err, err)
}
