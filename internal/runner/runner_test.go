package runner

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkhestra/forkhestra/internal/chainspec"
)

func TestRunSingleRunSuccess(t *testing.T) {
	r := New(zerolog.Nop())
	result := r.Run(context.Background(), Invocation{
		Agent:  "true",
		Loop:   false,
		Prompt: chainspec.ResolvedPrompt{Absent: true},
	}, Options{}, 0)

	if !result.Complete || result.Reason != chainspec.ReasonSingleRun || result.Iterations != 1 {
		t.Fatalf("got %+v", result)
	}
}

func TestRunSingleRunFailure(t *testing.T) {
	r := New(zerolog.Nop())
	result := r.Run(context.Background(), Invocation{
		Agent:  "false",
		Loop:   false,
		Prompt: chainspec.ResolvedPrompt{Absent: true},
	}, Options{}, 0)

	if result.Complete || result.Reason != chainspec.ReasonSingleRun || result.ExitCode == 0 {
		t.Fatalf("got %+v", result)
	}
}

func TestRunAgentUnavailable(t *testing.T) {
	r := New(zerolog.Nop())
	result := r.Run(context.Background(), Invocation{
		Agent: "forkhestra-definitely-not-a-real-binary",
	}, Options{}, 0)

	if result.Complete || result.Reason != chainspec.ReasonError {
		t.Fatalf("got %+v", result)
	}
}

func TestRunLoopExhaustsIterations(t *testing.T) {
	r := New(zerolog.Nop())
	r.Backend = &scriptedBackend{outputs: []string{"no marker here\n", "still nothing\n"}}

	result := r.Run(context.Background(), Invocation{
		Agent:         "scripted",
		Loop:          true,
		MaxIterations: 2,
		Prompt:        chainspec.ResolvedPrompt{Absent: true},
	}, Options{}, 0)

	if result.Complete || result.Reason != chainspec.ReasonMaxIterations || result.Iterations != 2 {
		t.Fatalf("got %+v", result)
	}
}

func TestRunContextTimeoutReportsSignal(t *testing.T) {
	r := New(zerolog.Nop())
	r.InjectedFlags = nil // sleep(1) has no use for the agent-invocation flags
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := r.Run(ctx, Invocation{
		Agent:  "sleep",
		Args:   []string{"5"},
		Loop:   false,
		Prompt: chainspec.ResolvedPrompt{Absent: true},
	}, Options{}, 0)

	if result.Complete || result.Reason != chainspec.ReasonSignal {
		t.Fatalf("got %+v", result)
	}
}

func TestRunLoopCompletesViaMarker(t *testing.T) {
	r := New(zerolog.Nop())
	r.Backend = &scriptedBackend{outputs: []string{"working\n", "working\n", "FORKHESTRA_COMPLETE\n"}}

	result := r.Run(context.Background(), Invocation{
		Agent:         "scripted",
		Loop:          true,
		MaxIterations: 5,
		Prompt:        chainspec.ResolvedPrompt{Absent: true},
	}, Options{}, 0)

	if !result.Complete || result.Reason != chainspec.ReasonMarker || result.Iterations != 3 {
		t.Fatalf("got %+v", result)
	}
}
