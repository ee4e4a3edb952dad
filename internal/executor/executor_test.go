package executor

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/forkhestra/forkhestra/internal/chainspec"
	"github.com/forkhestra/forkhestra/internal/runner"
)

func TestRunAllStepsSucceed(t *testing.T) {
	e := New(runner.New(zerolog.Nop()), zerolog.Nop())
	spec := chainspec.ChainSpec{Steps: []chainspec.Step{
		{Agent: "true"},
		{Agent: "true"},
	}}

	result := e.Run(context.Background(), spec, Inputs{})

	if !result.Success || result.FailedAt != -1 || len(result.Steps) != 2 {
		t.Fatalf("got %+v", result)
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	e := New(runner.New(zerolog.Nop()), zerolog.Nop())
	spec := chainspec.ChainSpec{Steps: []chainspec.Step{
		{Agent: "true"},
		{Agent: "false"},
		{Agent: "true"},
	}}

	result := e.Run(context.Background(), spec, Inputs{})

	if result.Success || result.FailedAt != 1 || len(result.Steps) != 2 {
		t.Fatalf("expected to stop at step 1, got %+v", result)
	}
}

func TestRunSkipsStepWhenConditionFalse(t *testing.T) {
	e := New(runner.New(zerolog.Nop()), zerolog.Nop())
	spec := chainspec.ChainSpec{Steps: []chainspec.Step{
		{Agent: "true", When: "enabled == \"true\""},
		{Agent: "true"},
	}}

	result := e.Run(context.Background(), spec, Inputs{Vars: map[string]string{"enabled": "false"}})

	if !result.Success || len(result.Steps) != 2 {
		t.Fatalf("got %+v", result)
	}
	if result.Steps[0].Reason != chainspec.ReasonSkipped || !result.Steps[0].Complete {
		t.Fatalf("expected step 0 skipped, got %+v", result.Steps[0])
	}
	if result.Steps[1].Reason != chainspec.ReasonSingleRun {
		t.Fatalf("expected step 1 to run normally, got %+v", result.Steps[1])
	}
}

func TestRunWhenConditionTrueStillRuns(t *testing.T) {
	e := New(runner.New(zerolog.Nop()), zerolog.Nop())
	spec := chainspec.ChainSpec{Steps: []chainspec.Step{
		{Agent: "true", When: "enabled == \"yes\""},
	}}

	result := e.Run(context.Background(), spec, Inputs{Vars: map[string]string{"enabled": "yes"}})

	if !result.Success || result.Steps[0].Reason != chainspec.ReasonSingleRun {
		t.Fatalf("got %+v", result)
	}
}

func TestRunInvalidWhenExpressionErrors(t *testing.T) {
	e := New(runner.New(zerolog.Nop()), zerolog.Nop())
	spec := chainspec.ChainSpec{Steps: []chainspec.Step{
		{Agent: "true", When: "this is not valid expr lang (((("},
	}}

	result := e.Run(context.Background(), spec, Inputs{})

	if result.Success || result.FailedAt != 0 || result.Steps[0].Reason != chainspec.ReasonError {
		t.Fatalf("got %+v", result)
	}
}

func TestRunWithChainPromptAndAgentDefaultSucceeds(t *testing.T) {
	e := New(runner.New(zerolog.Nop()), zerolog.Nop())
	spec := chainspec.ChainSpec{
		Prompt: "chain-level prompt",
		Steps:  []chainspec.Step{{Agent: "true"}},
	}
	in := Inputs{Agents: map[string]chainspec.AgentDefault{
		"true": {DefaultPrompt: "agent default prompt"},
	}}

	result := e.Run(context.Background(), spec, in)

	if !result.Success {
		t.Fatalf("got %+v", result)
	}
}
