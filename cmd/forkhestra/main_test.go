package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forkhestra/forkhestra/internal/chainspec"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// run executes rootCmd with args, first resetting every global flag
// variable to its zero value: flags absent from a given invocation are
// left untouched by pflag rather than reset to default, so without
// this the value set by an earlier test would otherwise leak forward.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagCwd, flagVerbose, flagDryRun, flagChain, flagPrompt, flagPromptFile, flagTimeout = "", false, false, "", "", "", 0

	var err error
	out := captureStdout(t, func() {
		rootCmd.SetArgs(args)
		err = rootCmd.Execute()
	})
	return out, err
}

func TestRunDSLTargetSingleAgent(t *testing.T) {
	out, err := run(t, "true")
	if err != nil {
		t.Fatalf("run true: %v", err)
	}
	if !strings.Contains(out, "complete=true") {
		t.Errorf("out = %q", out)
	}
}

func TestRunDSLTargetFailingAgentReturnsExitCode1(t *testing.T) {
	_, err := run(t, "false")
	var exitErr *exitCodeError
	if !asExitCodeError(err, &exitErr) || exitErr.code != 1 {
		t.Fatalf("got err %v, want an exitCodeError with code 1", err)
	}
}

func TestRunWithNoTargetReturnsExitCode2(t *testing.T) {
	_, err := run(t)
	var exitErr *exitCodeError
	if !asExitCodeError(err, &exitErr) || exitErr.code != 2 {
		t.Fatalf("got err %v, want an exitCodeError with code 2", err)
	}
}

func TestDryRunPrintsPlanWithoutExecuting(t *testing.T) {
	out, err := run(t, "--dry-run", "true", "X=1")
	if err != nil {
		t.Fatalf("dry-run: %v", err)
	}
	if !strings.Contains(out, "true") || strings.Contains(out, "complete=") {
		t.Errorf("out = %q", out)
	}
}

func TestRunNamedChainFromConfig(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "forge"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfgJSON := `{
		"chains": {
			"smoke": {
				"steps": [{"agent": "true"}]
			}
		}
	}`
	if err := os.WriteFile(filepath.Join(root, "forge", "chains.json"), []byte(cfgJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--cwd", root, "--chain", "smoke")
	if err != nil {
		t.Fatalf("run --chain smoke: %v", err)
	}
	if !strings.Contains(out, "complete=true") {
		t.Errorf("out = %q", out)
	}
}

func TestPrintPlanListsEachStep(t *testing.T) {
	spec := chainspec.ChainSpec{
		Steps: []chainspec.Step{
			{Agent: "true", Loop: true, MaxIterations: 3, Prompt: "go"},
		},
	}
	out := captureStdout(t, func() { printPlan(spec) })
	if !strings.Contains(out, "true") || !strings.Contains(out, "loop x3") {
		t.Errorf("out = %q", out)
	}
}
