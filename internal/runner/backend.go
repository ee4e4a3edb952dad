package runner

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// SpawnOpts describes a single child-process invocation.
type SpawnOpts struct {
	Command string
	Args    []string
	Env     []string // nil inherits the parent's environment
	Dir     string
}

// Process is a started child process. Runner owns the concurrency
// between draining its stdout, waiting for exit, and forwarding
// signals; Backend only has to start it and hand back this handle.
// Split into start/wait so the Runner can race signal delivery against
// exit, which a single synchronous Execute call could not do.
type Process interface {
	// Signal forwards an OS signal to the child.
	Signal(sig os.Signal) error
	// Wait blocks until the child exits and returns its exit code.
	// Exactly one of Wait's two return values is meaningful: a non-nil
	// err means the process could not be waited on at all (already
	// reaped, etc); a normal non-zero exit is reported via exitCode
	// with err == nil.
	Wait() (exitCode int, err error)
}

// Backend is the capability set behind every concrete agent-invocation
// mechanism: spawn once, spawn with a streamed stdout, and check
// availability without spawning.
type Backend interface {
	// StartOnce starts a child with stdout/stderr inherited from the
	// parent. Used for non-loop steps.
	StartOnce(ctx context.Context, opts SpawnOpts) (Process, error)

	// StartStreaming starts a child with stdout returned as a pipe for
	// the caller to drain; stderr is inherited unchanged. Used for
	// loop-mode iterations.
	StartStreaming(ctx context.Context, opts SpawnOpts) (Process, io.ReadCloser, error)

	// IsAvailable reports whether command can be resolved via PATH or
	// as an absolute path, without spawning it.
	IsAvailable(command string) bool
}

// DefaultBackend spawns real child processes via os/exec. Additional
// backends are pluggable; this is the one required implementation.
type DefaultBackend struct{}

type cmdProcess struct {
	cmd *exec.Cmd
}

func (p *cmdProcess) Signal(sig os.Signal) error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Signal(sig)
}

func (p *cmdProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	return exitCodeOf(err), wrapSpawnErr(p.cmd.Path, err)
}

func (DefaultBackend) IsAvailable(command string) bool {
	if command == "" {
		return false
	}
	_, err := exec.LookPath(command)
	return err == nil
}

func (DefaultBackend) StartOnce(ctx context.Context, opts SpawnOpts) (Process, error) {
	cmd := exec.Command(opts.Command, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, wrapSpawnErr(opts.Command, err)
	}
	return &cmdProcess{cmd: cmd}, nil
}

func (DefaultBackend) StartStreaming(ctx context.Context, opts SpawnOpts) (Process, io.ReadCloser, error) {
	cmd := exec.Command(opts.Command, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, wrapSpawnErr(opts.Command, err)
	}
	return &cmdProcess{cmd: cmd}, stdout, nil
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// wrapSpawnErr distinguishes "binary not found" from ordinary non-zero
// exits: the former surfaces as AgentUnavailable, the latter is
// reported only through the exit code.
func wrapSpawnErr(command string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return nil // non-zero exit is not itself an error at this layer
	}
	if _, ok := err.(*exec.Error); ok {
		return &AgentUnavailableError{Agent: command, Cause: err}
	}
	return err
}
