// Package process builds and runs engine invocations as child processes.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ProbeTimeout bounds liveness checks such as "--version".
const ProbeTimeout = 5 * time.Second

// Invocation describes one child process. It is built fresh per request.
type Invocation struct {
	Path string
	Args []string

	// Stdin is a file path fed to the process on standard input.
	Stdin string

	// Dir is the working directory. Empty means the current one.
	Dir string

	// Env holds KEY=VALUE overrides appended to the parent environment.
	Env []string
}

// String renders the invocation as a shell-like command line.
func (inv Invocation) String() string {
	parts := make([]string, 0, len(inv.Args)+3)
	parts = append(parts, quote(inv.Path))
	for _, a := range inv.Args {
		parts = append(parts, quote(a))
	}
	if inv.Stdin != "" {
		parts = append(parts, "<", quote(inv.Stdin))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\"'") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// Outcome is the result of a process that ran to completion.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success reports whether the process exited with status zero.
func (o Outcome) Success() bool {
	return o.ExitCode == 0
}

// Runner executes invocations. A returned error means the process could
// not be started; a non-zero exit status is reported in the Outcome.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Outcome, error)
}

// ExecRunner runs invocations with os/exec. It holds no request state
// and may be shared by concurrent callers.
type ExecRunner struct {
	Logger *log.Logger
}

// NewExecRunner returns a runner that logs through logger.
func NewExecRunner(logger *log.Logger) *ExecRunner {
	return &ExecRunner{Logger: logger}
}

func (r *ExecRunner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

// Run executes inv and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Outcome, error) {
	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	// stdin must be attached before Start
	if inv.Stdin != "" {
		f, err := os.Open(inv.Stdin)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to open stdin file: %w", err)
		}
		defer f.Close()
		cmd.Stdin = f
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Outcome{}, fmt.Errorf("failed to start process: %w", err)
	}
	err := cmd.Wait()

	out := Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return out, fmt.Errorf("process failed: %w", err)
		}
		out.ExitCode = exitErr.ExitCode()
		if out.ExitCode == 0 {
			out.ExitCode = -1
		}
	}
	if ctx.Err() != nil && out.ExitCode != 0 {
		return out, fmt.Errorf("process cancelled: %w", ctx.Err())
	}

	r.logger().Debug("process exited",
		"cmd", inv.Path,
		"args", inv.Args,
		"exit", out.ExitCode,
		"duration", out.Duration)
	return out, nil
}

// Probe runs a short liveness check. It applies ProbeTimeout unless ctx
// already has a deadline, and reports whether the process exited cleanly.
func Probe(ctx context.Context, r Runner, path string, args ...string) (Outcome, bool) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ProbeTimeout)
		defer cancel()
	}
	out, err := r.Run(ctx, Invocation{Path: path, Args: args})
	if err != nil {
		return out, false
	}
	return out, out.Success()
}

// CheckBinary verifies that a binary is on PATH and returns its location.
func CheckBinary(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("binary %q not found in PATH: %w", name, err)
	}
	return path, nil
}
