package process

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestInvocationString(t *testing.T) {
	inv := Invocation{
		Path:  "/usr/bin/piper",
		Args:  []string{"--model", "/voices/en US.onnx", "--length_scale", "1.00"},
		Stdin: "/tmp/speech-1.txt",
	}
	want := `/usr/bin/piper --model "/voices/en US.onnx" --length_scale 1.00 < /tmp/speech-1.txt`
	if got := inv.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	requireShell(t)

	stdin := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(stdin, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewExecRunner(nil)
	out, err := r.Run(context.Background(), Invocation{
		Path:  "sh",
		Args:  []string{"-c", `cat; echo " $SPEECH_TEST_VAR"; echo oops >&2; exit 3`},
		Stdin: stdin,
		Env:   []string{"SPEECH_TEST_VAR=set"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", out.ExitCode)
	}
	if strings.TrimSpace(out.Stdout) != "hello set" {
		t.Errorf("Stdout = %q", out.Stdout)
	}
	if strings.TrimSpace(out.Stderr) != "oops" {
		t.Errorf("Stderr = %q", out.Stderr)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := NewExecRunner(nil)
	_, err := r.Run(context.Background(), Invocation{Path: "definitely-not-a-real-binary-xyz"})
	if err == nil {
		t.Fatal("expected spawn error for missing binary")
	}
}

func TestProbe(t *testing.T) {
	requireShell(t)

	if _, ok := Probe(context.Background(), NewExecRunner(nil), "sh", "-c", "exit 0"); !ok {
		t.Error("Probe should succeed on exit 0")
	}
	if _, ok := Probe(context.Background(), NewExecRunner(nil), "sh", "-c", "exit 1"); ok {
		t.Error("Probe should fail on exit 1")
	}
}

func TestIsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no execute bit on windows")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "run.sh")
	plain := filepath.Join(dir, "plain.txt")
	_ = os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755)
	_ = os.WriteFile(plain, []byte("x"), 0o644)

	tests := []struct {
		path string
		want bool
	}{
		{script, true},
		{plain, false},
		{dir, false},
		{filepath.Join(dir, "missing"), false},
	}
	for _, tt := range tests {
		if got := IsExecutable(tt.path); got != tt.want {
			t.Errorf("IsExecutable(%s) = %v, want %v", filepath.Base(tt.path), got, tt.want)
		}
	}
}
