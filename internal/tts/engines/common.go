package engines

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dgnsrekt/offline-speech/internal/process"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// utf8Env forces UTF-8 in the child so engines decode staged text correctly.
func utf8Env(goos string) []string {
	env := []string{"PYTHONIOENCODING=utf-8"}
	if goos != "windows" {
		env = append(env, "LC_ALL=en_US.UTF-8")
	}
	return env
}

// artifactSize returns the size of path, or 0 if it does not exist.
func artifactSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v float64) string {
	return strconv.Itoa(int(v + 0.5))
}

// spawnError reports an engine process that could not be started.
func spawnError(engine string, inv process.Invocation, err error) error {
	return ttypes.NewError(ttypes.ErrorCodeProcessFailure,
		fmt.Sprintf("%s could not be started", engine), err).
		WithDiagnostics("", "", inv.String())
}

// exitError reports an engine process that exited with a non-zero status.
func exitError(engine string, inv process.Invocation, out process.Outcome) error {
	return ttypes.NewError(ttypes.ErrorCodeProcessFailure,
		fmt.Sprintf("%s failed: %s", engine, strings.TrimSpace(out.Stderr)), nil).
		WithDiagnostics(out.Stdout, out.Stderr, inv.String())
}
