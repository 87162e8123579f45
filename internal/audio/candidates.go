package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgnsrekt/offline-speech/internal/process"
)

// FilePlaceholder marks where the audio path goes in a player command.
const FilePlaceholder = "{file}"

// Candidate is one way of playing an audio file.
type Candidate interface {
	Name() string

	// Play blocks until playback completes. Any error means this
	// candidate could not play the file.
	Play(ctx context.Context, path string) error
}

// CommandCandidate plays a file through an external player program.
type CommandCandidate struct {
	Path string

	// Args may contain FilePlaceholder; without one the path is appended.
	Args []string

	Runner process.Runner
}

// Name returns the player program.
func (c *CommandCandidate) Name() string {
	return c.Path
}

// Invocation builds the player command for path.
func (c *CommandCandidate) Invocation(path string) process.Invocation {
	args := make([]string, 0, len(c.Args)+1)
	placed := false
	for _, a := range c.Args {
		if strings.Contains(a, FilePlaceholder) {
			a = strings.ReplaceAll(a, FilePlaceholder, path)
			placed = true
		}
		args = append(args, a)
	}
	if !placed {
		args = append(args, path)
	}
	return process.Invocation{Path: c.Path, Args: args}
}

// Play runs the player and succeeds only on exit status zero.
func (c *CommandCandidate) Play(ctx context.Context, path string) error {
	out, err := c.Runner.Run(ctx, c.Invocation(path))
	if err != nil {
		return err
	}
	if !out.Success() {
		return fmt.Errorf("%s exited with status %d: %s", c.Path, out.ExitCode, strings.TrimSpace(out.Stderr))
	}
	return nil
}

// ParseCommand turns a configured player line such as "aplay -q {file}"
// into a candidate.
func ParseCommand(line string, runner process.Runner) (*CommandCandidate, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty player command")
	}
	return &CommandCandidate{Path: fields[0], Args: fields[1:], Runner: runner}, nil
}

// DefaultCommands returns the player command lines tried on goos, in order.
func DefaultCommands(goos string) []string {
	switch goos {
	case "windows":
		return []string{`powershell -c (New-Object Media.SoundPlayer "{file}").PlaySync()`}
	case "darwin":
		return []string{"afplay {file}"}
	case "linux":
		return []string{
			"paplay {file}",
			"aplay {file}",
			"mpg123 {file}",
			"mpv {file}",
			"cvlc --play-and-exit {file}",
		}
	default:
		return []string{"aplay {file}", "paplay {file}", "afplay {file}", "play {file}"}
	}
}

// CommandCandidates parses lines into candidates. On windows the
// powershell line is kept as a single script argument.
func CommandCandidates(lines []string, runner process.Runner) ([]Candidate, error) {
	out := make([]Candidate, 0, len(lines))
	for _, line := range lines {
		if rest, ok := strings.CutPrefix(line, "powershell -c "); ok {
			out = append(out, &CommandCandidate{Path: "powershell", Args: []string{"-c", rest}, Runner: runner})
			continue
		}
		c, err := ParseCommand(line, runner)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
