// Package convert turns arbitrary audio into the PCM profile the
// recognizer expects, using an external ffmpeg binary.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/offline-speech/internal/process"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// DefaultBinary is the converter executable.
const DefaultBinary = "ffmpeg"

// Guidance returns ffmpeg install commands.
func Guidance() *ttypes.Guidance {
	return &ttypes.Guidance{
		DownloadURL: "https://ffmpeg.org/download.html",
		Platforms: map[string]string{
			"ubuntu_debian": "sudo apt-get install ffmpeg",
			"centos_rhel":   "sudo yum install ffmpeg",
			"fedora":        "sudo dnf install ffmpeg",
			"arch":          "sudo pacman -S ffmpeg",
			"macos":         "brew install ffmpeg",
			"windows":       "Download from https://ffmpeg.org/download.html",
		},
		Steps: []string{"Or provide a mono 16-bit 16kHz WAV file directly."},
	}
}

// Converter wraps ffmpeg.
type Converter struct {
	binary     string
	dir        string
	sampleRate int
	runner     process.Runner
	logger     *log.Logger
}

// New returns a converter writing temporary files to dir.
func New(binary, dir string, sampleRate int, runner process.Runner, logger *log.Logger) *Converter {
	if binary == "" {
		binary = DefaultBinary
	}
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if runner == nil {
		runner = process.NewExecRunner(logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Converter{binary: binary, dir: dir, sampleRate: sampleRate, runner: runner, logger: logger}
}

// Binary returns the converter executable.
func (c *Converter) Binary() string {
	return c.binary
}

// Available reports whether the converter answers a version probe.
func (c *Converter) Available(ctx context.Context) bool {
	_, ok := process.Probe(ctx, c.runner, c.binary, "-version")
	return ok
}

// Invocation builds the ffmpeg command converting input to output.
func (c *Converter) Invocation(input, output string) process.Invocation {
	return process.Invocation{
		Path: c.binary,
		Args: []string{
			"-i", input,
			"-acodec", "pcm_s16le",
			"-ar", strconv.Itoa(c.sampleRate),
			"-ac", "1",
			"-y",
			output,
		},
	}
}

// Convert writes a converted copy of input to a new temporary WAV and
// returns its path. The caller removes it with Release.
func (c *Converter) Convert(ctx context.Context, input string) (string, error) {
	if _, err := os.Stat(input); err != nil {
		return "", ttypes.NewError(ttypes.ErrorCodeFileNotFound, fmt.Sprintf("audio file not found: %s", input), nil)
	}
	if !c.Available(ctx) {
		return "", ttypes.NewError(ttypes.ErrorCodeConverterUnavailable, "ffmpeg not found, install ffmpeg or provide a WAV file", nil).
			WithGuidance(Guidance())
	}

	tmp, err := os.CreateTemp(c.dir, "speech-*.wav")
	if err != nil {
		return "", ttypes.NewError(ttypes.ErrorCodeStaging, "failed to create temporary file", err)
	}
	output := tmp.Name()
	tmp.Close()

	inv := c.Invocation(input, output)
	out, err := c.runner.Run(ctx, inv)
	if err == nil && !out.Success() {
		err = errors.New(strings.TrimSpace(out.Stderr))
	}
	if err != nil {
		c.Release(output)
		return "", ttypes.NewError(ttypes.ErrorCodeConversionFailed, "failed to convert audio file", err).
			WithDiagnostics(out.Stdout, out.Stderr, inv.String())
	}

	c.logger.Debug("converted audio", "input", input, "output", output)
	return output, nil
}

// Release removes a converted file. Failures are logged.
func (c *Converter) Release(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("could not delete converted file", "path", path, "err", err)
	}
}
