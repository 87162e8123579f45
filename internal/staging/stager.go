// Package staging writes request text to short-lived files so engines
// read it from disk instead of the command line.
package staging

import (
	"errors"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// bom is the UTF-8 byte order mark.
const bom = "\uFEFF"

// Stager creates and removes staged text files.
// The zero value stages into the system temp dir without a BOM.
type Stager struct {
	// Dir is the directory for staged files. Empty means os.TempDir.
	Dir string

	// BOM prefixes staged files with a UTF-8 byte order mark.
	BOM bool

	Logger *log.Logger
}

// New returns a Stager for dir.
func New(dir string, withBOM bool, logger *log.Logger) *Stager {
	return &Stager{Dir: dir, BOM: withBOM, Logger: logger}
}

func (s *Stager) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// Stage writes text to a new file and returns its path.
// The caller owns the file and must pass it to Release.
func (s *Stager) Stage(text string) (string, error) {
	f, err := os.CreateTemp(s.Dir, "speech-*.txt")
	if err != nil {
		return "", ttypes.NewError(ttypes.ErrorCodeStaging, "failed to create temporary file", err)
	}
	path := f.Name()

	content := text
	if s.BOM {
		content = bom + text
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		s.Release(path)
		return "", ttypes.NewError(ttypes.ErrorCodeStaging, "failed to write temporary file", err)
	}
	if err := f.Close(); err != nil {
		s.Release(path)
		return "", ttypes.NewError(ttypes.ErrorCodeStaging, "failed to close temporary file", err)
	}

	s.logger().Debug("staged text", "path", path, "bytes", len(content))
	return path, nil
}

// Release deletes a staged file. Failures are logged and never returned.
func (s *Stager) Release(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger().Warn("could not delete temporary file", "path", path, "err", err)
	}
}

// With stages text, calls fn with the staged path, then releases the file.
// The file is released exactly once whatever fn returns, including on panic.
func (s *Stager) With(text string, fn func(path string) error) error {
	path, err := s.Stage(text)
	if err != nil {
		return err
	}
	defer s.Release(path)
	return fn(path)
}
