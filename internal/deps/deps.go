// Package deps checks the external engines, models and players the
// speech tools rely on and renders an install report.
package deps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/offline-speech/internal/process"
	"github.com/dgnsrekt/offline-speech/internal/stt"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
	"github.com/dgnsrekt/offline-speech/internal/voices"
)

// Status represents the status of a dependency.
type Status struct {
	Name         string `json:"name"`
	Required     bool   `json:"required"`
	Installed    bool   `json:"installed"`
	Version      string `json:"version,omitempty"`
	Path         string `json:"path,omitempty"`
	Detail       string `json:"detail,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Checker checks a single dependency.
type Checker interface {
	Check(ctx context.Context) Status
	Instructions() string
}

type section struct {
	title string
	names []string
}

// Report holds checkers grouped by section and their results.
type Report struct {
	sections []*section
	checkers map[string]Checker
	required map[string]bool
	Results  map[string]Status
	Logger   *log.Logger
}

// NewReport creates an empty report.
func NewReport(logger *log.Logger) *Report {
	if logger == nil {
		logger = log.Default()
	}
	return &Report{
		checkers: make(map[string]Checker),
		required: make(map[string]bool),
		Results:  make(map[string]Status),
		Logger:   logger,
	}
}

// Add registers a checker under a section title. Sections keep the
// order they were first added in.
func (r *Report) Add(title, name string, required bool, c Checker) {
	var s *section
	for _, existing := range r.sections {
		if existing.title == title {
			s = existing
			break
		}
	}
	if s == nil {
		s = &section{title: title}
		r.sections = append(r.sections, s)
	}
	s.names = append(s.names, name)
	r.checkers[name] = c
	r.required[name] = required
}

// CheckAll runs every checker and fails if a required dependency is missing.
func (r *Report) CheckAll(ctx context.Context) error {
	var missing []string

	for _, s := range r.sections {
		for _, name := range s.names {
			status := r.checkers[name].Check(ctx)
			status.Name = name
			status.Required = r.required[name]
			if !status.Installed && status.Instructions == "" {
				status.Instructions = r.checkers[name].Instructions()
			}
			r.Results[name] = status

			switch {
			case status.Required && !status.Installed:
				missing = append(missing, name)
				r.Logger.Error("Missing required dependency", "name", name, "detail", status.Detail)
			case status.Installed:
				r.Logger.Debug("Dependency found", "name", name, "version", status.Version, "path", status.Path)
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required dependencies: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Statuses returns results in report order.
func (r *Report) Statuses() []Status {
	var out []Status
	for _, s := range r.sections {
		for _, name := range s.names {
			if st, ok := r.Results[name]; ok {
				out = append(out, st)
			}
		}
	}
	return out
}

// BinaryChecker checks an executable, optionally running it for a version.
type BinaryChecker struct {
	Binary string

	// Args run the binary for a liveness check. Empty means only the
	// execute permission is checked.
	Args []string

	// VersionField picks the 1-based field of the first output line as
	// the version. Zero keeps the whole line.
	VersionField int

	Guidance *ttypes.Guidance
	Platform string
	Runner   process.Runner
}

func (c *BinaryChecker) resolve() (string, bool) {
	if filepath.Base(c.Binary) == c.Binary {
		path, err := process.CheckBinary(c.Binary)
		return path, err == nil
	}
	info, err := os.Stat(c.Binary)
	return c.Binary, err == nil && !info.IsDir()
}

// Check implements Checker.
func (c *BinaryChecker) Check(ctx context.Context) Status {
	path, found := c.resolve()
	if !found {
		return Status{Detail: fmt.Sprintf("%s not found", c.Binary)}
	}
	if len(c.Args) == 0 {
		if !process.IsExecutable(path) {
			return Status{Path: path, Detail: "not executable"}
		}
		return Status{Installed: true, Path: path, Version: "installed"}
	}

	runner := c.Runner
	if runner == nil {
		runner = process.NewExecRunner(nil)
	}
	out, ok := process.Probe(ctx, runner, path, c.Args...)
	if !ok {
		return Status{Path: path, Detail: firstLine(out.Stderr)}
	}
	return Status{Installed: true, Path: path, Version: versionOf(out.Stdout, c.VersionField)}
}

// Instructions implements Checker.
func (c *BinaryChecker) Instructions() string {
	return Instructions(c.Guidance, c.Platform)
}

// CatalogChecker reports installed voice models.
type CatalogChecker struct {
	Catalog  *voices.Catalog
	Guidance *ttypes.Guidance
}

// Check implements Checker.
func (c *CatalogChecker) Check(context.Context) Status {
	if c.Catalog.Len() == 0 {
		return Status{Path: c.Catalog.Dir(), Detail: "no voice models found"}
	}
	return Status{
		Installed: true,
		Path:      c.Catalog.Dir(),
		Version:   fmt.Sprintf("%d voices (%s)", c.Catalog.Len(), strings.Join(c.Catalog.Languages(), ", ")),
	}
}

// Instructions implements Checker.
func (c *CatalogChecker) Instructions() string {
	return Instructions(c.Guidance, "")
}

// ModelChecker reports which recognition languages have a model.
type ModelChecker struct {
	Locator stt.ModelLocator
}

// Check implements Checker.
func (c *ModelChecker) Check(context.Context) Status {
	var found []string
	var first string
	for _, lang := range c.Locator.Languages() {
		dir, err := c.Locator.Locate(lang)
		if err != nil {
			continue
		}
		if first == "" {
			first = dir
		}
		found = append(found, lang)
	}
	if len(found) == 0 {
		return Status{Detail: "no models found"}
	}
	return Status{Installed: true, Path: first, Version: strings.Join(found, ", ")}
}

// Instructions implements Checker.
func (c *ModelChecker) Instructions() string {
	return stt.ModelGuidance(c.Locator.SearchPaths).String()
}

// PlayerChecker reports which configured player commands are on PATH.
type PlayerChecker struct {
	Commands []string
}

// Check implements Checker.
func (c *PlayerChecker) Check(context.Context) Status {
	var found []string
	var first string
	for _, line := range c.Commands {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		path, err := process.CheckBinary(fields[0])
		if err != nil {
			continue
		}
		if first == "" {
			first = path
		}
		found = append(found, fields[0])
	}
	if len(found) == 0 {
		return Status{Detail: "no audio player found"}
	}
	return Status{Installed: true, Path: first, Version: strings.Join(found, ", ")}
}

// Instructions implements Checker.
func (c *PlayerChecker) Instructions() string {
	names := make([]string, 0, len(c.Commands))
	for _, line := range c.Commands {
		if fields := strings.Fields(line); len(fields) > 0 {
			names = append(names, fields[0])
		}
	}
	return "Install one of: " + strings.Join(names, ", ")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func versionOf(stdout string, field int) string {
	line := firstLine(stdout)
	if field <= 0 {
		return line
	}
	parts := strings.Fields(line)
	if field > len(parts) {
		return line
	}
	return parts[field-1]
}
