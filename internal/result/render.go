package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// Format selects the rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q, expected json or text", name)
	}
}

// previewWidth is the display width of text echoed after playback.
const previewWidth = 50

// JSON renders r as indented UTF-8 JSON without HTML escaping.
func JSON(r Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Text renders r for people.
func Text(r Record) string {
	if !r.Success {
		return failureText(r)
	}

	switch r.Kind {
	case KindTranscription:
		return r.DisplayText + "\n"
	case KindVoices:
		return voicesText(r)
	}

	if r.Played {
		return fmt.Sprintf("Played: %s\n", runewidth.Truncate(r.Text, previewWidth, "..."))
	}
	size := int64(0)
	if r.FileSize != nil {
		size = *r.FileSize
	}
	return fmt.Sprintf("Saved to: %s (%s)\n", r.FilePath, humanize.Bytes(uint64(size)))
}

func voicesText(r Record) string {
	v := r.Voices
	if v == nil {
		return ""
	}
	if v.Raw != "" {
		return v.Raw
	}

	var b strings.Builder
	b.WriteString("Available voices:\n")
	langs := make([]string, 0, len(v.Languages))
	for lang := range v.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		fmt.Fprintf(&b, "  %s: %s\n", lang, strings.Join(v.Languages[lang], ", "))
	}
	if v.VoicesDir != "" {
		fmt.Fprintf(&b, "Voices directory: %s\n", v.VoicesDir)
	}
	return b.String()
}

func failureText(r Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", r.Error)
	if r.Command != "" {
		fmt.Fprintf(&b, "Command: %s\n", r.Command)
	}
	if len(r.AvailableLanguages) > 0 {
		fmt.Fprintf(&b, "Available languages: %s\n", strings.Join(r.AvailableLanguages, ", "))
	}
	if len(r.Candidates) > 0 {
		fmt.Fprintf(&b, "Tried players: %s\n", strings.Join(r.Candidates, ", "))
	}
	if r.Installation != nil {
		b.WriteString("\nInstallation:\n")
		b.WriteString(r.Installation.String())
	}
	return b.String()
}

// Write renders r to w in format.
func Write(w io.Writer, r Record, format Format) error {
	if format == FormatText {
		_, err := io.WriteString(w, Text(r))
		return err
	}
	data, err := JSON(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
