package ttypes

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIsSentinel(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		sentinel error
	}{
		{ErrorCodeEmptyInput, ErrEmptyInput},
		{ErrorCodeNoVoiceAvailable, ErrNoVoiceAvailable},
		{ErrorCodeProcessFailure, ErrProcessFailure},
		{ErrorCodeNoPlayerAvailable, ErrNoPlayerAvailable},
		{ErrorCodeFileNotFound, ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewError(tt.code, "boom", nil))
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.sentinel)
			}
			if errors.Is(err, ErrStaging) {
				t.Errorf("error with code %s should not match ErrStaging", tt.code)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewError(ErrorCodeStaging, "failed to create temporary file", cause)

	if got := err.Error(); got != "failed to create temporary file: permission denied" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}
}

func TestErrorBuilders(t *testing.T) {
	langs := []string{"en", "ar"}
	err := NewError(ErrorCodeNoVoiceAvailable, "no voice", nil).
		WithAvailableLanguages(langs).
		WithDiagnostics("out", "err", "piper --model x").
		WithCandidates([]string{"paplay"})

	langs[0] = "mutated"
	if err.AvailableLanguages[0] != "en" {
		t.Error("WithAvailableLanguages should copy its input")
	}
	if err.Diagnostics.Command != "piper --model x" {
		t.Errorf("Command = %q", err.Diagnostics.Command)
	}

	got, ok := AsError(fmt.Errorf("outer: %w", err))
	if !ok || got != err {
		t.Fatal("AsError should find the wrapped error")
	}
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    EngineType
		wantErr bool
	}{
		{"espeak", EngineEspeak, false},
		{"espeak-ng", EngineEspeak, false},
		{" Piper ", EnginePiper, false},
		{"neural", EnginePiper, false},
		{"", EngineNone, true},
		{"festival", EngineNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEngine(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEngine(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseEngine(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidEngine) {
				t.Errorf("error should wrap ErrInvalidEngine: %v", err)
			}
		})
	}
}

func TestGuidanceString(t *testing.T) {
	g := &Guidance{
		DownloadURL: "https://example.invalid/releases",
		Steps:       []string{"1. unpack"},
		Platforms:   map[string]string{"macos": "brew install x", "arch": "pacman -S x"},
	}
	s := g.String()
	if !strings.Contains(s, "Download: https://example.invalid/releases") {
		t.Errorf("missing download line in %q", s)
	}
	if strings.Index(s, "arch") > strings.Index(s, "macos") {
		t.Error("platforms should be listed in sorted order")
	}

	var nilGuidance *Guidance
	if nilGuidance.String() != "" {
		t.Error("nil guidance should render empty")
	}
}
