package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/offline-speech/internal/config"
	"github.com/dgnsrekt/offline-speech/internal/result"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

func TestSpeakText(t *testing.T) {
	dir := t.TempDir()
	withBOM := filepath.Join(dir, "bom.txt")
	if err := os.WriteFile(withBOM, []byte(utf8BOM+"hello from file"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		file    string
		want    string
		wantErr bool
	}{
		{name: "argument", args: []string{"hello"}, want: "hello"},
		{name: "argument wins over file", args: []string{"hello"}, file: withBOM, want: "hello"},
		{name: "file strips bom", file: withBOM, want: "hello from file"},
		{name: "missing file", file: filepath.Join(dir, "nope.txt"), wantErr: true},
		{name: "nothing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := speakText(tt.args, tt.file, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("speakText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("speakText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpeakTextPipe(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := w.WriteString(utf8BOM + "piped text"); err != nil {
		t.Fatal(err)
	}
	w.Close()

	got, err := speakText(nil, "", r)
	if err != nil {
		t.Fatalf("speakText() error = %v", err)
	}
	if got != "piped text" {
		t.Errorf("speakText() = %q, want %q", got, "piped text")
	}
}

func TestEnsureConfigFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "nested", "speech.yml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensureConfigFile() error = %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != defaultConfig {
		t.Error("default config was not written")
	}

	// existing files are left alone
	if err := os.WriteFile(path, []byte("engine: piper\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensureConfigFile() error = %v", err)
	}
	b, _ = os.ReadFile(path)
	if string(b) != "engine: piper\n" {
		t.Errorf("existing config overwritten: %q", b)
	}

	if err := ensureConfigFile(filepath.Join(dir, "speech.toml")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if err := ensureConfigFile(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestDefaultConfigLoads(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	config.SetDefaults(v)

	got, err := config.Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Engine != "espeak" || got.Language != "en" {
		t.Errorf("Load() engine=%q language=%q", got.Engine, got.Language)
	}
	if got.Vosk.Models["ar"] != "ar" {
		t.Errorf("vosk models = %v", got.Vosk.Models)
	}
}

func TestWriteRecord(t *testing.T) {
	failed := result.FromError(result.KindSynthesis,
		ttypes.NewError(ttypes.ErrorCodeEmptyInput, "text is empty", nil), "en")

	tests := []struct {
		name       string
		format     string
		rec        result.Record
		wantErr    bool
		wantStdout bool
		wantStderr bool
	}{
		{name: "json failure exits cleanly", format: "json", rec: failed, wantStdout: true},
		{name: "text failure", format: "text", rec: failed, wantErr: true, wantStderr: true},
		{name: "text success", format: "text", rec: result.Record{Success: true, Kind: result.KindTranscription, DisplayText: "hi"}, wantStdout: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg = config.Default()
			cfg.Format = tt.format

			var stdout, stderr bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)

			err := writeRecord(cmd, tt.rec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("writeRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (stdout.Len() > 0) != tt.wantStdout {
				t.Errorf("stdout = %q", stdout.String())
			}
			if (stderr.Len() > 0) != tt.wantStderr {
				t.Errorf("stderr = %q", stderr.String())
			}
		})
	}
}

func TestSpeakRequestTuningFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "speak"}
	f := cmd.Flags()
	f.Float64VarP(&speakSpeed, "speed", "s", 0, "")
	f.Float64VarP(&speakPitch, "pitch", "p", 0, "")
	f.Float64VarP(&speakAmplitude, "amplitude", "a", 0, "")
	f.Float64Var(&speakNoiseScale, "noise-scale", 0, "")

	if err := cmd.ParseFlags([]string{"--pitch", "0", "--noise-scale", "0.3"}); err != nil {
		t.Fatal(err)
	}

	req := speakRequest(cmd, "hi")
	if req.Pitch == nil || *req.Pitch != 0 {
		t.Errorf("Pitch = %v, want explicit 0", req.Pitch)
	}
	if req.NoiseScale == nil || *req.NoiseScale != 0.3 {
		t.Errorf("NoiseScale = %v, want 0.3", req.NoiseScale)
	}
	if req.Speed != nil || req.Amplitude != nil {
		t.Errorf("unset flags should stay nil: speed=%v amplitude=%v", req.Speed, req.Amplitude)
	}
}
