package engines

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/offline-speech/internal/process"
	"github.com/dgnsrekt/offline-speech/internal/staging"
	"github.com/dgnsrekt/offline-speech/internal/tts"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// fakeEngine answers probes and writes a small artifact to the output flag.
func fakeEngine(t *testing.T, exit int) *process.FakeRunner {
	t.Helper()
	return &process.FakeRunner{
		Handle: func(inv process.Invocation) (process.Outcome, error) {
			if len(inv.Args) == 1 && inv.Args[0] == "--version" {
				return process.Outcome{Stdout: "eSpeak NG text-to-speech: 1.51"}, nil
			}
			if exit != 0 {
				return process.Outcome{ExitCode: exit, Stdout: "partial", Stderr: "voice not found"}, nil
			}
			for i, a := range inv.Args {
				if (a == "-w" || a == "--output_file") && i+1 < len(inv.Args) {
					if err := os.WriteFile(inv.Args[i+1], []byte("RIFF....WAVE"), 0o644); err != nil {
						t.Errorf("writing artifact: %v", err)
					}
				}
			}
			return process.Outcome{}, nil
		},
	}
}

func argValue(args []string, flag string) (string, bool) {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func assertNoStagedFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "speech-") {
			t.Errorf("staged file %s survived the request", e.Name())
		}
	}
}

func newTestEspeak(t *testing.T, runner *process.FakeRunner, stageDir string) *Espeak {
	t.Helper()
	return NewEspeak(context.Background(), EspeakConfig{
		Binary: "espeak-ng",
		Stager: staging.New(stageDir, true, nil),
		Runner: runner,
		GOOS:   "linux",
	})
}

func TestEspeakSynthesize(t *testing.T) {
	tests := []struct {
		name       string
		req        tts.Request
		wantMethod ttypes.EncodingMethod
		wantVoice  string
	}{
		{
			name:       "latin direct",
			req:        tts.Request{Text: "hello world", Language: "en"},
			wantMethod: ttypes.EncodingDirect,
			wantVoice:  "en",
		},
		{
			name:       "arabic text staged",
			req:        tts.Request{Text: "\u0645\u0631\u062D\u0628\u0627", Language: "en"},
			wantMethod: ttypes.EncodingFile,
			wantVoice:  "en",
		},
		{
			name:       "arabic language staged",
			req:        tts.Request{Text: "marhaba", Language: "ar"},
			wantMethod: ttypes.EncodingFile,
			wantVoice:  "ar",
		},
		{
			name:       "unknown language uses english voice",
			req:        tts.Request{Text: "hello", Language: "xx"},
			wantMethod: ttypes.EncodingDirect,
			wantVoice:  "en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			stageDir := t.TempDir()
			runner := fakeEngine(t, 0)

			var stagedContent string
			inner := runner.Handle
			runner.Handle = func(inv process.Invocation) (process.Outcome, error) {
				if f, ok := argValue(inv.Args, "-f"); ok {
					data, _ := os.ReadFile(f)
					stagedContent = string(data)
				}
				return inner(inv)
			}

			e := newTestEspeak(t, runner, stageDir)
			req := tt.req
			req.OutputPath = filepath.Join(dir, "out.wav")

			s, err := e.Synthesize(context.Background(), req)
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			if s.EncodingMethod != tt.wantMethod {
				t.Errorf("EncodingMethod = %s, want %s", s.EncodingMethod, tt.wantMethod)
			}
			if s.FileSize <= 0 || s.FilePath != req.OutputPath {
				t.Errorf("artifact = %s (%d bytes)", s.FilePath, s.FileSize)
			}
			if s.Settings["speed"] != DefaultEspeakSpeed {
				t.Errorf("speed = %v", s.Settings["speed"])
			}

			inv := runner.Calls[len(runner.Calls)-1]
			if v, _ := argValue(inv.Args, "-v"); v != tt.wantVoice {
				t.Errorf("voice = %s, want %s", v, tt.wantVoice)
			}
			_, hasFile := argValue(inv.Args, "-f")
			if tt.wantMethod == ttypes.EncodingFile {
				if !hasFile {
					t.Fatalf("expected -f invocation, got %v", inv.Args)
				}
				if stagedContent != "\uFEFF"+tt.req.Text {
					t.Errorf("staged content = %+q", stagedContent)
				}
			} else {
				if hasFile {
					t.Errorf("unexpected -f invocation: %v", inv.Args)
				}
				if inv.Args[len(inv.Args)-1] != tt.req.Text {
					t.Errorf("last arg = %q, want the text", inv.Args[len(inv.Args)-1])
				}
			}
			if !strings.Contains(strings.Join(inv.Env, " "), "LC_ALL=en_US.UTF-8") {
				t.Errorf("env = %v, want UTF-8 locale", inv.Env)
			}
			assertNoStagedFiles(t, stageDir)
		})
	}
}

func TestEspeakPlayDirectly(t *testing.T) {
	runner := fakeEngine(t, 0)
	e := newTestEspeak(t, runner, t.TempDir())

	s, err := e.Synthesize(context.Background(), tts.Request{Text: "hi", Language: "en", PlayDirectly: true, Speed: tts.Float(200)})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !s.Played || s.FilePath != "" {
		t.Errorf("synthesis = %+v", s)
	}
	inv := runner.Calls[len(runner.Calls)-1]
	if _, ok := argValue(inv.Args, "-w"); ok {
		t.Error("direct playback must not pass -w")
	}
	if v, _ := argValue(inv.Args, "-s"); v != "200" {
		t.Errorf("-s = %s, want 200", v)
	}
}

func TestEspeakEmptyInputSpawnsNothing(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		runner := fakeEngine(t, 0)
		e := newTestEspeak(t, runner, t.TempDir())
		probes := runner.CallCount()

		_, err := e.Synthesize(context.Background(), tts.Request{Text: text, Language: "en"})
		if !errors.Is(err, ttypes.ErrEmptyInput) {
			t.Errorf("Synthesize(%q) error = %v, want ErrEmptyInput", text, err)
		}
		if runner.CallCount() != probes {
			t.Errorf("Synthesize(%q) spawned a process", text)
		}
	}
}

func TestEspeakProcessFailure(t *testing.T) {
	stageDir := t.TempDir()
	runner := fakeEngine(t, 1)
	e := newTestEspeak(t, runner, stageDir)

	_, err := e.Synthesize(context.Background(), tts.Request{Text: "\u0645\u0631\u062D\u0628\u0627", Language: "ar"})
	if !errors.Is(err, ttypes.ErrProcessFailure) {
		t.Fatalf("Synthesize() error = %v, want ErrProcessFailure", err)
	}
	te, _ := ttypes.AsError(err)
	if te.Diagnostics == nil || !strings.HasPrefix(te.Diagnostics.Command, "espeak-ng -v ar") {
		t.Errorf("diagnostics = %+v", te.Diagnostics)
	}
	if te.Diagnostics.Stdout != "partial" {
		t.Errorf("stdout = %q", te.Diagnostics.Stdout)
	}
	if !strings.Contains(err.Error(), "voice not found") {
		t.Errorf("error should carry stderr: %v", err)
	}
	assertNoStagedFiles(t, stageDir)
}

func TestEspeakUnavailable(t *testing.T) {
	runner := &process.FakeRunner{
		Handle: func(process.Invocation) (process.Outcome, error) {
			return process.Outcome{}, errors.New("executable file not found")
		},
	}
	e := newTestEspeak(t, runner, t.TempDir())
	if e.Available() {
		t.Fatal("adapter should be unavailable when the probe fails")
	}

	_, err := e.Synthesize(context.Background(), tts.Request{Text: "hi"})
	if !errors.Is(err, ttypes.ErrEngineUnavailable) {
		t.Fatalf("Synthesize() error = %v, want ErrEngineUnavailable", err)
	}
	te, _ := ttypes.AsError(err)
	if te.Guidance == nil || te.Guidance.Platforms["macos"] != "brew install espeak-ng" {
		t.Errorf("guidance = %+v", te.Guidance)
	}
}

type fakePlayer struct {
	played []string
	exists bool
	err    error
}

func (p *fakePlayer) Play(_ context.Context, path string) error {
	p.played = append(p.played, path)
	_, err := os.Stat(path)
	p.exists = err == nil
	return p.err
}

func setupPiper(t *testing.T, voiceFiles ...string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "piper"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "voices"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, v := range voiceFiles {
		if err := os.WriteFile(filepath.Join(dir, "voices", v), []byte("model"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestPiper(dir, stageDir string, runner process.Runner, player tts.Player) *Piper {
	return NewPiper(PiperConfig{
		Dir:              dir,
		FallbackLanguage: "de",
		Stager:           staging.New(stageDir, false, nil),
		Runner:           runner,
		Player:           player,
		GOOS:             "linux",
	})
}

func TestPiperSynthesize(t *testing.T) {
	tests := []struct {
		name        string
		speed       float64
		lengthScale string
		wantScale   float64
	}{
		{"normal", 1, "1.00", 1},
		{"double", 2, "0.50", 0.5},
		{"zero speed", 0, "1.00", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupPiper(t, "en_US-ryan-high.onnx", "en_US-ryan-high.onnx.json")
			stageDir := t.TempDir()
			runner := fakeEngine(t, 0)
			p := newTestPiper(dir, stageDir, runner, nil)

			out := filepath.Join(t.TempDir(), "out.wav")
			s, err := p.Synthesize(context.Background(), tts.Request{
				Text:       "hello there",
				Language:   "en",
				OutputPath: out,
				Speed:      tts.Float(tt.speed),
			})
			if err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			if s.VoiceModel != "en_US-ryan-high.onnx" {
				t.Errorf("VoiceModel = %s", s.VoiceModel)
			}
			if s.Settings["length_scale"] != tt.wantScale {
				t.Errorf("length_scale = %v, want %v", s.Settings["length_scale"], tt.wantScale)
			}
			if s.Settings["noise_scale"] != DefaultPiperNoiseScale {
				t.Errorf("noise_scale = %v", s.Settings["noise_scale"])
			}
			if s.FileSize <= 0 {
				t.Errorf("FileSize = %d", s.FileSize)
			}

			if runner.CallCount() != 1 {
				t.Fatalf("ran %d processes, want 1", runner.CallCount())
			}
			inv := runner.Calls[0]
			if v, _ := argValue(inv.Args, "--length_scale"); v != tt.lengthScale {
				t.Errorf("--length_scale = %s, want %s", v, tt.lengthScale)
			}
			if m, _ := argValue(inv.Args, "--model"); m != filepath.Join(dir, "voices", "en_US-ryan-high.onnx") {
				t.Errorf("--model = %s", m)
			}
			if inv.Dir != dir {
				t.Errorf("Dir = %s, want %s", inv.Dir, dir)
			}
			if runner.StdinSeen[0] != "hello there" {
				t.Errorf("stdin = %q", runner.StdinSeen[0])
			}
			assertNoStagedFiles(t, stageDir)
		})
	}
}

func TestPiperNoVoice(t *testing.T) {
	dir := setupPiper(t, "en_US-ryan-high.onnx")
	runner := fakeEngine(t, 0)
	p := newTestPiper(dir, t.TempDir(), runner, nil)

	_, err := p.Synthesize(context.Background(), tts.Request{Text: "salut", Language: "xx"})
	if !errors.Is(err, ttypes.ErrNoVoiceAvailable) {
		t.Fatalf("Synthesize() error = %v, want ErrNoVoiceAvailable", err)
	}
	te, _ := ttypes.AsError(err)
	if len(te.AvailableLanguages) != 1 || te.AvailableLanguages[0] != "en" {
		t.Errorf("AvailableLanguages = %v", te.AvailableLanguages)
	}
	if te.Guidance == nil {
		t.Error("missing install guidance")
	}
	if runner.CallCount() != 0 {
		t.Error("no process may run without a voice")
	}
}

func TestPiperPlayDirectly(t *testing.T) {
	dir := setupPiper(t, "ar_JO-kareem-medium.onnx")
	stageDir := t.TempDir()
	runner := fakeEngine(t, 0)
	player := &fakePlayer{}
	p := newTestPiper(dir, stageDir, runner, player)

	s, err := p.Synthesize(context.Background(), tts.Request{Text: "\u0645\u0631\u062D\u0628\u0627", Language: "ar", PlayDirectly: true})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !s.Played || s.VoiceModel != "ar_JO-kareem-medium.onnx" {
		t.Errorf("synthesis = %+v", s)
	}
	if len(player.played) != 1 || !player.exists {
		t.Fatalf("player calls = %v, file existed = %v", player.played, player.exists)
	}
	if _, err := os.Stat(player.played[0]); !os.IsNotExist(err) {
		t.Error("temporary WAV should be removed after playback")
	}
	assertNoStagedFiles(t, stageDir)
}

func TestPiperPlayFailure(t *testing.T) {
	dir := setupPiper(t, "en_US-ryan-high.onnx")
	player := &fakePlayer{err: ttypes.NewError(ttypes.ErrorCodeNoPlayerAvailable, "no audio player found", nil)}
	p := newTestPiper(dir, t.TempDir(), fakeEngine(t, 0), player)

	_, err := p.Synthesize(context.Background(), tts.Request{Text: "hi", Language: "en", PlayDirectly: true})
	if !errors.Is(err, ttypes.ErrNoPlayerAvailable) {
		t.Errorf("Synthesize() error = %v, want ErrNoPlayerAvailable", err)
	}
}

func TestPiperUnavailable(t *testing.T) {
	dir := t.TempDir()
	p := newTestPiper(dir, t.TempDir(), fakeEngine(t, 0), nil)
	if p.Available() {
		t.Fatal("adapter should be unavailable without an executable")
	}

	_, err := p.Synthesize(context.Background(), tts.Request{Text: "hi"})
	if !errors.Is(err, ttypes.ErrEngineUnavailable) {
		t.Fatalf("Synthesize() error = %v, want ErrEngineUnavailable", err)
	}
	te, _ := ttypes.AsError(err)
	if te.Guidance == nil || te.Guidance.DownloadURL == "" {
		t.Errorf("guidance = %+v", te.Guidance)
	}
}

func TestPiperVoices(t *testing.T) {
	dir := setupPiper(t, "en_US-ryan-high.onnx", "en_GB-alan-low.onnx", "fr_FR-mls_1840-medium.onnx")
	p := newTestPiper(dir, t.TempDir(), fakeEngine(t, 0), nil)

	listing, err := p.Voices(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(listing.Languages["en"]) != 2 || len(listing.Languages["fr"]) != 1 {
		t.Errorf("Languages = %v", listing.Languages)
	}
	if listing.Preferred["ar"] != "ar_JO-kareem-medium.onnx" {
		t.Errorf("Preferred = %v", listing.Preferred)
	}
}

func TestEspeakTuning(t *testing.T) {
	tests := []struct {
		name          string
		cfg           EspeakConfig
		req           tts.Request
		wantSpeed     string
		wantPitch     string
		wantAmplitude string
	}{
		{
			name:      "package defaults",
			wantSpeed: "175", wantPitch: "50", wantAmplitude: "100",
		},
		{
			name:      "configured defaults",
			cfg:       EspeakConfig{Speed: tts.Float(120), Pitch: tts.Float(30), Amplitude: tts.Float(150)},
			wantSpeed: "120", wantPitch: "30", wantAmplitude: "150",
		},
		{
			name:      "explicit zero pitch and amplitude",
			req:       tts.Request{Pitch: tts.Float(0), Amplitude: tts.Float(0)},
			wantSpeed: "175", wantPitch: "0", wantAmplitude: "0",
		},
		{
			name:      "zero in config",
			cfg:       EspeakConfig{Pitch: tts.Float(0), Amplitude: tts.Float(0)},
			wantSpeed: "175", wantPitch: "0", wantAmplitude: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := fakeEngine(t, 0)
			cfg := tt.cfg
			cfg.Binary = "espeak-ng"
			cfg.Stager = staging.New(t.TempDir(), true, nil)
			cfg.Runner = runner
			cfg.GOOS = "linux"
			e := NewEspeak(context.Background(), cfg)

			req := tt.req
			req.Text = "hi"
			req.Language = "en"
			req.PlayDirectly = true
			if _, err := e.Synthesize(context.Background(), req); err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}

			inv := runner.Calls[len(runner.Calls)-1]
			for flag, want := range map[string]string{"-s": tt.wantSpeed, "-p": tt.wantPitch, "-a": tt.wantAmplitude} {
				if got, _ := argValue(inv.Args, flag); got != want {
					t.Errorf("%s = %s, want %s", flag, got, want)
				}
			}
		})
	}
}

func TestEspeakVoiceFallback(t *testing.T) {
	tests := []struct {
		name     string
		voices   map[string]string
		language string
		want     string
	}{
		{"mapped", map[string]string{"ar": "ar"}, "ar", "ar"},
		{"upper case code", nil, "FR", "fr"},
		{"unmapped uses en entry", map[string]string{"en": "en-us"}, "xx", "en-us"},
		{"map without en", map[string]string{"ar": "ar"}, "xx", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := fakeEngine(t, 0)
			e := NewEspeak(context.Background(), EspeakConfig{
				Binary: "espeak-ng",
				Voices: tt.voices,
				Stager: staging.New(t.TempDir(), true, nil),
				Runner: runner,
				GOOS:   "linux",
			})
			if _, err := e.Synthesize(context.Background(), tts.Request{Text: "hi", Language: tt.language, PlayDirectly: true}); err != nil {
				t.Fatalf("Synthesize() error = %v", err)
			}
			inv := runner.Calls[len(runner.Calls)-1]
			if got, _ := argValue(inv.Args, "-v"); got != tt.want {
				t.Errorf("-v = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPiperZeroSpeedIgnoresConfiguredSpeed(t *testing.T) {
	dir := setupPiper(t, "en_US-ryan-high.onnx", "en_US-ryan-high.onnx.json")
	runner := fakeEngine(t, 0)
	p := NewPiper(PiperConfig{
		Dir:        dir,
		Speed:      tts.Float(2),
		NoiseScale: tts.Float(0),
		Stager:     staging.New(t.TempDir(), false, nil),
		Runner:     runner,
		GOOS:       "linux",
	})

	out := filepath.Join(t.TempDir(), "out.wav")
	s, err := p.Synthesize(context.Background(), tts.Request{Text: "hello", Language: "en", OutputPath: out, Speed: tts.Float(0)})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if s.Settings["length_scale"] != 1 {
		t.Errorf("length_scale = %v, want 1", s.Settings["length_scale"])
	}
	if s.Settings["noise_scale"] != 0 {
		t.Errorf("noise_scale = %v, want 0", s.Settings["noise_scale"])
	}

	// an unset request speed uses the configured one
	s, err = p.Synthesize(context.Background(), tts.Request{Text: "hello", Language: "en", OutputPath: out})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if s.Settings["length_scale"] != 0.5 {
		t.Errorf("length_scale = %v, want 0.5", s.Settings["length_scale"])
	}
}
