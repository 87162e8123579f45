package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/offline-speech/internal/speech"
	"github.com/dgnsrekt/offline-speech/internal/tts"
)

const utf8BOM = "\uFEFF"

var (
	speakFile       string
	speakLanguage   string
	speakEngine     string
	speakOutput     string
	speakSpeed      float64
	speakPitch      float64
	speakAmplitude  float64
	speakNoiseScale float64
	speakPlay       bool

	speakCmd = &cobra.Command{
		Use:   "speak [TEXT]",
		Short: "Convert text to speech",
		Long: paragraph(fmt.Sprintf("\n%s text with espeak-ng or piper. Text comes from the argument, --file or a pipe.",
			keyword("Speak"))),
		Example: paragraph("speech speak \"hello world\" -o hello.wav\nspeech speak --play -e piper -l en \"good morning\"\necho hello | speech speak --play"),
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSpeak,
	}
)

func init() {
	f := speakCmd.Flags()
	f.StringVarP(&speakFile, "file", "f", "", "read text from file")
	f.StringVarP(&speakLanguage, "language", "l", "", "language code (default from config)")
	f.StringVarP(&speakEngine, "engine", "e", "", "engine: espeak or piper (default from config)")
	f.StringVarP(&speakOutput, "output", "o", "", "output audio file")
	f.Float64VarP(&speakSpeed, "speed", "s", 0, "speech rate (espeak: words per minute, piper: multiplier)")
	f.Float64VarP(&speakPitch, "pitch", "p", 0, "pitch, espeak only (0-99)")
	f.Float64VarP(&speakAmplitude, "amplitude", "a", 0, "volume, espeak only (0-200)")
	f.Float64Var(&speakNoiseScale, "noise-scale", 0, "variation, piper only (0.0-1.0)")
	f.BoolVar(&speakPlay, "play", false, "play audio instead of saving it")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	text, err := speakText(args, speakFile, os.Stdin)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	rec := svc.Synthesize(cmd.Context(), speakRequest(cmd, text))
	return writeRecord(cmd, rec)
}

// speakRequest builds the request from flags. Tuning flags that were not
// given stay nil so the configured values apply.
func speakRequest(cmd *cobra.Command, text string) speech.SpeakRequest {
	req := speech.SpeakRequest{
		Text:       text,
		Language:   speakLanguage,
		Engine:     speakEngine,
		OutputPath: speakOutput,
		Play:       speakPlay,
	}
	f := cmd.Flags()
	if f.Changed("speed") {
		req.Speed = tts.Float(speakSpeed)
	}
	if f.Changed("pitch") {
		req.Pitch = tts.Float(speakPitch)
	}
	if f.Changed("amplitude") {
		req.Amplitude = tts.Float(speakAmplitude)
	}
	if f.Changed("noise-scale") {
		req.NoiseScale = tts.Float(speakNoiseScale)
	}
	return req
}

// speakText picks the text to speak: the argument, then --file, then a
// piped stdin. Empty text is passed through so synthesis reports it.
func speakText(args []string, file string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("unable to read file: %w", err)
		}
		return strings.TrimPrefix(string(b), utf8BOM), nil
	}

	if stdin != nil {
		if yes, err := isPipe(stdin); err != nil {
			return "", err
		} else if yes {
			b, err := io.ReadAll(stdin)
			if err != nil {
				return "", fmt.Errorf("unable to read stdin: %w", err)
			}
			return strings.TrimPrefix(string(b), utf8BOM), nil
		}
	}

	return "", errors.New("no text provided: pass TEXT, --file or pipe text on stdin")
}

func isPipe(f *os.File) (bool, error) {
	stat, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}
