package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
)

const defaultConfig = `# synthesis engine: espeak or piper
engine: "espeak"
# default language code
language: "en"
# output format: json or text
format: "json"

# eSpeak NG formant engine
espeak:
  # binary: "espeak-ng"
  # words per minute (80-450)
  speed: 175
  # pitch (0-99)
  pitch: 50
  # amplitude (0-200)
  amplitude: 100
  # language to voice overrides
  # voices:
  #   ar: "ar"

# Piper neural engine
piper:
  # directory holding the piper executable and a voices folder
  dir: "piper"
  # binary: "~/piper/piper"
  # voices_dir: "~/piper/voices"
  # rate multiplier, length_scale = 1 / speed
  speed: 1.0
  # noise scale (0.0-1.0)
  noise_scale: 0.667
  # language used when no voice matches the request
  fallback_language: "en"
  # preferred voice file per language
  # voices:
  #   en: "en_US-ryan-high.onnx"
  #   ar: "ar_JO-kareem-medium.onnx"

# Vosk speech recognition
vosk:
  # models_dir: "~/vosk-models"
  # language to model directory name
  models:
    en: "en-us"
    ar: "ar"
  sample_rate: 16000
  chunk_frames: 4000

# Audio playback
audio:
  # player commands tried in order, {file} is the audio path
  # players:
  #   - "paplay {file}"
  #   - "aplay {file}"
  # play through the built-in player first
  in_process: false

# Temporary text files handed to engines
staging:
  # dir: "/tmp"
  # write a UTF-8 byte order mark for espeak-ng
  bom: true

# Audio converter used by transcribe --convert
converter:
  binary: "ffmpeg"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the speech config file",
	Long:    paragraph(fmt.Sprintf("\n%s the speech config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("speech config\nspeech config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	// an invalid config must still be editable
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(configFile); err != nil {
			return err
		}

		c, err := editor.Cmd("Speech", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile(file string) error {
	if file == "" {
		return errors.New("no configuration file path")
	}

	if ext := path.Ext(file); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
