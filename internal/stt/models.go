package stt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mitchellh/go-homedir"

	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// DefaultModels maps language codes to model directory names.
var DefaultModels = map[string]string{
	"en": "en-us",
	"ar": "ar",
}

// DefaultSearchPaths returns the directories searched for models, in order.
// modelsDir, when set, comes first.
func DefaultSearchPaths(modelsDir string) []string {
	var paths []string
	add := func(p string) {
		if p != "" {
			paths = append(paths, p)
		}
	}

	add(modelsDir)
	if wd, err := os.Getwd(); err == nil {
		add(wd)
	}
	if exe, err := os.Executable(); err == nil {
		add(filepath.Dir(exe))
	}
	home, _ := homedir.Dir()
	if home != "" {
		add(filepath.Join(home, "vosk-models"))
	}
	add("/usr/share/vosk-models")
	add("/usr/local/share/vosk-models")
	if appData := os.Getenv("APPDATA"); appData != "" {
		add(filepath.Join(appData, "vosk-models"))
	}
	if home != "" {
		add(filepath.Join(home, "Library", "Application Support", "vosk-models"))
	}
	return paths
}

// ModelLocator finds the model directory for a language.
type ModelLocator struct {
	Models      map[string]string
	SearchPaths []string
}

// Languages returns the languages with a model mapping, sorted.
func (l ModelLocator) Languages() []string {
	langs := make([]string, 0, len(l.Models))
	for lang := range l.Models {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Locate returns the first existing model directory for language.
func (l ModelLocator) Locate(language string) (string, error) {
	name, ok := l.Models[language]
	if !ok || name == "" {
		return "", ttypes.NewError(ttypes.ErrorCodeUnsupportedLanguage,
			fmt.Sprintf("unsupported language: %s", language), nil).
			WithAvailableLanguages(l.Languages())
	}

	if filepath.IsAbs(name) {
		if isDir(name) {
			return name, nil
		}
	}

	searched := make([]string, 0, len(l.SearchPaths))
	for _, dir := range l.SearchPaths {
		candidate := filepath.Join(dir, name)
		searched = append(searched, candidate)
		if isDir(candidate) {
			return candidate, nil
		}
	}

	return "", ttypes.NewError(ttypes.ErrorCodeRecognition,
		fmt.Sprintf("failed to load VOSK model for language '%s': model %q not found", language, name), nil).
		WithGuidance(ModelGuidance(searched))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ModelGuidance returns download steps for the default models.
func ModelGuidance(searched []string) *ttypes.Guidance {
	steps := []string{
		"English model:",
		"  wget https://alphacephei.com/vosk/models/vosk-model-small-en-us-0.15.zip",
		"  unzip vosk-model-small-en-us-0.15.zip && mv vosk-model-small-en-us-0.15 en-us",
		"Arabic model:",
		"  wget https://alphacephei.com/vosk/models/vosk-model-ar-mgb2-0.4.zip",
		"  unzip vosk-model-ar-mgb2-0.4.zip && mv vosk-model-ar-mgb2-0.4 ar",
	}
	if len(searched) > 0 {
		steps = append(steps, "Searched:")
		for _, s := range searched {
			steps = append(steps, "  "+s)
		}
	}
	return &ttypes.Guidance{
		DownloadURL: "https://alphacephei.com/vosk/models",
		Steps:       steps,
	}
}
