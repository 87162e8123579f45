package voices

import (
	"fmt"
	"os"
	"strings"

	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Resolver picks a voice for a language.
type Resolver struct {
	// Preferred maps a language to a voice file name tried before the catalog.
	Preferred map[string]string

	// Fallback is the language used when nothing matches the request.
	Fallback string
}

// Resolve returns the voice file name for language. The first match wins:
// the preferred voice if its file exists, the first catalog voice for the
// language, then the first catalog voice for the fallback language.
// Language codes are matched case-insensitively.
func (r Resolver) Resolve(language string, catalog *Catalog) (string, error) {
	language = strings.ToLower(language)
	fallback := strings.ToLower(r.Fallback)

	if name, ok := r.Preferred[language]; ok && name != "" {
		if _, err := os.Stat(catalog.Path(name)); err == nil {
			return name, nil
		}
	}

	if vs := catalog.Voices(language); len(vs) > 0 {
		return vs[0], nil
	}

	if fallback != "" && fallback != language {
		if vs := catalog.Voices(fallback); len(vs) > 0 {
			return vs[0], nil
		}
	}

	return "", ttypes.NewError(ttypes.ErrorCodeNoVoiceAvailable,
		fmt.Sprintf("no voice model available for language '%s'", language), nil).
		WithAvailableLanguages(catalog.Languages())
}
