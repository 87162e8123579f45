// Package script classifies text by writing system and prepares
// right-to-left text for visual display.
package script

import "strings"

// Arabic block bounds.
const (
	ArabicStart rune = 0x0600
	ArabicEnd   rune = 0x06FF
)

// complexLanguages use the Arabic script and need shaping for display.
var complexLanguages = map[string]bool{
	"ar": true,
	"fa": true,
	"ur": true,
	"ps": true,
}

// IsArabic reports whether r lies in the Arabic block.
func IsArabic(r rune) bool {
	return r >= ArabicStart && r <= ArabicEnd
}

// ContainsComplexScript reports whether text has any code point in the Arabic block.
func ContainsComplexScript(text string) bool {
	return strings.IndexFunc(text, IsArabic) >= 0
}

// IsComplexLanguage reports whether a language code is written in a complex script.
// Region suffixes are ignored, so "ar_JO" and "ar-EG" both match.
func IsComplexLanguage(language string) bool {
	lang := strings.ToLower(language)
	if i := strings.IndexAny(lang, "_-"); i >= 0 {
		lang = lang[:i]
	}
	return complexLanguages[lang]
}

// NeedsStaging reports whether text for language must reach an engine
// through a file instead of the command line.
func NeedsStaging(text, language string) bool {
	return IsComplexLanguage(language) || ContainsComplexScript(text)
}
