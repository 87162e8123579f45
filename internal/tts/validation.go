package tts

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dgnsrekt/offline-speech/internal/script"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// NormalizeText trims text and collapses runs of whitespace. Text in a
// complex script is NFKC-normalized so presentation forms become base letters.
// Empty or whitespace-only text fails with EMPTY_INPUT.
func NormalizeText(text, language string) (string, error) {
	clean := strings.Join(strings.Fields(text), " ")
	if clean == "" {
		return "", ttypes.NewError(ttypes.ErrorCodeEmptyInput, "empty text provided", nil)
	}
	if script.IsComplexLanguage(language) || script.ContainsComplexScript(clean) {
		clean = norm.NFKC.String(clean)
	}
	return clean, nil
}

// ValidateRequest normalizes the request text in place.
func ValidateRequest(req *Request) error {
	text, err := NormalizeText(req.Text, req.Language)
	if err != nil {
		return err
	}
	req.Text = text
	if req.Language == "" {
		req.Language = "en"
	}
	if req.Speed != nil && *req.Speed < 0 {
		return ttypes.NewError(ttypes.ErrorCodeInvalidInput, "speed must not be negative", nil)
	}
	return nil
}
