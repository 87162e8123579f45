package ttypes

import (
	"errors"
	"fmt"
)

// Common speech errors
var (
	// ErrInvalidEngine indicates an unknown engine was specified
	ErrInvalidEngine = errors.New("invalid speech engine specified")

	// ErrEngineUnavailable indicates the engine binary is missing or not executable
	ErrEngineUnavailable = errors.New("speech engine is not available")

	// ErrEmptyInput indicates empty or whitespace-only text
	ErrEmptyInput = errors.New("empty text provided")

	// ErrNoVoiceAvailable indicates no installed voice matches the requested language
	ErrNoVoiceAvailable = errors.New("no voice model available")

	// ErrStaging indicates a temporary text file could not be created
	ErrStaging = errors.New("failed to create temporary file")

	// ErrProcessFailure indicates a child process exited with a non-zero status
	ErrProcessFailure = errors.New("engine process failed")

	// ErrNoPlayerAvailable indicates every audio player candidate failed
	ErrNoPlayerAvailable = errors.New("no audio player found")

	// ErrFileNotFound indicates the audio input does not exist
	ErrFileNotFound = errors.New("audio file not found")

	// ErrRecognition indicates the recognition engine or decoder failed
	ErrRecognition = errors.New("error processing audio file")

	// ErrUnsupportedLanguage indicates no model mapping exists for a language
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrConverterUnavailable indicates the external audio converter is missing
	ErrConverterUnavailable = errors.New("audio converter not found")

	// ErrConversionFailed indicates the converter exited with an error
	ErrConversionFailed = errors.New("failed to convert audio file")
)

// ErrorCode identifies specific error types
type ErrorCode string

const (
	ErrorCodeEngineUnavailable    ErrorCode = "ENGINE_UNAVAILABLE"
	ErrorCodeEmptyInput           ErrorCode = "EMPTY_INPUT"
	ErrorCodeNoVoiceAvailable     ErrorCode = "NO_VOICE_AVAILABLE"
	ErrorCodeStaging              ErrorCode = "STAGING_ERROR"
	ErrorCodeProcessFailure       ErrorCode = "PROCESS_FAILURE"
	ErrorCodeNoPlayerAvailable    ErrorCode = "NO_PLAYER_AVAILABLE"
	ErrorCodeFileNotFound         ErrorCode = "FILE_NOT_FOUND"
	ErrorCodeRecognition          ErrorCode = "RECOGNITION_ERROR"
	ErrorCodeUnsupportedLanguage  ErrorCode = "UNSUPPORTED_LANGUAGE"
	ErrorCodeConverterUnavailable ErrorCode = "CONVERTER_UNAVAILABLE"
	ErrorCodeConversionFailed     ErrorCode = "CONVERSION_FAILED"
	ErrorCodeInvalidInput         ErrorCode = "INVALID_INPUT"
)

var sentinels = map[ErrorCode]error{
	ErrorCodeEngineUnavailable:    ErrEngineUnavailable,
	ErrorCodeEmptyInput:           ErrEmptyInput,
	ErrorCodeNoVoiceAvailable:     ErrNoVoiceAvailable,
	ErrorCodeStaging:              ErrStaging,
	ErrorCodeProcessFailure:       ErrProcessFailure,
	ErrorCodeNoPlayerAvailable:    ErrNoPlayerAvailable,
	ErrorCodeFileNotFound:         ErrFileNotFound,
	ErrorCodeRecognition:          ErrRecognition,
	ErrorCodeUnsupportedLanguage:  ErrUnsupportedLanguage,
	ErrorCodeConverterUnavailable: ErrConverterUnavailable,
	ErrorCodeConversionFailed:     ErrConversionFailed,
}

// Diagnostics is the captured output of a failed child process.
type Diagnostics struct {
	Stdout  string
	Stderr  string
	Command string
}

// Error represents a speech error with remediation context.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error

	Diagnostics        *Diagnostics
	Guidance           *Guidance
	AvailableLanguages []string
	Candidates         []string
}

// NewError creates a new speech error.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's code.
func (e *Error) Is(target error) bool {
	if s, ok := sentinels[e.Code]; ok {
		return s == target
	}
	return false
}

// WithDiagnostics attaches the output of a failed process.
func (e *Error) WithDiagnostics(stdout, stderr, command string) *Error {
	e.Diagnostics = &Diagnostics{Stdout: stdout, Stderr: stderr, Command: command}
	return e
}

// WithGuidance attaches installation instructions.
func (e *Error) WithGuidance(g *Guidance) *Error {
	e.Guidance = g
	return e
}

// WithAvailableLanguages attaches the languages that are actually installed.
func (e *Error) WithAvailableLanguages(langs []string) *Error {
	e.AvailableLanguages = append([]string(nil), langs...)
	return e
}

// WithCandidates attaches the player candidates that were tried.
func (e *Error) WithCandidates(names []string) *Error {
	e.Candidates = append([]string(nil), names...)
	return e
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
