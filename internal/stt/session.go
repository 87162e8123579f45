package stt

import (
	"errors"
	"strings"
)

// State of a recognition session.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// ErrSessionFinalized is returned when a finalized session is used again.
var ErrSessionFinalized = errors.New("recognition session already finalized")

// Session accumulates the transcript of one audio stream.
type Session struct {
	engine     Engine
	state      State
	transcript strings.Builder
	chunks     int
}

// NewSession starts an idle session over engine.
func NewSession(engine Engine) *Session {
	return &Session{engine: engine}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Chunks returns how many chunks were accepted.
func (s *Session) Chunks() int {
	return s.chunks
}

// Accept feeds one chunk. Completed utterances are appended with a
// single trailing space.
func (s *Session) Accept(pcm []byte) error {
	if s.state == StateFinalized {
		return ErrSessionFinalized
	}
	s.state = StateStreaming
	s.chunks++

	done, err := s.engine.AcceptWaveform(pcm)
	if err != nil {
		return err
	}
	if !done {
		return nil
	}

	text, err := s.engine.Result()
	if err != nil {
		return err
	}
	if text != "" {
		s.transcript.WriteString(text)
		s.transcript.WriteByte(' ')
	}
	return nil
}

// Finalize flushes the engine once and returns the trimmed transcript.
func (s *Session) Finalize() (string, error) {
	if s.state == StateFinalized {
		return "", ErrSessionFinalized
	}
	s.state = StateFinalized

	text, err := s.engine.FinalResult()
	if err != nil {
		return "", err
	}
	s.transcript.WriteString(text)
	return strings.TrimSpace(s.transcript.String()), nil
}
