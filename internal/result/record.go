// Package result maps synthesis, recognition and failure outcomes to the
// uniform record every operation returns.
package result

import (
	"github.com/dgnsrekt/offline-speech/internal/stt"
	"github.com/dgnsrekt/offline-speech/internal/tts"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Kind is the operation a record answers.
type Kind int

const (
	KindSynthesis Kind = iota
	KindTranscription
	KindVoices
)

// Record is the result of one operation. Records are built once by the
// constructors here and not modified afterwards.
type Record struct {
	Success bool `json:"success"`

	Text        string `json:"text"`
	DisplayText string `json:"display_text,omitempty"`
	Language    string `json:"language,omitempty"`
	Engine      string `json:"engine,omitempty"`
	VoiceModel  string `json:"voice_model,omitempty"`

	FilePath string `json:"file_path,omitempty"`
	FileSize *int64 `json:"file_size,omitempty"`
	Played   bool   `json:"played,omitempty"`

	EncodingMethod string             `json:"encoding_method,omitempty"`
	Settings       map[string]float64 `json:"settings,omitempty"`

	Voices *tts.VoiceListing `json:"voices,omitempty"`

	Error              string           `json:"error,omitempty"`
	Code               string           `json:"code,omitempty"`
	Stdout             string           `json:"stdout,omitempty"`
	Command            string           `json:"command,omitempty"`
	Installation       *ttypes.Guidance `json:"installation,omitempty"`
	AvailableLanguages []string         `json:"available_languages,omitempty"`
	Candidates         []string         `json:"candidates,omitempty"`

	RequestID string `json:"request_id,omitempty"`

	Kind Kind `json:"-"`
}

// FromSynthesis builds a success record.
func FromSynthesis(s *tts.Synthesis) Record {
	r := Record{
		Success:        true,
		Kind:           KindSynthesis,
		Text:           s.Text,
		Language:       s.Language,
		Engine:         s.Engine.String(),
		VoiceModel:     s.VoiceModel,
		Played:         s.Played,
		EncodingMethod: string(s.EncodingMethod),
		Settings:       copySettings(s.Settings),
	}
	if !s.Played {
		size := s.FileSize
		r.FilePath = s.FilePath
		r.FileSize = &size
	}
	return r
}

// FromTranscription builds a success record.
func FromTranscription(t *stt.Transcription) Record {
	return Record{
		Success:     true,
		Kind:        KindTranscription,
		Text:        t.Text,
		DisplayText: t.DisplayText,
		Language:    t.Language,
		FilePath:    t.FilePath,
	}
}

// FromVoices builds a success record for a voice listing.
func FromVoices(v *tts.VoiceListing) Record {
	return Record{
		Success: true,
		Kind:    KindVoices,
		Engine:  v.Engine.String(),
		Voices:  v,
	}
}

// FromError builds a failure record. Remediation attached to a
// *ttypes.Error is carried over.
func FromError(kind Kind, err error, language string) Record {
	r := Record{
		Success:  false,
		Kind:     kind,
		Language: language,
		Error:    err.Error(),
	}
	e, ok := ttypes.AsError(err)
	if !ok {
		return r
	}
	r.Code = string(e.Code)
	if e.Diagnostics != nil {
		r.Stdout = e.Diagnostics.Stdout
		r.Command = e.Diagnostics.Command
	}
	r.Installation = e.Guidance
	r.AvailableLanguages = append([]string(nil), e.AvailableLanguages...)
	r.Candidates = append([]string(nil), e.Candidates...)
	return r
}

func copySettings(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
