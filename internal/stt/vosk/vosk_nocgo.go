//go:build nocgo

// Package vosk loads Vosk models for the stt package.
package vosk

import (
	"errors"

	"github.com/dgnsrekt/offline-speech/internal/stt"
)

// SetLogLevel does nothing without cgo.
func SetLogLevel(int) {}

// Load always fails without cgo.
func Load(string) (stt.Model, error) {
	return nil, errors.New("vosk not available in nocgo build")
}
