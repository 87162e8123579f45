//go:build nocgo

package audio

import (
	"context"
	"errors"
)

// InProcessCandidate is unavailable in builds without cgo.
type InProcessCandidate struct{}

// Name returns "oto".
func (InProcessCandidate) Name() string {
	return "oto"
}

// Play always fails.
func (InProcessCandidate) Play(context.Context, string) error {
	return errors.New("in-process audio not available in nocgo build")
}
