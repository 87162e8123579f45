package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Format describes a PCM stream.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// String renders the format as e.g. "16000 Hz, 1 ch, 16-bit".
func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d-bit", f.SampleRate, f.Channels, f.BitDepth)
}

// WAVReader reads a WAV file as signed 16-bit little-endian frames.
type WAVReader struct {
	f      *os.File
	dec    *wav.Decoder
	format Format
	buf    *goaudio.IntBuffer
}

// OpenWAV opens path and reads its header.
func OpenWAV(path string) (*WAVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		if dec.Err() != nil {
			return nil, fmt.Errorf("invalid WAV file: %w", dec.Err())
		}
		return nil, errors.New("invalid WAV file")
	}
	if dec.WavAudioFormat != 1 {
		f.Close()
		return nil, fmt.Errorf("unsupported WAV encoding %d, only PCM is supported", dec.WavAudioFormat)
	}

	return &WAVReader{
		f:   f,
		dec: dec,
		format: Format{
			SampleRate: int(dec.SampleRate),
			Channels:   int(dec.NumChans),
			BitDepth:   int(dec.BitDepth),
		},
	}, nil
}

// Format returns the header's reported format.
func (r *WAVReader) Format() Format {
	return r.format
}

// ReadFrames reads up to frames frames and returns them as 16-bit
// little-endian samples. It returns an empty slice at end of stream.
func (r *WAVReader) ReadFrames(frames int) ([]byte, error) {
	samples := frames * r.format.Channels
	if r.buf == nil || len(r.buf.Data) != samples {
		r.buf = &goaudio.IntBuffer{
			Data: make([]int, samples),
			Format: &goaudio.Format{
				NumChannels: r.format.Channels,
				SampleRate:  r.format.SampleRate,
			},
			SourceBitDepth: r.format.BitDepth,
		}
	}

	n, err := r.dec.PCMBuffer(r.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return toPCM16(r.buf.Data[:n], r.format.BitDepth), nil
}

// ReadAll reads every remaining frame.
func (r *WAVReader) ReadAll() ([]byte, error) {
	var out []byte
	for {
		chunk, err := r.ReadFrames(4096)
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			return out, nil
		}
		out = append(out, chunk...)
	}
}

// Close closes the underlying file.
func (r *WAVReader) Close() error {
	return r.f.Close()
}

func toPCM16(samples []int, bitDepth int) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		switch {
		case bitDepth == 8:
			s = (s - 128) << 8
		case bitDepth > 16:
			s >>= bitDepth - 16
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(s)))
	}
	return out
}
