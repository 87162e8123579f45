package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/offline-speech/internal/speech"
)

var (
	transcribeLanguage string
	transcribeConvert  bool
	transcribeCopy     bool

	transcribeCmd = &cobra.Command{
		Use:   "transcribe FILE",
		Short: "Convert speech to text",
		Long: paragraph(fmt.Sprintf("\n%s a WAV file with vosk. Use --convert for other formats (requires ffmpeg).",
			keyword("Transcribe"))),
		Example: paragraph("speech transcribe recording.wav\nspeech transcribe -l ar --convert voice.mp3"),
		Args:    cobra.ExactArgs(1),
		RunE:    runTranscribe,
	}
)

func init() {
	f := transcribeCmd.Flags()
	f.StringVarP(&transcribeLanguage, "language", "l", "", "language code (default from config)")
	f.BoolVarP(&transcribeConvert, "convert", "c", false, "convert the audio with ffmpeg first")
	f.BoolVar(&transcribeCopy, "copy", false, "copy the transcript to the clipboard")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	rec := svc.Transcribe(cmd.Context(), speech.TranscribeRequest{
		Path:     args[0],
		Language: transcribeLanguage,
		Convert:  transcribeConvert,
	})

	if transcribeCopy && rec.Success {
		if err := clipboard.WriteAll(rec.Text); err != nil {
			log.Warn("could not copy transcript", "err", err)
		}
	}
	return writeRecord(cmd, rec)
}
