package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	voicesEngine string

	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List available voices",
		Long:    paragraph(fmt.Sprintf("\n%s the voices of an engine, grouped by language.", keyword("List"))),
		Example: paragraph("speech voices\nspeech voices -e piper -F text"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return writeRecord(cmd, svc.Voices(cmd.Context(), voicesEngine))
		},
	}
)

func init() {
	voicesCmd.Flags().StringVarP(&voicesEngine, "engine", "e", "", "engine: espeak or piper (default from config)")
}
