package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgnsrekt/offline-speech/internal/result"
)

var (
	checkEngine string

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Check speech dependencies",
		Long: paragraph(fmt.Sprintf("\n%s which engines, voices, models and players are installed. With --engine, that engine's dependencies are required.",
			keyword("Report"))),
		Example: paragraph("speech check\nspeech check -e piper -F text"),
		Args:    cobra.NoArgs,
		RunE:    runCheck,
	}
)

func init() {
	checkCmd.Flags().StringVarP(&checkEngine, "engine", "e", "", "require the dependencies of this engine")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	report, checkErr := svc.Report(cmd.Context(), checkEngine)
	if report == nil {
		return checkErr
	}

	format, err := result.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	if format == result.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.Statuses()); err != nil {
			return fmt.Errorf("unable to encode report: %w", err)
		}
	} else {
		styled := term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec
		fmt.Fprint(cmd.OutOrStdout(), report.Render(styled))
	}

	if checkErr != nil {
		return errFailed
	}
	return nil
}
