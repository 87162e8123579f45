package deps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Render formats the report. Colors are used only when styled is set.
func (r *Report) Render(styled bool) string {
	titleStyle := lipgloss.NewStyle()
	installedStyle := lipgloss.NewStyle()
	missingStyle := lipgloss.NewStyle()
	optionalStyle := lipgloss.NewStyle()
	if styled {
		titleStyle = titleStyle.Bold(true).Foreground(lipgloss.Color("39"))
		installedStyle = installedStyle.Foreground(lipgloss.Color("42"))
		missingStyle = missingStyle.Foreground(lipgloss.Color("196"))
		optionalStyle = optionalStyle.Foreground(lipgloss.Color("214"))
	}

	var report strings.Builder
	report.WriteString(titleStyle.Render("Speech Dependency Check Report"))
	report.WriteString("\n")

	for _, s := range r.sections {
		fmt.Fprintf(&report, "\n%s:\n", s.title)
		for _, name := range s.names {
			status, ok := r.Results[name]
			if !ok {
				continue
			}
			switch {
			case status.Installed:
				report.WriteString(installedStyle.Render(fmt.Sprintf("  ✓ %s: ", name)))
				fmt.Fprintf(&report, "%s %s\n", status.Path, status.Version)
			case status.Required:
				report.WriteString(missingStyle.Render(fmt.Sprintf("  ✗ %s: ", name)))
				fmt.Fprintf(&report, "%s\n", orDefault(status.Detail, "Not installed"))
				writeInstructions(&report, status.Instructions)
			default:
				report.WriteString(optionalStyle.Render(fmt.Sprintf("  ○ %s: ", name)))
				fmt.Fprintf(&report, "%s (optional)\n", orDefault(status.Detail, "Not installed"))
				writeInstructions(&report, status.Instructions)
			}
		}
	}

	return report.String()
}

func writeInstructions(b *strings.Builder, text string) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintf(b, "    %s\n", strings.TrimSpace(line))
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
