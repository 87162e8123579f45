package script

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
)

// Display returns text in a form a left-to-right terminal renders correctly:
// Arabic letters are shaped and each line is reordered visually with a
// right-to-left base direction. Text without Arabic characters is returned unchanged.
func Display(text string) string {
	if !ContainsComplexScript(text) {
		return text
	}
	lines := strings.Split(Reshape(text), "\n")
	for i, line := range lines {
		lines[i] = reorderLine(line)
	}
	return strings.Join(lines, "\n")
}

// reorderLine lays out one line with a right-to-left base direction.
// bidi resolves the level runs, which it reports in logical order, so the
// run sequence is reversed here and each right-to-left run is mirrored.
func reorderLine(line string) string {
	if line == "" {
		return line
	}

	var p bidi.Paragraph
	if _, err := p.SetString(line, bidi.DefaultDirection(bidi.RightToLeft)); err != nil {
		return line
	}
	o, err := p.Order()
	if err != nil {
		return line
	}

	var b strings.Builder
	b.Grow(len(line))
	for i := o.NumRuns() - 1; i >= 0; i-- {
		run := o.Run(i)
		if run.Direction() == bidi.RightToLeft {
			b.WriteString(bidi.ReverseString(run.String()))
			continue
		}
		b.WriteString(run.String())
	}
	return b.String()
}
