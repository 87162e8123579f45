package script

// forms holds the presentation forms of a letter: isolated, final, initial, medial.
// Letters that only join to the previous letter have zero initial and medial forms.
type forms [4]rune

const (
	formIsolated = iota
	formFinal
	formInitial
	formMedial
)

func (f forms) dual() bool {
	return f[formInitial] != 0
}

func (f forms) joinsBack() bool {
	return f[formFinal] != 0
}

var letterForms = map[rune]forms{
	0x0621: {0xFE80, 0, 0, 0},                // hamza
	0x0622: {0xFE81, 0xFE82, 0, 0},           // alef with madda
	0x0623: {0xFE83, 0xFE84, 0, 0},           // alef with hamza above
	0x0624: {0xFE85, 0xFE86, 0, 0},           // waw with hamza
	0x0625: {0xFE87, 0xFE88, 0, 0},           // alef with hamza below
	0x0626: {0xFE89, 0xFE8A, 0xFE8B, 0xFE8C}, // yeh with hamza
	0x0627: {0xFE8D, 0xFE8E, 0, 0},           // alef
	0x0628: {0xFE8F, 0xFE90, 0xFE91, 0xFE92}, // beh
	0x0629: {0xFE93, 0xFE94, 0, 0},           // teh marbuta
	0x062A: {0xFE95, 0xFE96, 0xFE97, 0xFE98}, // teh
	0x062B: {0xFE99, 0xFE9A, 0xFE9B, 0xFE9C}, // theh
	0x062C: {0xFE9D, 0xFE9E, 0xFE9F, 0xFEA0}, // jeem
	0x062D: {0xFEA1, 0xFEA2, 0xFEA3, 0xFEA4}, // hah
	0x062E: {0xFEA5, 0xFEA6, 0xFEA7, 0xFEA8}, // khah
	0x062F: {0xFEA9, 0xFEAA, 0, 0},           // dal
	0x0630: {0xFEAB, 0xFEAC, 0, 0},           // thal
	0x0631: {0xFEAD, 0xFEAE, 0, 0},           // reh
	0x0632: {0xFEAF, 0xFEB0, 0, 0},           // zain
	0x0633: {0xFEB1, 0xFEB2, 0xFEB3, 0xFEB4}, // seen
	0x0634: {0xFEB5, 0xFEB6, 0xFEB7, 0xFEB8}, // sheen
	0x0635: {0xFEB9, 0xFEBA, 0xFEBB, 0xFEBC}, // sad
	0x0636: {0xFEBD, 0xFEBE, 0xFEBF, 0xFEC0}, // dad
	0x0637: {0xFEC1, 0xFEC2, 0xFEC3, 0xFEC4}, // tah
	0x0638: {0xFEC5, 0xFEC6, 0xFEC7, 0xFEC8}, // zah
	0x0639: {0xFEC9, 0xFECA, 0xFECB, 0xFECC}, // ain
	0x063A: {0xFECD, 0xFECE, 0xFECF, 0xFED0}, // ghain
	0x0640: {0x0640, 0x0640, 0x0640, 0x0640}, // tatweel
	0x0641: {0xFED1, 0xFED2, 0xFED3, 0xFED4}, // feh
	0x0642: {0xFED5, 0xFED6, 0xFED7, 0xFED8}, // qaf
	0x0643: {0xFED9, 0xFEDA, 0xFEDB, 0xFEDC}, // kaf
	0x0644: {0xFEDD, 0xFEDE, 0xFEDF, 0xFEE0}, // lam
	0x0645: {0xFEE1, 0xFEE2, 0xFEE3, 0xFEE4}, // meem
	0x0646: {0xFEE5, 0xFEE6, 0xFEE7, 0xFEE8}, // noon
	0x0647: {0xFEE9, 0xFEEA, 0xFEEB, 0xFEEC}, // heh
	0x0648: {0xFEED, 0xFEEE, 0, 0},           // waw
	0x0649: {0xFEEF, 0xFEF0, 0, 0},           // alef maksura
	0x064A: {0xFEF1, 0xFEF2, 0xFEF3, 0xFEF4}, // yeh
	0x067E: {0xFB56, 0xFB57, 0xFB58, 0xFB59}, // peh
	0x0686: {0xFB7A, 0xFB7B, 0xFB7C, 0xFB7D}, // tcheh
	0x0698: {0xFB8A, 0xFB8B, 0, 0},           // jeh
	0x06A9: {0xFB8E, 0xFB8F, 0xFB90, 0xFB91}, // keheh
	0x06AF: {0xFB92, 0xFB93, 0xFB94, 0xFB95}, // gaf
	0x06CC: {0xFBFC, 0xFBFD, 0xFBFE, 0xFBFF}, // farsi yeh
}

// lamAlef maps an alef variant to its ligature with lam: isolated, final.
var lamAlef = map[rune][2]rune{
	0x0622: {0xFEF5, 0xFEF6},
	0x0623: {0xFEF7, 0xFEF8},
	0x0625: {0xFEF9, 0xFEFA},
	0x0627: {0xFEFB, 0xFEFC},
}

const lam rune = 0x0644

// isTransparent reports whether r is a combining mark that does not break joining.
func isTransparent(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670
}

// Reshape replaces Arabic letters with their contextual presentation forms
// and forms lam-alef ligatures. Text stays in logical order.
func Reshape(text string) string {
	runes := []rune(text)
	out := make([]rune, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		f, ok := letterForms[r]
		if !ok {
			out = append(out, r)
			continue
		}

		joinsPrev := false
		if p := neighbour(runes, i, -1); p >= 0 && f.joinsBack() {
			if pf, ok := letterForms[runes[p]]; ok && pf.dual() {
				joinsPrev = true
			}
		}

		if r == lam {
			if n := neighbour(runes, i, 1); n >= 0 {
				if lig, ok := lamAlef[runes[n]]; ok {
					if joinsPrev {
						out = append(out, lig[1])
					} else {
						out = append(out, lig[0])
					}
					// keep marks that sat between lam and alef
					out = append(out, runes[i+1:n]...)
					i = n
					continue
				}
			}
		}

		joinsNext := false
		if f.dual() {
			if n := neighbour(runes, i, 1); n >= 0 {
				nf, ok := letterForms[runes[n]]
				joinsNext = ok && nf.joinsBack()
			}
		}

		switch {
		case joinsPrev && joinsNext:
			out = append(out, f[formMedial])
		case joinsPrev:
			out = append(out, f[formFinal])
		case joinsNext:
			out = append(out, f[formInitial])
		default:
			out = append(out, f[formIsolated])
		}
	}

	return string(out)
}

// neighbour returns the index of the nearest non-transparent rune in direction dir, or -1.
func neighbour(runes []rune, i, dir int) int {
	for j := i + dir; j >= 0 && j < len(runes); j += dir {
		if !isTransparent(runes[j]) {
			return j
		}
	}
	return -1
}
