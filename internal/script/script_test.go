package script

import "testing"

func TestContainsComplexScript(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"latin", "hello world", false},
		{"arabic", "\u0645\u0631\u062D\u0628\u0627", true},
		{"mixed", "say \u0645\u0631\u062D\u0628\u0627 now", true},
		{"block start", string(ArabicStart), true},
		{"block end", string(ArabicEnd), true},
		{"past block", string(ArabicEnd + 1), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsComplexScript(tt.text); got != tt.want {
				t.Errorf("ContainsComplexScript(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNeedsStaging(t *testing.T) {
	tests := []struct {
		text     string
		language string
		want     bool
	}{
		{"hello", "en", false},
		{"hello", "ar", true},
		{"hello", "ar_JO", true},
		{"hello", "AR-eg", true},
		{"\u0645\u0631\u062D\u0628\u0627", "en", true},
		{"bonjour", "fr", false},
	}

	for _, tt := range tests {
		t.Run(tt.language+"/"+tt.text, func(t *testing.T) {
			if got := NeedsStaging(tt.text, tt.language); got != tt.want {
				t.Errorf("NeedsStaging(%q, %q) = %v, want %v", tt.text, tt.language, got, tt.want)
			}
		})
	}
}

func TestReshape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"isolated", "\u0628", "\uFE8F"},
		{"pair", "\u0628\u0628", "\uFE91\uFE90"},
		{"triple", "\u0628\u0628\u0628", "\uFE91\uFE92\uFE90"},
		// alef does not join forward
		{"right joining", "\u0627\u0628", "\uFE8D\uFE8F"},
		// hamza joins neither way
		{"hamza", "\u0628\u0621", "\uFE8F\uFE80"},
		{"lam alef", "\u0644\u0627", "\uFEFB"},
		{"lam alef final", "\u0628\u0644\u0627", "\uFE91\uFEFC"},
		// fatha between letters keeps them joined
		{"transparent mark", "\u0628\u064E\u0628", "\uFE91\u064E\uFE90"},
		{"persian peh", "\u067E\u0627", "\uFB58\uFE8E"},
		{"latin untouched", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reshape(tt.in); got != tt.want {
				t.Errorf("Reshape(%+q) = %+q, want %+q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"latin unchanged", "hello (world)", "hello (world)"},
		{"rtl reversed", "\u0628\u0627", "\uFE8E\uFE91"},
		{"digits keep order", "\u0627 123", "123 \uFE8D"},
		{"embedded latin", "\u0627 hi there \u0627", "\uFE8D hi there \uFE8D"},
		{"mirrored brackets", "(\u0627)", "(\uFE8D)"},
		{"latin in brackets", "\u0627 (hi) \u0628", "\uFE8F (hi) \uFE8D"},
		{"lines kept", "\u0627\n\u0628", "\uFE8D\n\uFE8F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Display(tt.in); got != tt.want {
				t.Errorf("Display(%+q) = %+q, want %+q", tt.in, got, tt.want)
			}
		})
	}
}
