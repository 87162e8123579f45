package tts

import "fmt"

// LengthScale converts a human-facing speed multiplier to piper's
// length scale. Faster speech means a smaller scale; a speed of zero maps to 1.0.
func LengthScale(speed float64) float64 {
	if speed == 0 {
		return 1.0
	}
	return 1.0 / speed
}

// FormatScale renders a scale the way engine flags expect it.
func FormatScale(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Float returns a pointer to v, for tuning fields that distinguish an
// explicit zero from unset.
func Float(v float64) *float64 {
	return &v
}

// Value returns *v, or def when v is nil.
func Value(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
