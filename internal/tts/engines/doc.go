// Package engines contains the synthesis engine adapters.
// Currently supports espeak-ng (formant) and Piper (neural).
// Each adapter implements the Adapter interface from the parent package.
package engines
