// Package audio plays synthesized WAV files through the first working
// player from an ordered, platform-specific candidate list. Candidates are
// external player commands and, in cgo builds, an in-process oto player.
package audio
