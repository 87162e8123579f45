package engines

import "github.com/dgnsrekt/offline-speech/internal/ttypes"

// EspeakGuidance returns espeak-ng install commands per platform.
func EspeakGuidance() *ttypes.Guidance {
	return &ttypes.Guidance{
		DownloadURL: "https://github.com/espeak-ng/espeak-ng/releases",
		Platforms: map[string]string{
			"raspberry_pi":  "sudo apt update && sudo apt install espeak-ng",
			"ubuntu_debian": "sudo apt install espeak-ng",
			"centos_rhel":   "sudo yum install espeak-ng",
			"arch":          "sudo pacman -S espeak-ng",
			"macos":         "brew install espeak-ng",
			"windows":       "Download from: https://github.com/espeak-ng/espeak-ng/releases",
		},
	}
}

// PiperGuidance returns Piper setup steps for goos.
func PiperGuidance(goos string) *ttypes.Guidance {
	g := &ttypes.Guidance{
		DownloadURL: "https://github.com/rhasspy/piper/releases",
		VoicesURL:   "https://github.com/rhasspy/piper/blob/master/VOICES.md",
	}
	if goos == "windows" {
		g.Steps = []string{
			"1. Download piper.exe from the releases page",
			"2. Place piper.exe in the piper directory",
			"3. Create a 'voices' folder in the piper directory",
			"4. Download .onnx voice models and place them in the voices folder",
			"5. Each voice model should have a corresponding .onnx.json config file",
		}
		return g
	}
	g.Steps = []string{
		"1. Download the piper binary for your platform from the releases page",
		"2. Place the piper binary in the piper directory",
		"3. Make the piper binary executable: chmod +x piper/piper",
		"4. Create a 'voices' folder in the piper directory",
		"5. Download .onnx voice models and place them in the voices folder",
		"6. Each voice model should have a corresponding .onnx.json config file",
		"7. For audio playback, install an audio player:",
		"   - Ubuntu/Debian: sudo apt install pulseaudio-utils (for paplay)",
		"   - Or install ALSA: sudo apt install alsa-utils (for aplay)",
		"   - Or install media players: sudo apt install mpg123 mpv vlc",
	}
	return g
}
