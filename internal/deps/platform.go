package deps

import (
	"os"
	"strings"

	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Platform returns the guidance platform key for goos, reading
// /etc/os-release on linux.
func Platform(goos string) string {
	switch goos {
	case "darwin":
		return "macos"
	case "windows":
		return "windows"
	case "linux":
		data, err := os.ReadFile("/etc/os-release")
		if err != nil {
			return ""
		}
		return linuxPlatform(string(data))
	default:
		return ""
	}
}

// linuxPlatform maps os-release content to a guidance platform key.
func linuxPlatform(osRelease string) string {
	content := strings.ToLower(osRelease)
	switch {
	case strings.Contains(content, "raspbian"):
		return "raspberry_pi"
	case strings.Contains(content, "ubuntu"), strings.Contains(content, "debian"):
		return "ubuntu_debian"
	case strings.Contains(content, "fedora"):
		return "fedora"
	case strings.Contains(content, "rhel"), strings.Contains(content, "centos"):
		return "centos_rhel"
	case strings.Contains(content, "arch"):
		return "arch"
	default:
		return ""
	}
}

// Instructions picks the install line for platform from g, falling back
// to the full guidance text.
func Instructions(g *ttypes.Guidance, platform string) string {
	if g == nil {
		return ""
	}
	if line, ok := g.Platforms[platform]; ok && platform != "" {
		return "Install with: " + line
	}
	return strings.TrimRight(g.String(), "\n")
}
