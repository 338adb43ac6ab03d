package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/unprefix/internal/term"
)

var bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)

// PrintBanner prints the ASCII art banner; styled when colors are enabled.
func PrintBanner() {
	art := ` _   _                       __ _
| | | |_ __  _ __  _ __ ___ / _(_)_  __
| | | | '_ \| '_ \| '__/ _ \ |_| \ \/ /
| |_| | | | | |_) | | |  __/  _| |>  <
 \___/|_| |_| .__/|_|  \___|_| |_/_/\_\
            |_|
`
	if term.Enabled() {
		art = bannerStyle.Render(art) + "\n"
	}
	fmt.Fprint(os.Stdout, art)
}

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}
