package outwriter

import (
	"os"

	"github.com/huangsam/qapulse/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableTextWidth calculates the maximum width of free-text cells (recommendation
// texts, module names) based on the terminal width.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Metric + Priority columns plus table borders and padding
	available := termWidth - 40
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
