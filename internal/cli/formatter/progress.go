package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderScored renders the share of batch rows that produced a prediction,
// like [██████░░] 75% (3/4). Fully scored runs are green, runs with under
// half the rows scored are red.
func RenderScored(scored, total, width int) string {
	if width < 2 {
		width = 2
	}
	scored = max(0, min(scored, total))

	pct := 1.0
	if total > 0 {
		pct = float64(scored) / float64(total)
	}
	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	switch {
	case scored == total:
		style = StyleGreen
	case pct < 0.5:
		style = StyleRed
	}
	return fmt.Sprintf("[%s] %3.0f%% (%d/%d)", style.Render(bar), pct*100, scored, total)
}
