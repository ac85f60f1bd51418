package widgets

import "github.com/vovakirdan/tui-dashboard/internal/core"

// bigGlyphs is a 3x5 block font for the clock face.
var bigGlyphs = map[rune][5]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {" █ ", "██ ", " █ ", " █ ", "███"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
	':': {"   ", " █ ", "   ", " █ ", "   "},
	' ': {"   ", "   ", "   ", "   ", "   "},
}

const (
	glyphW = 3
	glyphH = 5
)

// bigTextWidth returns the width of text in the block font, with one column
// between glyphs.
func bigTextWidth(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return n*glyphW + n - 1
}

// drawBigText draws text centered in area. It reports false, drawing nothing,
// when the text does not fit.
func drawBigText(dst *core.Screen, area core.Rect, text string, c core.Color) bool {
	w := bigTextWidth(text)
	if w == 0 || w > area.W || glyphH > area.H {
		return false
	}
	x := area.X + (area.W-w)/2
	y := area.Y + (area.H-glyphH)/2
	for _, r := range text {
		g, ok := bigGlyphs[r]
		if !ok {
			g = bigGlyphs[' ']
		}
		for row, line := range g {
			dst.DrawText(x, y+row, line, c)
		}
		x += glyphW + 1
	}
	return true
}

// sparkline renders values as a row of block characters, using the last
// width values.
func sparkline(values []float64, width int) string {
	const bars = "▁▂▃▄▅▆▇█"
	levels := []rune(bars)
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(levels)-1))
		}
		out[i] = levels[idx]
	}
	return string(out)
}
