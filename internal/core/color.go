package core

// Color is a palette index for a screen cell. The renderer maps it to a
// terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightGreen
	ColorBrightCyan
	ColorOrange
	ColorGray
)

// Trend colors a value change: green for up or flat, red for down.
func Trend(delta float64) Color {
	if delta < 0 {
		return ColorRed
	}
	return ColorGreen
}

// DropColor colors a drop preview: red when the drop would be refused,
// orange when it pushes other tiles aside, green otherwise.
func DropColor(accepted, displaces bool) Color {
	switch {
	case !accepted:
		return ColorRed
	case displaces:
		return ColorOrange
	default:
		return ColorGreen
	}
}
