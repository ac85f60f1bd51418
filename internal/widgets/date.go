package widgets

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// DateOptions is the tile config of a date tile.
type DateOptions struct {
	// Layout is a Go time layout for the main line.
	Layout string `json:"layout"`
}

// Date shows the day, the date and the week number.
type Date struct{}

func (Date) Type() board.TileType   { return "date" }
func (Date) Title() string          { return "Date" }
func (Date) DefaultSize() grid.Size { return grid.SizeSmall }

// Render draws the date.
func (Date) Render(dst *core.Screen, area core.Rect, tile board.Tile, now time.Time) {
	opts := options(tile, DateOptions{Layout: "2 Jan 2006"})
	_, week := now.ISOWeek()

	lines := []struct {
		text  string
		color core.Color
	}{
		{now.Weekday().String(), core.ColorYellow},
		{now.Format(opts.Layout), core.ColorWhite},
		{fmt.Sprintf("week %d", week), core.ColorGray},
	}
	if len(lines) > area.H {
		lines = lines[:area.H]
	}
	y := area.Y + (area.H-len(lines))/2
	for i, l := range lines {
		dst.DrawTextIn(area, y+i, l.text, l.color, true)
	}
}
