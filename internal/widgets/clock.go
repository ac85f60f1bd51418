package widgets

import (
	"time"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// ClockOptions is the tile config of a clock.
type ClockOptions struct {
	// Zone is an IANA time zone name; empty means local time.
	Zone    string `json:"zone"`
	Hour12  bool   `json:"hour12"`
	Seconds bool   `json:"seconds"`
}

// Clock shows the current time, in block digits when the tile is big enough.
type Clock struct{}

func (Clock) Type() board.TileType   { return "clock" }
func (Clock) Title() string          { return "Clock" }
func (Clock) DefaultSize() grid.Size { return grid.SizeSmall }

// Render draws the time.
func (Clock) Render(dst *core.Screen, area core.Rect, tile board.Tile, now time.Time) {
	opts := options(tile, ClockOptions{})
	if opts.Zone != "" {
		if loc, err := time.LoadLocation(opts.Zone); err == nil {
			now = now.In(loc)
		}
	}

	text := clockText(now, opts)
	if drawBigText(dst, area, text, core.ColorBrightCyan) {
		return
	}
	mid := area.Y + area.H/2
	dst.DrawTextIn(area, mid, text, core.ColorBrightCyan, true)
	if opts.Zone != "" {
		dst.DrawTextIn(area, mid+1, opts.Zone, core.ColorGray, true)
	}
}

func clockText(now time.Time, opts ClockOptions) string {
	layout := "15:04"
	if opts.Hour12 {
		layout = "03:04"
	}
	if opts.Seconds {
		layout += ":05"
	}
	return now.Format(layout)
}
