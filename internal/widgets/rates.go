package widgets

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// RatesOptions is the tile config of an exchange rate tile.
type RatesOptions struct {
	Base    string   `json:"base"`
	Symbols []string `json:"symbols"`
}

// Rates lists placeholder exchange rates, refreshed every minute.
type Rates struct{}

func (Rates) Type() board.TileType   { return "rates" }
func (Rates) Title() string          { return "Exchange rates" }
func (Rates) DefaultSize() grid.Size { return grid.SizeMedium }

// Render draws one rate per line with its change since the last minute.
func (Rates) Render(dst *core.Screen, area core.Rect, tile board.Tile, now time.Time) {
	opts := options(tile, RatesOptions{Base: "USD", Symbols: []string{"EUR", "GBP", "JPY", "CHF"}})

	dst.DrawTextIn(area, area.Y, "1 "+opts.Base, core.ColorYellow, false)
	minute := now.Unix() / 60
	for i, sym := range opts.Symbols {
		y := area.Y + 1 + i
		if y >= area.Bottom() {
			break
		}
		prev, cur := rate(tile.ID, opts.Base, sym, minute)
		arrow := "▲"
		if cur < prev {
			arrow = "▼"
		}
		dst.DrawTextIn(area, y, fmt.Sprintf("%-4s %10.4f %s", sym, cur, arrow), core.Trend(cur-prev), false)
	}
}

// rate returns the rate for the previous and the current minute.
func rate(tileID, base, sym string, minute int64) (prev, cur float64) {
	r := source(tileID, base+sym, 0)
	mid := 0.5 + r.Float64()*150
	at := func(m int64) float64 {
		return walk(source(tileID, base+sym, m), mid, mid*0.002, 1)[0]
	}
	return at(minute - 1), at(minute)
}
