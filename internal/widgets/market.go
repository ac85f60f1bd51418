package widgets

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// MarketOptions is the tile config of a market tile.
type MarketOptions struct {
	Symbols []string `json:"symbols"`
}

// Market shows placeholder quotes with a sparkline of the last hour.
type Market struct{}

func (Market) Type() board.TileType   { return "market" }
func (Market) Title() string          { return "Market" }
func (Market) DefaultSize() grid.Size { return grid.SizeLarge }

// Render draws a quote line per symbol, followed by its sparkline when the
// tile is tall enough.
func (Market) Render(dst *core.Screen, area core.Rect, tile board.Tile, now time.Time) {
	opts := options(tile, MarketOptions{Symbols: []string{"AAPL", "MSFT", "NVDA"}})

	rowsPer := 1
	if area.H >= 2*len(opts.Symbols) {
		rowsPer = 2
	}
	for i, sym := range opts.Symbols {
		y := area.Y + i*rowsPer
		if y >= area.Bottom() {
			break
		}
		series := quotes(tile.ID, sym, now, 60)
		first, last := series[0], series[len(series)-1]
		change := (last - first) / first * 100
		dst.DrawTextIn(area, y, fmt.Sprintf("%-5s %9.2f %+6.2f%%", sym, last, change), core.Trend(change), false)
		if rowsPer == 2 {
			dst.DrawTextIn(area, y+1, sparkline(series, area.W), core.ColorCyan, false)
		}
	}
}

// quotes returns n per-minute prices ending at now.
func quotes(tileID, sym string, now time.Time, n int) []float64 {
	base := 20 + source(tileID, sym, 0).Float64()*480
	return walk(source(tileID, sym, now.Unix()/3600), base, base*0.004, n)
}
