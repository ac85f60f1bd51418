package widgets

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/core"
	"github.com/vovakirdan/tui-dashboard/internal/grid"
)

// WeatherOptions is the tile config of a weather tile.
type WeatherOptions struct {
	City string `json:"city"`
	// Units is "metric" or "imperial".
	Units string `json:"units"`
}

var conditions = []struct {
	icon, name string
	color      core.Color
}{
	{"☀", "Sunny", core.ColorYellow},
	{"⛅", "Partly cloudy", core.ColorWhite},
	{"☁", "Overcast", core.ColorGray},
	{"☂", "Rain", core.ColorBlue},
	{"❄", "Snow", core.ColorBrightCyan},
}

// Weather shows a placeholder forecast that changes every hour.
type Weather struct{}

func (Weather) Type() board.TileType   { return "weather" }
func (Weather) Title() string          { return "Weather" }
func (Weather) DefaultSize() grid.Size { return grid.SizeMedium }

// Render draws the current conditions and, space permitting, the next hours.
func (Weather) Render(dst *core.Screen, area core.Rect, tile board.Tile, now time.Time) {
	opts := options(tile, WeatherOptions{City: "Berlin", Units: "metric"})
	temps, conds := forecast(tile.ID+opts.City, now, 6)

	cur := conditions[conds[0]]
	y := area.Y
	dst.DrawTextIn(area, y, opts.City, core.ColorWhite, true)
	dst.DrawTextIn(area, y+1, cur.icon+" "+formatTemp(temps[0], opts.Units), cur.color, true)
	dst.DrawTextIn(area, y+2, cur.name, core.ColorGray, true)

	if area.H < 5 {
		return
	}
	hours := min(len(temps)-1, area.W/6)
	x := area.X + (area.W-hours*6)/2
	for i := 1; i <= hours; i++ {
		at := now.Add(time.Duration(i) * time.Hour)
		dst.DrawText(x, y+4, at.Format("15h"), core.ColorGray)
		if area.H > 5 {
			dst.DrawText(x, y+5, fmt.Sprintf("%.0f°", convertTemp(temps[i], opts.Units)), conditions[conds[i]].color)
		}
		x += 6
	}
}

// forecast returns n hourly temperatures in Celsius and condition indexes.
func forecast(key string, now time.Time, n int) ([]float64, []int) {
	r := source(key, "weather", now.Unix()/3600)
	temps := walk(r, 14, 2.5, n)
	conds := make([]int, n)
	for i := range conds {
		conds[i] = r.IntN(len(conditions))
	}
	return temps, conds
}

func convertTemp(c float64, units string) float64 {
	if units == "imperial" {
		return c*9/5 + 32
	}
	return c
}

func formatTemp(c float64, units string) string {
	unit := "C"
	if units == "imperial" {
		unit = "F"
	}
	return fmt.Sprintf("%.1f°%s", convertTemp(c, units), unit)
}
