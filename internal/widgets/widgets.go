// Package widgets contains the built-in tile bodies. Importing the package
// registers every widget with the registry.
//
// Widgets show placeholder data derived from the tile id and the clock, so
// the same tile renders the same numbers at the same instant on every
// session. Nothing here talks to the network.
package widgets

import (
	"encoding/json"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/tui-dashboard/internal/board"
	"github.com/vovakirdan/tui-dashboard/internal/registry"
)

func init() {
	registry.Register(Clock{})
	registry.Register(Date{})
	registry.Register(Weather{})
	registry.Register(Rates{})
	registry.Register(Market{})
}

// options decodes a tile's config over defaults. Malformed config keeps the
// defaults.
func options[T any](tile board.Tile, defaults T) T {
	if len(tile.Config) == 0 {
		return defaults
	}
	opts := defaults
	if err := json.Unmarshal(tile.Config, &opts); err != nil {
		return defaults
	}
	return opts
}

// source returns a generator seeded by the tile id, a salt and a time bucket.
func source(tileID, salt string, bucket int64) *rand.Rand {
	seed := xxhash.Sum64String(tileID + "/" + salt)
	return rand.New(rand.NewPCG(seed, uint64(bucket)))
}

// walk returns n points of a bounded random walk starting near base.
func walk(r *rand.Rand, base, step float64, n int) []float64 {
	out := make([]float64, n)
	v := base
	for i := range out {
		v += (r.Float64()*2 - 1) * step
		if v < base/2 {
			v = base / 2
		}
		out[i] = v
	}
	return out
}
