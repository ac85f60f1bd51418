// Package grid describes the dashboard grid: its extent, the cell footprint
// of each tile size, and the pure geometric queries (clamping, snapping,
// candidate drop origins) the layout engine and drag coordinator rely on.
//
// Everything here is stateless. A Config is built once per session and
// passed by value.
package grid

import (
	"fmt"
	"strings"
)

// Size is a tile size tag.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sizes lists the known size tags from smallest to largest.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

// ParseSize parses a size tag case-insensitively.
func ParseSize(s string) (Size, bool) {
	switch Size(strings.ToLower(strings.TrimSpace(s))) {
	case SizeSmall:
		return SizeSmall, true
	case SizeMedium:
		return SizeMedium, true
	case SizeLarge:
		return SizeLarge, true
	default:
		return SizeMedium, false
	}
}

// String returns the size tag.
func (s Size) String() string {
	return string(s)
}

// Span is the cell footprint of a tile size.
type Span struct {
	ColSpan int `yaml:"col_span" toml:"col_span" json:"colSpan"`
	RowSpan int `yaml:"row_span" toml:"row_span" json:"rowSpan"`
}

// CollisionPolicy decides what happens when a drop lands on cells that are
// already taken by another tile.
type CollisionPolicy string

const (
	// CollisionReject leaves the board unchanged.
	CollisionReject CollisionPolicy = "reject"
	// CollisionCompact applies the drop and re-packs the other tiles around
	// the dropped one.
	CollisionCompact CollisionPolicy = "compact"
)

// Config is the immutable grid description for one board.
type Config struct {
	Columns   int
	Rows      int
	TileSizes map[Size]Span

	MovementEnabled      bool
	Removable            bool
	DynamicExtensions    bool
	AllowDragOutOfBounds bool
	Collision            CollisionPolicy
}

// DefaultTileSizes returns the stock size table.
func DefaultTileSizes() map[Size]Span {
	return map[Size]Span{
		SizeSmall:  {ColSpan: 2, RowSpan: 1},
		SizeMedium: {ColSpan: 2, RowSpan: 1},
		SizeLarge:  {ColSpan: 4, RowSpan: 1},
	}
}

// DefaultConfig returns an 8x12 grid with movement and removal enabled.
func DefaultConfig() Config {
	return Config{
		Columns:         8,
		Rows:            12,
		TileSizes:       DefaultTileSizes(),
		MovementEnabled: true,
		Removable:       true,
		Collision:       CollisionReject,
	}
}

// WithRows returns a copy of the config with a different row count.
// Used when dynamic extensions grow the board.
func (c Config) WithRows(rows int) Config {
	c.Rows = rows
	return c
}

// ConfigError describes why a Config was rejected.
type ConfigError struct {
	Code    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("grid: [%s] %s", e.Code, e.Message)
}

// Validate checks the extent, the size table and the collision policy.
func (c Config) Validate() error {
	if c.Columns <= 0 || c.Rows <= 0 {
		return &ConfigError{
			Code:    "INVALID_EXTENT",
			Message: fmt.Sprintf("grid must be at least 1x1, got %dx%d", c.Columns, c.Rows),
		}
	}

	if _, ok := c.TileSizes[SizeMedium]; !ok {
		return &ConfigError{
			Code:    "MISSING_MEDIUM",
			Message: "tile size table must define medium, it is the fallback span",
		}
	}

	for _, size := range Sizes {
		span, ok := c.TileSizes[size]
		if !ok {
			continue
		}
		if span.ColSpan < 1 || span.ColSpan > c.Columns {
			return &ConfigError{
				Code:    "INVALID_SPAN",
				Message: fmt.Sprintf("%s: col span %d outside [1, %d]", size, span.ColSpan, c.Columns),
			}
		}
		if span.RowSpan < 1 || span.RowSpan > c.Rows {
			return &ConfigError{
				Code:    "INVALID_SPAN",
				Message: fmt.Sprintf("%s: row span %d outside [1, %d]", size, span.RowSpan, c.Rows),
			}
		}
	}

	switch c.Collision {
	case CollisionReject, CollisionCompact, "":
	default:
		return &ConfigError{
			Code:    "INVALID_POLICY",
			Message: fmt.Sprintf("unknown collision policy %q", c.Collision),
		}
	}

	return nil
}
