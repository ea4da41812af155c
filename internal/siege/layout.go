package siege

import (
	"errors"
	"fmt"
	"math"

	"github.com/videobydak/castle-pong/internal/config"
	"github.com/videobydak/castle-pong/internal/core"
)

// Layout is a grid of block tiers. Zero cells are empty.
type Layout struct {
	Name  string
	Tiers [][]int // [row][col]
}

// Width returns the number of columns.
func (l Layout) Width() int {
	if len(l.Tiers) == 0 {
		return 0
	}
	return len(l.Tiers[0])
}

// Height returns the number of rows.
func (l Layout) Height() int { return len(l.Tiers) }

// CountBlocks returns the number of non-empty cells.
func (l Layout) CountBlocks() int {
	n := 0
	for _, row := range l.Tiers {
		for _, t := range row {
			if t > 0 {
				n++
			}
		}
	}
	return n
}

var errEmptyLayout = errors.New("layout has no blocks")

// ParseLayout parses ASCII rows: '1'..'9' are tiers, '#' is tier 1 and '.'
// or ' ' are empty. Short rows are padded with empty cells.
func ParseLayout(name string, rows []string, maxTier int) (Layout, error) {
	width := 0
	for _, r := range rows {
		if n := len([]rune(r)); n > width {
			width = n
		}
	}

	l := Layout{Name: name, Tiers: make([][]int, len(rows))}
	for y, r := range rows {
		l.Tiers[y] = make([]int, width)
		for x, ch := range []rune(r) {
			switch {
			case ch == '.' || ch == ' ':
			case ch == '#':
				l.Tiers[y][x] = 1
			case ch >= '1' && ch <= '9':
				t := int(ch - '0')
				if maxTier > 0 && t > maxTier {
					t = maxTier
				}
				l.Tiers[y][x] = t
			default:
				return Layout{}, fmt.Errorf("layout %s: row %d col %d: unknown cell %q", name, y, x, ch)
			}
		}
	}
	if l.CountBlocks() == 0 {
		return Layout{}, fmt.Errorf("layout %s: %w", name, errEmptyLayout)
	}
	return l, nil
}

// Shape is a generated castle outline.
type Shape uint8

const (
	ShapeSquare Shape = iota
	ShapeDiamond
	ShapeCircle

	numShapes
)

func (s Shape) String() string {
	switch s {
	case ShapeDiamond:
		return "diamond"
	case ShapeCircle:
		return "circle"
	}
	return "square"
}

// GenerateLayout builds a castle for a wave. The grid grows with the wave,
// the outline is drawn at random and inner rings get tougher blocks.
func GenerateLayout(level, maxTier int, rng Rand) Layout {
	level = config.ClampLevel(level)
	radius := 2 + min(level-1, 4)
	size := 2*radius + 1
	shape := Shape(rng.Intn(int(numShapes)))

	tierCap := min(maxTier, 1+level/2)
	if tierCap < 1 {
		tierCap = 1
	}
	ring := max(1, (radius+1)/tierCap)

	l := Layout{
		Name:  fmt.Sprintf("%s-%d", shape, level),
		Tiers: make([][]int, size),
	}
	for y := 0; y < size; y++ {
		l.Tiers[y] = make([]int, size)
		for x := 0; x < size; x++ {
			dx, dy := x-radius, y-radius
			var d int
			switch shape {
			case ShapeDiamond:
				d = core.Abs(dx) + core.Abs(dy)
			case ShapeCircle:
				d = int(math.Round(math.Hypot(float64(dx), float64(dy))))
			default:
				d = max(core.Abs(dx), core.Abs(dy))
			}
			if d > radius {
				continue
			}
			depth := radius - d
			l.Tiers[y][x] = min(tierCap, 1+depth/ring)
		}
	}

	// crenellations on the top edge of square keeps
	if shape == ShapeSquare {
		for x := 1; x < size; x += 2 {
			l.Tiers[0][x] = 0
		}
	}
	return l
}

// LayoutForWave returns the configured layout pinned to the wave or a
// generated one.
func LayoutForWave(cfg config.SiegeConfig, level int, rng Rand) Layout {
	if lc, ok := cfg.LayoutFor(level); ok {
		if l, err := ParseLayout(lc.Name, lc.Rows, cfg.Structure.MaxTier); err == nil {
			return l
		}
	}
	return GenerateLayout(level, cfg.Structure.MaxTier, rng)
}
