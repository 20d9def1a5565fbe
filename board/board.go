// Package board holds the Quoridor grid geometry and wall storage. It knows
// nothing about turns or players; it only answers whether two cells are
// separated.
package board

import "fmt"

const (
	// DefaultDim is the side of a standard Quoridor board.
	DefaultDim = 9
)

// Orientation is the direction a wall segment runs in.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "h"
	} else if o == Vertical {
		return "v"
	}
	return "none"
}

// Pos is a cell on the grid.
type Pos struct {
	Row int
	Col int
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// ManhattanTo returns the taxicab distance between two grid points.
func (p Pos) ManhattanTo(row, col int) int {
	return abs(p.Row-row) + abs(p.Col-col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Board is a square grid of side dim. Wall segments live on the (dim-1)^2
// interior intersections; a segment indexed (wr, wc) is two cells long.
//
// A horizontal segment at (wr, wc) separates row wr from row wr+1 in
// columns wc and wc+1. A vertical segment at (wr, wc) separates column wc
// from column wc+1 in rows wr and wr+1.
type Board struct {
	dim    int
	hwalls []bool
	vwalls []bool
	// number of set segments across both orientations
	segments int
}

// MakeBoard creates an empty board of the given side.
func MakeBoard(dim int) *Board {
	s := dim - 1
	if s < 0 {
		s = 0
	}
	return &Board{
		dim:    dim,
		hwalls: make([]bool, s*s),
		vwalls: make([]bool, s*s),
	}
}

func (b *Board) Dim() int {
	return b.dim
}

// NumSegments returns how many wall segments are on the board.
func (b *Board) NumSegments() int {
	return b.segments
}

// InsideBounds is true iff the cell is on the board.
func (b *Board) InsideBounds(row, col int) bool {
	return row >= 0 && row < b.dim && col >= 0 && col < b.dim
}

func (b *Board) segmentInBounds(wr, wc int) bool {
	s := b.dim - 1
	return wr >= 0 && wr < s && wc >= 0 && wc < s
}

func (b *Board) idx(wr, wc int) int {
	return wr*(b.dim-1) + wc
}

func (b *Board) grid(o Orientation) []bool {
	if o == Vertical {
		return b.vwalls
	}
	return b.hwalls
}

// HasSegment reports whether a segment of the given orientation occupies
// the intersection. Out-of-range indices report false.
func (b *Board) HasSegment(o Orientation, wr, wc int) bool {
	if !b.segmentInBounds(wr, wc) {
		return false
	}
	return b.grid(o)[b.idx(wr, wc)]
}

// CanPlaceSegment checks bounds and that the same orientation is not
// already set at this index. Crossing or end-to-end touching segments are
// allowed.
func (b *Board) CanPlaceSegment(o Orientation, wr, wc int) bool {
	if !b.segmentInBounds(wr, wc) {
		return false
	}
	return !b.grid(o)[b.idx(wr, wc)]
}

// PlaceSegment sets a segment unconditionally. The caller is responsible
// for legality and for any rollback.
func (b *Board) PlaceSegment(o Orientation, wr, wc int) {
	g := b.grid(o)
	i := b.idx(wr, wc)
	if !g[i] {
		b.segments++
	}
	g[i] = true
}

// RemoveSegment clears a segment unconditionally.
func (b *Board) RemoveSegment(o Orientation, wr, wc int) {
	g := b.grid(o)
	i := b.idx(wr, wc)
	if g[i] {
		b.segments--
	}
	g[i] = false
}

// IsBlocked returns true if the two cells cannot be stepped between: one
// of them is off the board, they are not orthogonal neighbours, or a wall
// lies on their shared edge.
func (b *Board) IsBlocked(r1, c1, r2, c2 int) bool {
	if !b.InsideBounds(r1, c1) || !b.InsideBounds(r2, c2) {
		return true
	}
	dr := r2 - r1
	dc := c2 - c1
	if abs(dr)+abs(dc) != 1 {
		return true
	}
	switch {
	case dr == 1:
		return b.hBlocks(r1, c1)
	case dr == -1:
		return b.hBlocks(r2, c2)
	case dc == 1:
		return b.vBlocks(r1, c1)
	default:
		return b.vBlocks(r2, c2)
	}
}

// hBlocks: is the edge between (r, c) and (r+1, c) covered by a horizontal
// segment? Segments at columns c-1 and c both span column c.
func (b *Board) hBlocks(r, c int) bool {
	return b.HasSegment(Horizontal, r, c) || b.HasSegment(Horizontal, r, c-1)
}

// vBlocks: is the edge between (r, c) and (r, c+1) covered by a vertical
// segment? Segments at rows r-1 and r both span row r.
func (b *Board) vBlocks(r, c int) bool {
	return b.HasSegment(Vertical, r, c) || b.HasSegment(Vertical, r-1, c)
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	n := &Board{
		dim:      b.dim,
		hwalls:   make([]bool, len(b.hwalls)),
		vwalls:   make([]bool, len(b.vwalls)),
		segments: b.segments,
	}
	copy(n.hwalls, b.hwalls)
	copy(n.vwalls, b.vwalls)
	return n
}

// CopyFrom copies the other board into this one without allocating, as
// long as the dimensions match.
func (b *Board) CopyFrom(other *Board) {
	if b.dim != other.dim {
		b.dim = other.dim
		b.hwalls = make([]bool, len(other.hwalls))
		b.vwalls = make([]bool, len(other.vwalls))
	}
	copy(b.hwalls, other.hwalls)
	copy(b.vwalls, other.vwalls)
	b.segments = other.segments
}

// Equals compares dimensions and every wall segment.
func (b *Board) Equals(other *Board) bool {
	if b.dim != other.dim || b.segments != other.segments {
		return false
	}
	for i := range b.hwalls {
		if b.hwalls[i] != other.hwalls[i] || b.vwalls[i] != other.vwalls[i] {
			return false
		}
	}
	return true
}
