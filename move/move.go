// Package move defines the two kinds of action a player can take: moving
// the pawn or placing a wall.
package move

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wallgame/quoridor/board"
)

// MoveType is a type of move; a pawn step or a wall placement.
type MoveType uint8

const (
	MoveTypePawn MoveType = iota
	MoveTypeWall
)

// MaxBoardDim is the largest side that the letter notation can address.
const MaxBoardDim = 26

var (
	ErrBadNotation = errors.New("cannot parse move notation")
	ErrOffBoard    = errors.New("move notation is off the board")
)

// Move is an action. A pawn move carries its destination cell; a wall
// move carries the intersection and orientation of the segment.
type Move struct {
	action MoveType
	row    int
	col    int
	orient board.Orientation
}

var reNotation *regexp.Regexp

func init() {
	reNotation = regexp.MustCompile(`^(?P<col>[a-z])(?P<row>[0-9]+)(?P<orient>[hv]?)$`)
}

// NewPawnMove creates a pawn move to the given cell.
func NewPawnMove(dest board.Pos) *Move {
	return &Move{action: MoveTypePawn, row: dest.Row, col: dest.Col}
}

// NewWallMove creates a wall placement at intersection (wr, wc).
func NewWallMove(o board.Orientation, wr, wc int) *Move {
	return &Move{action: MoveTypeWall, row: wr, col: wc, orient: o}
}

func (m *Move) Action() MoveType {
	return m.action
}

// Dest is the destination of a pawn move.
func (m *Move) Dest() board.Pos {
	return board.Pos{Row: m.row, Col: m.col}
}

// Wall returns the orientation and intersection of a wall move.
func (m *Move) Wall() (board.Orientation, int, int) {
	return m.orient, m.row, m.col
}

func (m *Move) IsPawn() bool {
	return m.action == MoveTypePawn
}

func (m *Move) MoveTypeString() string {
	switch m.action {
	case MoveTypePawn:
		return "Pawn"
	case MoveTypeWall:
		return "Wall"
	}
	return "UNHANDLED"
}

// ShortDescription gives the move in notation: e2 for a pawn move,
// e3h or e3v for a wall.
func (m *Move) ShortDescription() string {
	coords := ToBoardGameCoords(m.row, m.col)
	if m.action == MoveTypeWall {
		return coords + m.orient.String()
	}
	return coords
}

// String provides a string just for debugging purposes.
func (m *Move) String() string {
	switch m.action {
	case MoveTypePawn:
		return fmt.Sprintf("<action: pawn to: %v %v>", m.ShortDescription(), m.Dest())
	case MoveTypeWall:
		return fmt.Sprintf("<action: wall %v at: (%d,%d)>", m.orient, m.row, m.col)
	}
	return "<Unhandled move>"
}

// Equals compares the kind and coordinates of two moves.
func (m *Move) Equals(other *Move) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.action != other.action || m.row != other.row || m.col != other.col {
		return false
	}
	return m.action == MoveTypePawn || m.orient == other.orient
}

// ToBoardGameCoords converts a row and column to a coordinate like e4.
// The file letter is the column and the rank is row+1.
func ToBoardGameCoords(row, col int) string {
	return string(rune('a'+col)) + strconv.Itoa(row+1)
}

// FromNotation parses a pawn or wall move for a board of the given side.
// Pawn coordinates must be cells; wall coordinates must be interior
// intersections.
func FromNotation(s string, size int) (*Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	matches := reNotation.FindStringSubmatch(s)
	if len(matches) != 4 {
		return nil, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	col := int(matches[1][0] - 'a')
	rank, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadNotation, s)
	}
	row := rank - 1

	limit := size
	if matches[3] != "" {
		limit = size - 1
	}
	if row < 0 || row >= limit || col < 0 || col >= limit {
		return nil, fmt.Errorf("%w: %q on size %d", ErrOffBoard, s, size)
	}
	switch matches[3] {
	case "h":
		return NewWallMove(board.Horizontal, row, col), nil
	case "v":
		return NewWallMove(board.Vertical, row, col), nil
	}
	return NewPawnMove(board.Pos{Row: row, Col: col}), nil
}
