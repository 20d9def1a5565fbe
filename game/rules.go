package game

import (
	"fmt"

	"github.com/wallgame/quoridor/board"
	"github.com/wallgame/quoridor/move"
)

const (
	DefaultStartingWalls = 10
	MinBoardDim          = 3
)

// GameRules is a simple struct that holds the parameters a game is
// created with.
type GameRules struct {
	boardDim      int
	startingWalls int
}

func (g GameRules) BoardDim() int {
	return g.boardDim
}

func (g GameRules) StartingWalls() int {
	return g.startingWalls
}

// NewBasicGameRules validates the board side and wall allotment. The side
// is capped so that every file fits in a single notation letter.
func NewBasicGameRules(boardDim, startingWalls int) (*GameRules, error) {
	if boardDim < MinBoardDim || boardDim > move.MaxBoardDim {
		return nil, fmt.Errorf("board size %d must be between %d and %d",
			boardDim, MinBoardDim, move.MaxBoardDim)
	}
	if startingWalls < 0 {
		return nil, fmt.Errorf("starting walls cannot be negative: %d", startingWalls)
	}
	return &GameRules{boardDim: boardDim, startingWalls: startingWalls}, nil
}

// DefaultRules is a 9x9 board with 10 walls each.
func DefaultRules() *GameRules {
	return &GameRules{boardDim: board.DefaultDim, startingWalls: DefaultStartingWalls}
}
