// Package game encapsulates the turn engine for a two-player Quoridor
// match: pawn moves, wall placement under the no-block rule, win
// detection and undo.
package game

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/wallgame/quoridor/board"
	"github.com/wallgame/quoridor/move"
	"github.com/wallgame/quoridor/movegen"
	"github.com/wallgame/quoridor/pathfinding"
)

// NoWinner is the winner index of an undecided game.
const NoWinner = -1

var (
	ErrGameOver        = errors.New("cannot play a move on a game that is over")
	ErrNotOnTurn       = errors.New("it is not that player's turn")
	ErrBadPlayer       = errors.New("player index must be 0 or 1")
	ErrIllegalPawnMove = errors.New("pawn cannot move there")
	ErrNoWallsLeft     = errors.New("player has no walls left")
	ErrWallPlacement   = errors.New("wall is off the board or overlaps another wall")
	ErrWallBlocksPath  = errors.New("wall would cut a player off from their goal")
)

// Game is the actual internal game structure that controls the entire
// business logic of a match. It holds no locks; callers that want to
// explore hypothetical lines work on a Copy.
type Game struct {
	rules   *GameRules
	board   *board.Board
	players playerStates
	onturn  int
	winner  int
	turnnum int

	// history holds the actions committed so far. It is only written in
	// InteractiveGameplayMode and is popped on Undo.
	history    []*move.Move
	backupMode BackupMode

	// set once history stops reaching back to the start of the game
	partialHistory bool

	stateStack []*stateBackup
	stackPtr   int
}

// NewGame is how one instantiates a brand new game. Pawns start in the
// middle column of opposite edge rows; player 0 starts on row 0 and must
// reach the last row.
func NewGame(rules *GameRules, nicknames []string) (*Game, error) {
	if rules == nil {
		rules = DefaultRules()
	}
	if len(nicknames) != 2 {
		return nil, fmt.Errorf("a game needs exactly 2 players, got %d", len(nicknames))
	}
	n := rules.BoardDim()
	mid := n / 2
	g := &Game{
		rules:  rules,
		board:  board.MakeBoard(n),
		winner: NoWinner,
		players: playerStates{
			newPlayerState(nicknames[0], board.Pos{Row: 0, Col: mid}, rules.StartingWalls(), n-1),
			newPlayerState(nicknames[1], board.Pos{Row: n - 1, Col: mid}, rules.StartingWalls(), 0),
		},
		backupMode: InteractiveGameplayMode,
	}
	log.Debug().Int("size", n).Int("walls", rules.StartingWalls()).Msg("new-game")
	return g, nil
}

func otherPlayer(idx int) int {
	return 1 - idx
}

func validPlayer(idx int) bool {
	return idx == 0 || idx == 1
}

// LegalMoves returns the pawn destinations available to the player in the
// current position. It does not care whose turn it is.
func (g *Game) LegalMoves(playerIdx int) []board.Pos {
	if !validPlayer(playerIdx) {
		return nil
	}
	return movegen.LegalPawnMoves(g.board, g.players[playerIdx].pos,
		g.players[otherPlayer(playerIdx)].pos)
}

func (g *Game) checkTurn(playerIdx int) error {
	if !validPlayer(playerIdx) {
		return ErrBadPlayer
	}
	if g.winner != NoWinner {
		return ErrGameOver
	}
	if playerIdx != g.onturn {
		return ErrNotOnTurn
	}
	return nil
}

// PlayPawn moves the player's pawn to (row, col). The turn always passes
// to the other player, even when the move wins the game.
func (g *Game) PlayPawn(playerIdx, row, col int) error {
	if err := g.checkTurn(playerIdx); err != nil {
		return err
	}
	dest := board.Pos{Row: row, Col: col}
	legal := false
	for _, p := range g.LegalMoves(playerIdx) {
		if p == dest {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("%w: %v", ErrIllegalPawnMove, dest)
	}
	g.backupState()
	p := g.players[playerIdx]
	p.pos = dest
	if row == p.goalRow {
		g.winner = playerIdx
		log.Debug().Int("winner", playerIdx).Msg("game-decided")
	}
	g.endTurn(move.NewPawnMove(dest))
	return nil
}

// MovePawn is PlayPawn reporting only success.
func (g *Game) MovePawn(playerIdx, row, col int) bool {
	return g.PlayPawn(playerIdx, row, col) == nil
}

// CanPlaceWall checks bounds and overlap only. Connectivity is checked by
// PlaceWall.
func (g *Game) CanPlaceWall(o board.Orientation, wr, wc int) bool {
	return g.board.CanPlaceSegment(o, wr, wc)
}

// PlaceWall places a wall for the player. The segment is put on the board
// tentatively; if either player would be left without a path to their goal
// row it is taken off again and ErrWallBlocksPath is returned.
func (g *Game) PlaceWall(playerIdx int, o board.Orientation, wr, wc int) error {
	if err := g.checkTurn(playerIdx); err != nil {
		return err
	}
	if g.players[playerIdx].walls <= 0 {
		return ErrNoWallsLeft
	}
	if !g.CanPlaceWall(o, wr, wc) {
		return fmt.Errorf("%w: %v at (%d,%d)", ErrWallPlacement, o, wr, wc)
	}
	g.board.PlaceSegment(o, wr, wc)
	for _, p := range g.players {
		if !pathfinding.HasPath(g.board, p.pos, []int{p.goalRow}) {
			g.board.RemoveSegment(o, wr, wc)
			return fmt.Errorf("%w: %v at (%d,%d)", ErrWallBlocksPath, o, wr, wc)
		}
	}
	// The snapshot must not include the new segment.
	g.board.RemoveSegment(o, wr, wc)
	g.backupState()
	g.board.PlaceSegment(o, wr, wc)
	g.players[playerIdx].walls--
	g.endTurn(move.NewWallMove(o, wr, wc))
	return nil
}

// TryPlaceWall is PlaceWall reporting only success.
func (g *Game) TryPlaceWall(playerIdx int, o board.Orientation, wr, wc int) bool {
	return g.PlaceWall(playerIdx, o, wr, wc) == nil
}

// PlayMove applies an action for the player on turn.
func (g *Game) PlayMove(m *move.Move) error {
	if m == nil {
		return errors.New("nil move")
	}
	switch m.Action() {
	case move.MoveTypePawn:
		d := m.Dest()
		return g.PlayPawn(g.onturn, d.Row, d.Col)
	case move.MoveTypeWall:
		o, wr, wc := m.Wall()
		return g.PlaceWall(g.onturn, o, wr, wc)
	}
	return fmt.Errorf("unhandled move type %v", m.Action())
}

func (g *Game) endTurn(m *move.Move) {
	if g.backupMode != NoBackup {
		g.history = append(g.history, m)
	}
	g.turnnum++
	g.onturn = otherPlayer(g.onturn)
}

// Winner returns the index of the winning player, and false while the game
// is undecided.
func (g *Game) Winner() (int, bool) {
	if g.winner == NoWinner {
		return NoWinner, false
	}
	return g.winner, true
}

// Playing is true while no one has won.
func (g *Game) Playing() bool {
	return g.winner == NoWinner
}

func (g *Game) PlayerOnTurn() int {
	return g.onturn
}

func (g *Game) PositionFor(playerIdx int) board.Pos {
	return g.players[playerIdx].pos
}

func (g *Game) WallsFor(playerIdx int) int {
	return g.players[playerIdx].walls
}

func (g *Game) NicknameFor(playerIdx int) string {
	return g.players[playerIdx].nickname
}

func (g *Game) IsAIFor(playerIdx int) bool {
	return g.players[playerIdx].ai
}

func (g *Game) GoalRowFor(playerIdx int) int {
	return g.players[playerIdx].goalRow
}

// Board returns the live board. Callers must not mutate it.
func (g *Game) Board() *board.Board {
	return g.board
}

func (g *Game) Rules() *GameRules {
	return g.rules
}

func (g *Game) Size() int {
	return g.board.Dim()
}

// Turn is the number of actions committed so far.
func (g *Game) Turn() int {
	return g.turnnum
}

// SetAIFor marks a player as computer-controlled. It does not affect
// the undo history.
func (g *Game) SetAIFor(playerIdx int, ai bool) {
	g.players[playerIdx].ai = ai
}

// SetPositionFor places a pawn directly, bypassing move rules. It is
// meant for setting up positions; the undo history is cleared.
func (g *Game) SetPositionFor(playerIdx int, pos board.Pos) error {
	if !validPlayer(playerIdx) {
		return ErrBadPlayer
	}
	if !g.board.InsideBounds(pos.Row, pos.Col) {
		return fmt.Errorf("position %v is off the board", pos)
	}
	if g.players[otherPlayer(playerIdx)].pos == pos {
		return fmt.Errorf("position %v is occupied", pos)
	}
	g.players[playerIdx].pos = pos
	g.clearHistory()
	return nil
}

// SetWallsFor sets a player's remaining walls; the undo history is
// cleared.
func (g *Game) SetWallsFor(playerIdx, walls int) error {
	if !validPlayer(playerIdx) {
		return ErrBadPlayer
	}
	if walls < 0 {
		return fmt.Errorf("walls cannot be negative: %d", walls)
	}
	g.players[playerIdx].walls = walls
	g.clearHistory()
	return nil
}

// SetPlayerOnTurn sets who moves next; the undo history is cleared.
func (g *Game) SetPlayerOnTurn(playerIdx int) error {
	if !validPlayer(playerIdx) {
		return ErrBadPlayer
	}
	g.onturn = playerIdx
	g.clearHistory()
	return nil
}

// PositionKey hashes everything that decides the outcome from here: walls,
// pawns, wall counts and the side to move.
func (g *Game) PositionKey() uint64 {
	n := g.board.Dim()
	buf := make([]byte, 0, 2*(n-1)*(n-1)+24)
	for _, o := range []board.Orientation{board.Horizontal, board.Vertical} {
		for wr := 0; wr < n-1; wr++ {
			for wc := 0; wc < n-1; wc++ {
				if g.board.HasSegment(o, wr, wc) {
					buf = append(buf, 1)
				} else {
					buf = append(buf, 0)
				}
			}
		}
	}
	for _, p := range g.players {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(p.pos.Row))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(p.pos.Col))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(p.walls))
	}
	buf = append(buf, byte(g.onturn))
	return xxhash.Sum64(buf)
}
